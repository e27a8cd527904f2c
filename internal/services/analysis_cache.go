package services

import (
	"crypto/sha256"
	"sync"

	"github.com/lifestyleblend/apiserver/internal/intelligence"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// analysisCache memoizes read-time enrichment per post. Entries are keyed
// by post id and bound to a hash of the content they were computed from,
// so a stale entry can never outlive an edit even if invalidation is
// missed.
type analysisCache struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]analysisEntry
}

type analysisEntry struct {
	contentHash    [sha256.Size]byte
	language       intelligence.Language
	sentiment      string
	sentimentScore float64
}

func newAnalysisCache() *analysisCache {
	return &analysisCache{entries: make(map[primitive.ObjectID]analysisEntry)}
}

func (c *analysisCache) get(id primitive.ObjectID, content string) (analysisEntry, bool) {
	hash := sha256.Sum256([]byte(content))

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok || entry.contentHash != hash {
		return analysisEntry{}, false
	}
	return entry, true
}

func (c *analysisCache) put(id primitive.ObjectID, content string, language intelligence.Language, sentiment string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = analysisEntry{
		contentHash:    sha256.Sum256([]byte(content)),
		language:       language,
		sentiment:      sentiment,
		sentimentScore: score,
	}
}

func (c *analysisCache) invalidate(id primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
