// Package captcha holds login challenges in process memory. Entries carry
// a fixed TTL and the store is capacity-bounded, so abandoned challenges
// cannot accumulate for the lifetime of the process.
package captcha

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

const (
	codeLength = 6
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store is a TTL- and capacity-bounded challenge store.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry
	now      func() time.Time
}

// NewStore constructs a Store. Non-positive ttl or capacity fall back to
// 10 minutes and 10 000 entries.
func NewStore(ttl time.Duration, capacity int) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &Store{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// Issue generates a 6-character alphanumeric challenge, stores it under a
// time-based identifier, and returns both.
func (s *Store) Issue() (id, code string) {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	code = string(buf)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	// Time-based identifier; bumped until free so two challenges issued
	// in the same instant cannot collide.
	nano := now.UnixNano()
	id = strconv.FormatInt(nano, 10)
	for {
		if _, exists := s.entries[id]; !exists {
			break
		}
		nano++
		id = strconv.FormatInt(nano, 10)
	}
	s.entries[id] = entry{code: code, expiresAt: now.Add(s.ttl)}
	return id, code
}

// Verify reports whether the stored challenge for id exactly matches
// value. Expired or unknown challenges never match. The challenge is not
// invalidated on success.
func (s *Store) Verify(id, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return false
	}
	return e.code == value
}

// Len reports the number of stored challenges, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked drops expired entries and, if the store is still at
// capacity, the entry closest to expiry.
func (s *Store) evictLocked(now time.Time) {
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	if len(s.entries) < s.capacity {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.expiresAt.Before(oldest) {
			oldestID = id
			oldest = e.expiresAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
