package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/lifestyleblend/apiserver/internal/intelligence"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const feedLimit = 20

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Get(ctx context.Context, id primitive.ObjectID) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListLatest(ctx context.Context, limit int) ([]types.Post, error)
	SearchByTitle(ctx context.Context, query string) ([]types.Post, error)
}

// Intelligence defines the content-intelligence operations the post
// service depends on.
type Intelligence interface {
	DetectDominantLanguage(ctx context.Context, text string) (intelligence.Language, error)
	AnalyzeSentiment(ctx context.Context, text, languageCode string) (intelligence.Sentiment, error)
	DetectPiiEntities(ctx context.Context, text string) ([]intelligence.Span, error)
	Translate(ctx context.Context, text, targetLanguageCode string) (string, error)
	SynthesizeSpeech(ctx context.Context, text, voiceID string) (intelligence.SpeechStream, error)
}

// ObjectStore is the object-storage surface used for cover uploads.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Bucket() string
}

// CleanupInvoker removes a cover object through the remote cleanup function.
type CleanupInvoker interface {
	RemoveObject(ctx context.Context, bucket, key string) error
}

// CoverUpload is an uploaded cover image.
type CoverUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PostInput is the submitted post payload shared by create and update.
type PostInput struct {
	Title   string
	Summary string
	Content string
	Cover   *CoverUpload
}

// PostAnalysis is a post together with its read-time enrichment.
type PostAnalysis struct {
	Post               types.Post `json:"post"`
	Sentiment          string     `json:"sentiment"`
	SentimentScore     float64    `json:"sentimentScore"`
	Language           string     `json:"language"`
	LanguageConfidence float64    `json:"languageConfidence"`
}

// ContentAnalysis is the standalone analysis of arbitrary content.
type ContentAnalysis struct {
	Sentiment          string                       `json:"sentiment"`
	SentimentScore     intelligence.SentimentScores `json:"sentimentScore"`
	Language           string                       `json:"language"`
	LanguageConfidence float64                      `json:"languageConfidence"`
}

// Translation is the result of translating a post's content. Nothing is
// persisted.
type Translation struct {
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
}

// PostService encapsulates post use-cases.
type PostService struct {
	repo    PostRepository
	users   UserRepository
	intel   Intelligence
	storage ObjectStore
	cleaner CleanupInvoker
	cache   *analysisCache
	log     logging.Logger
	now     func() time.Time
}

func NewPostService(
	repo PostRepository,
	users UserRepository,
	intel Intelligence,
	storage ObjectStore,
	cleaner CleanupInvoker,
	log logging.Logger,
) *PostService {
	return &PostService{
		repo:    repo,
		users:   users,
		intel:   intel,
		storage: storage,
		cleaner: cleaner,
		cache:   newAnalysisCache(),
		log:     log,
		now:     time.Now,
	}
}

// Create redacts PII from the content, picks the narrator voice from the
// detected language, uploads the cover, and persists the post.
func (s *PostService) Create(ctx context.Context, in PostInput, authorID primitive.ObjectID) (types.Post, error) {
	if in.Cover == nil {
		return types.Post{}, ErrCoverRequired
	}

	spans, err := s.intel.DetectPiiEntities(ctx, in.Content)
	if err != nil {
		return types.Post{}, err
	}
	content := intelligence.MaskPii(in.Content, spans)

	language, err := s.intel.DetectDominantLanguage(ctx, content)
	if err != nil {
		return types.Post{}, err
	}

	coverURL, err := s.uploadCover(ctx, in.Cover)
	if err != nil {
		return types.Post{}, err
	}

	return s.repo.Create(ctx, types.Post{
		Title:    in.Title,
		Summary:  in.Summary,
		Content:  content,
		Cover:    coverURL,
		Speaker:  voiceForLanguage(language.Code),
		AuthorID: authorID,
	})
}

// Update replaces title, summary and content unconditionally and the
// cover only when a new file was supplied. PII redaction and language
// detection are not re-run.
func (s *PostService) Update(ctx context.Context, id primitive.ObjectID, in PostInput, authorID primitive.ObjectID) (types.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}
	if post.AuthorID != authorID {
		return types.Post{}, ErrNotAuthor
	}

	post.Title = in.Title
	post.Summary = in.Summary
	post.Content = in.Content
	if in.Cover != nil {
		coverURL, err := s.uploadCover(ctx, in.Cover)
		if err != nil {
			return types.Post{}, err
		}
		post.Cover = coverURL
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return types.Post{}, err
	}
	s.cache.invalidate(id)
	return updated, nil
}

// Delete removes the post after the remote cleanup function has removed
// its cover object. A cleanup failure aborts the delete and leaves the
// record untouched.
func (s *PostService) Delete(ctx context.Context, id, authorID primitive.ObjectID) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return ErrNotAuthor
	}

	if key := coverKey(post.Cover); key != "" {
		if err := s.cleaner.RemoveObject(ctx, s.storage.Bucket(), key); err != nil {
			return fmt.Errorf("remove cover object: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(id)
	return nil
}

// Get returns the post with its author expanded and its language and
// dominant sentiment, served from the enrichment cache when the content
// is unchanged.
func (s *PostService) Get(ctx context.Context, id primitive.ObjectID) (PostAnalysis, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return PostAnalysis{}, err
	}
	expanded := []types.Post{post}
	if err := s.expandAuthors(ctx, expanded); err != nil {
		return PostAnalysis{}, err
	}
	post = expanded[0]

	if entry, ok := s.cache.get(id, post.Content); ok {
		return PostAnalysis{
			Post:               post,
			Sentiment:          entry.sentiment,
			SentimentScore:     entry.sentimentScore,
			Language:           entry.language.Code,
			LanguageConfidence: entry.language.Confidence,
		}, nil
	}

	language, err := s.intel.DetectDominantLanguage(ctx, post.Content)
	if err != nil {
		return PostAnalysis{}, err
	}
	sentiment, err := s.intel.AnalyzeSentiment(ctx, post.Content, language.Code)
	if err != nil {
		return PostAnalysis{}, err
	}

	label, score := sentiment.Scores.Dominant()
	s.cache.put(id, post.Content, language, label, score)

	return PostAnalysis{
		Post:               post,
		Sentiment:          label,
		SentimentScore:     score,
		Language:           language.Code,
		LanguageConfidence: language.Confidence,
	}, nil
}

// List returns the newest posts for the feed, authors expanded.
func (s *PostService) List(ctx context.Context) ([]types.Post, error) {
	posts, err := s.repo.ListLatest(ctx, feedLimit)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Search returns posts whose title contains the query, case-insensitively.
func (s *PostService) Search(ctx context.Context, titleQuery string) ([]types.Post, error) {
	posts, err := s.repo.SearchByTitle(ctx, titleQuery)
	if err != nil {
		return nil, err
	}
	if err := s.expandAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Analyze runs language detection and sentiment analysis over arbitrary
// content.
func (s *PostService) Analyze(ctx context.Context, content string) (ContentAnalysis, error) {
	language, err := s.intel.DetectDominantLanguage(ctx, content)
	if err != nil {
		return ContentAnalysis{}, err
	}
	sentiment, err := s.intel.AnalyzeSentiment(ctx, content, language.Code)
	if err != nil {
		return ContentAnalysis{}, err
	}

	return ContentAnalysis{
		Sentiment:          sentiment.Label,
		SentimentScore:     sentiment.Scores,
		Language:           language.Code,
		LanguageConfidence: language.Confidence,
	}, nil
}

// Translate returns the post's content translated into the target
// language alongside the original.
func (s *PostService) Translate(ctx context.Context, id primitive.ObjectID, targetLanguage string) (Translation, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Translation{}, err
	}

	translated, err := s.intel.Translate(ctx, post.Content, targetLanguage)
	if err != nil {
		return Translation{}, err
	}

	return Translation{
		OriginalText:   post.Content,
		TranslatedText: translated,
		TargetLanguage: targetLanguage,
	}, nil
}

// SynthesizeTitle renders the post title as speech with the stored
// narrator voice, falling back to the default voice when unset.
func (s *PostService) SynthesizeTitle(ctx context.Context, id primitive.ObjectID) (intelligence.SpeechStream, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return intelligence.SpeechStream{}, err
	}

	voice := post.Speaker
	if voice == "" {
		voice = defaultVoice
	}
	return s.intel.SynthesizeSpeech(ctx, post.Title, voice)
}

// uploadCover stores the file under a timestamp-based key and returns
// its public URL.
func (s *PostService) uploadCover(ctx context.Context, cover *CoverUpload) (string, error) {
	key := fmt.Sprintf("%d%s", s.now().UnixMilli(), path.Ext(cover.Filename))
	reader := bytes.NewReader(cover.Data)
	if err := s.storage.Put(ctx, key, reader, int64(len(cover.Data)), cover.ContentType); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	return s.storage.PublicURL(key), nil
}

// expandAuthors resolves the author reference of each post to its
// username in one lookup.
func (s *PostService) expandAuthors(ctx context.Context, posts []types.Post) error {
	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]struct{}, len(posts))
	for _, post := range posts {
		if _, ok := seen[post.AuthorID]; !ok {
			seen[post.AuthorID] = struct{}{}
			ids = append(ids, post.AuthorID)
		}
	}

	usernames, err := s.users.GetUsernames(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Author = &types.AuthorRef{
			ID:       posts[i].AuthorID,
			Username: usernames[posts[i].AuthorID],
		}
	}
	return nil
}

// coverKey derives the storage key from the trailing path segment of the
// stored cover URL.
func coverKey(coverURL string) string {
	trimmed := strings.TrimSpace(coverURL)
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
