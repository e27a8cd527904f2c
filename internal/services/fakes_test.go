package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lifestyleblend/apiserver/internal/intelligence"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/internal/notify"
	"github.com/lifestyleblend/apiserver/internal/store"
	"github.com/lifestyleblend/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]types.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetUsernames(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	usernames := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			usernames[id] = user.Username
		}
	}
	return usernames, nil
}

type fakePostRepo struct {
	posts       map[primitive.ObjectID]types.Post
	latestLimit int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]types.Post)}
}

func (r *fakePostRepo) Get(_ context.Context, id primitive.ObjectID) (types.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	return post, nil
}

func (r *fakePostRepo) Create(_ context.Context, post types.Post) (types.Post, error) {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = post
	return post, nil
}

func (r *fakePostRepo) Update(_ context.Context, post types.Post) (types.Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return types.Post{}, store.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	r.posts[post.ID] = post
	return post, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListLatest(_ context.Context, limit int) ([]types.Post, error) {
	r.latestLimit = limit
	posts := make([]types.Post, 0, len(r.posts))
	for _, post := range r.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *fakePostRepo) SearchByTitle(_ context.Context, query string) ([]types.Post, error) {
	var posts []types.Post
	for _, post := range r.posts {
		if strings.Contains(strings.ToLower(post.Title), strings.ToLower(query)) {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

type fakeIntel struct {
	language  intelligence.Language
	sentiment intelligence.Sentiment
	spans     []intelligence.Span
	translate string
	err       error

	languageCalls  int
	sentimentCalls int
	piiCalls       int
}

func (f *fakeIntel) DetectDominantLanguage(context.Context, string) (intelligence.Language, error) {
	f.languageCalls++
	return f.language, f.err
}

func (f *fakeIntel) AnalyzeSentiment(context.Context, string, string) (intelligence.Sentiment, error) {
	f.sentimentCalls++
	return f.sentiment, f.err
}

func (f *fakeIntel) DetectPiiEntities(context.Context, string) ([]intelligence.Span, error) {
	f.piiCalls++
	return f.spans, f.err
}

func (f *fakeIntel) Translate(_ context.Context, _, _ string) (string, error) {
	return f.translate, f.err
}

func (f *fakeIntel) SynthesizeSpeech(_ context.Context, text, voiceID string) (intelligence.SpeechStream, error) {
	if f.err != nil {
		return intelligence.SpeechStream{}, f.err
	}
	return intelligence.SpeechStream{
		Audio:       io.NopCloser(strings.NewReader(text + "|" + voiceID)),
		ContentType: "audio/mpeg",
	}, nil
}

type fakeObjectStore struct {
	keys []string
	err  error
}

func (f *fakeObjectStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "https://covers.example.com/" + key
}

func (f *fakeObjectStore) Bucket() string { return "covers" }

type fakeCleaner struct {
	calls [][2]string
	err   error
}

func (f *fakeCleaner) RemoveObject(_ context.Context, bucket, key string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, [2]string{bucket, key})
	return nil
}

type fakeNotifier struct {
	sent []notify.Registration
	err  error
}

func (f *fakeNotifier) SendRegistration(_ context.Context, reg notify.Registration) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, reg)
	return nil
}

var errBoom = errors.New("boom")
