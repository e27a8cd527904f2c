package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lifestyleblend/apiserver/internal/captcha"
	"github.com/lifestyleblend/apiserver/internal/intelligence"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/internal/notify"
	"github.com/lifestyleblend/apiserver/internal/services"
	"github.com/lifestyleblend/apiserver/internal/store"
	"github.com/lifestyleblend/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

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
	posts map[primitive.ObjectID]types.Post
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
	return posts, nil
}

type fakeIntel struct{}

func (fakeIntel) DetectDominantLanguage(context.Context, string) (intelligence.Language, error) {
	return intelligence.Language{Code: "en", Confidence: 0.99}, nil
}

func (fakeIntel) AnalyzeSentiment(context.Context, string, string) (intelligence.Sentiment, error) {
	return intelligence.Sentiment{
		Label:  "POSITIVE",
		Scores: intelligence.SentimentScores{Positive: 0.9, Negative: 0.04, Neutral: 0.04, Mixed: 0.02},
	}, nil
}

func (fakeIntel) DetectPiiEntities(context.Context, string) ([]intelligence.Span, error) {
	return nil, nil
}

func (fakeIntel) Translate(_ context.Context, text, _ string) (string, error) {
	return "translated: " + text, nil
}

func (fakeIntel) SynthesizeSpeech(_ context.Context, text, voiceID string) (intelligence.SpeechStream, error) {
	return intelligence.SpeechStream{
		Audio:       io.NopCloser(strings.NewReader(text + "|" + voiceID)),
		ContentType: "audio/mpeg",
	}, nil
}

type fakeObjectStore struct{}

func (fakeObjectStore) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (fakeObjectStore) PublicURL(key string) string {
	return "https://covers.example.com/" + key
}

func (fakeObjectStore) Bucket() string { return "covers" }

type fakeCleaner struct{}

func (fakeCleaner) RemoveObject(context.Context, string, string) error { return nil }

type fakeNotifier struct{}

func (fakeNotifier) SendRegistration(context.Context, notify.Registration) error { return nil }

type fakeFaceMatcher struct {
	match bool
	err   error
}

func (f fakeFaceMatcher) MatchFace(context.Context, []byte) (bool, error) {
	return f.match, f.err
}

// testEnv wires handlers with in-memory backends behind a chi router the
// way the server does.
type testEnv struct {
	router  chi.Router
	users   *fakeUserRepo
	posts   *fakePostRepo
	userSvc *services.UserService
	postSvc *services.PostService
	auth    *AuthHandler
	faces   *fakeFaceMatcher
}

func newTestEnv() *testEnv {
	log := testLogger()
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	faces := &fakeFaceMatcher{}

	userSvc := services.NewUserService(users, captcha.NewStore(time.Minute, 100), fakeNotifier{}, log)
	postSvc := services.NewPostService(posts, users, fakeIntel{}, fakeObjectStore{}, fakeCleaner{}, log)
	auth := NewAuthHandler(userSvc, faces, testSecret, log)

	router := chi.NewRouter()
	AuthRouter(router, auth)
	PostRouter(router, postSvc, auth.RequireSession)
	router.Get("/healthz", Healthz)

	return &testEnv{
		router:  router,
		users:   users,
		posts:   posts,
		userSvc: userSvc,
		postSvc: postSvc,
		auth:    auth,
		faces:   faces,
	}
}

// sessionCookie returns a valid session cookie for a freshly created user.
func (e *testEnv) sessionCookie(username string) (*http.Cookie, primitive.ObjectID) {
	user, err := e.users.Create(context.Background(), types.User{
		Username: username,
		Email:    username + "@example.com",
	})
	if err != nil {
		panic(err)
	}
	token, err := issueSessionToken(user.ID, username, []byte(testSecret), time.Hour)
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}, user.ID
}
