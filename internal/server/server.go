package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lifestyleblend/apiserver/config"
	"github.com/lifestyleblend/apiserver/internal/captcha"
	"github.com/lifestyleblend/apiserver/internal/cleanup"
	"github.com/lifestyleblend/apiserver/internal/db"
	"github.com/lifestyleblend/apiserver/internal/handlers"
	"github.com/lifestyleblend/apiserver/internal/intelligence"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/internal/middleware"
	"github.com/lifestyleblend/apiserver/internal/notify"
	"github.com/lifestyleblend/apiserver/internal/services"
	"github.com/lifestyleblend/apiserver/internal/storage"
	"github.com/lifestyleblend/apiserver/internal/store"
	"github.com/lifestyleblend/apiserver/web"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	disconnect func(context.Context) error
	notifier   *notify.Notifier
}

// New constructs a Server with all dependencies wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("SECRET is required")
	}

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, disconnect, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadAWS(ctx, cfg)
	if err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}

	objectStorage, err := storage.New(awsCfg, cfg)
	if err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		_ = disconnect(context.Background())
		return nil, fmt.Errorf("object storage bucket check failed: %w", err)
	}

	notifier, err := newNotifier(awsCfg, cfg)
	if err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}

	cleaner, err := cleanup.NewInvoker(awsCfg, cfg.Cleanup.FunctionName)
	if err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}

	intel := intelligence.New(awsCfg, cfg.Rekognition.CollectionID)
	captchas := captcha.NewStore(cfg.Captcha.TTL, cfg.Captcha.Capacity)

	userRepo := store.NewUserRepository(database)
	postRepo := store.NewPostRepository(database)

	userService := services.NewUserService(userRepo, captchas, notifier, log)
	postService := services.NewPostService(postRepo, userRepo, intel, objectStorage, cleaner, log)

	authHandler := handlers.NewAuthHandler(userService, intel, cfg.JWTSecret, log)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		chimiddleware.Logger,
		chimiddleware.Timeout(60*time.Second),
		middleware.CORS(cfg.AllowedOrigins),
	)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Blog app server is up and running!"}`))
	})
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authHandler)
	handlers.PostRouter(router, postService, authHandler.RequireSession)
	router.Mount("/app", web.Handler())

	port := cfg.ServerPort
	if port == 0 {
		port = 4000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		disconnect: disconnect,
		notifier:   notifier,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.notifier != nil {
		_ = s.notifier.Close()
	}
	if s.disconnect != nil {
		_ = s.disconnect(context.Background())
	}
	return s.httpServer.Close()
}

func newNotifier(awsCfg aws.Config, cfg config.Config) (*notify.Notifier, error) {
	switch cfg.Notify.Backend {
	case "", "none":
		return notify.New(notify.NopBackend{}), nil
	case "ses":
		backend, err := notify.NewSESBackend(awsCfg, cfg.Notify.SESSender)
		if err != nil {
			return nil, err
		}
		return notify.New(backend), nil
	case "amqp":
		backend, err := notify.NewAMQPBackend(cfg.Notify.AMQPURL, cfg.Notify.AMQPQueue)
		if err != nil {
			return nil, err
		}
		return notify.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Notify.Backend)
	}
}
