// Conduit is a blogging API: users, profiles, articles, comments, tags,
// favorites, and follows, served as JSON over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/comments"
	"github.com/user/conduit-go/config"
	"github.com/user/conduit-go/db"
	"github.com/user/conduit-go/logger"
	"github.com/user/conduit-go/monitoring"
	"github.com/user/conduit-go/profiles"
	"github.com/user/conduit-go/tags"
)

func main() {
	// Missing .env is fine in deployed environments where real env vars are set.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Stores
	userStore := auth.NewPgxUserStore(pool)
	articleStore := articles.NewPgxStore(pool)
	commentStore := comments.NewPgxStore(pool)
	followStore := profiles.NewPgxFollowStore(pool)
	tagStore := tags.NewPgxStore(pool)

	// Services and handlers
	authHandlers := auth.NewHandlers(auth.NewService(userStore, cfg.Auth))
	articleHandlers := articles.NewHandlers(articles.NewService(articleStore, articleStore))
	commentHandlers := comments.NewHandlers(comments.NewService(commentStore, articleStore))
	profileHandlers := profiles.NewHandlers(profiles.NewService(followStore, articleStore))
	tagHandlers := tags.NewHandlers(tagStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(apperror.Recoverer(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(monitoring.InstrumentHandler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAuth := auth.Required(cfg.Auth)
	optionalAuth := auth.Optional(cfg.Auth)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Post("/users", authHandlers.HandleRegister())
	r.Post("/users/login", authHandlers.HandleLogin())

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/user", authHandlers.HandleCurrentUser())
		r.Put("/user", authHandlers.HandleUpdateUser())
	})

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/profiles/{username}", profileHandlers.HandleGet())
		r.Get("/articles", articleHandlers.HandleList())
		r.Get("/articles/{slug}", articleHandlers.HandleGet())
		r.Get("/articles/{slug}/comments", commentHandlers.HandleList())
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/profiles/{username}/follow", profileHandlers.HandleFollow())
		r.Delete("/profiles/{username}/follow", profileHandlers.HandleUnfollow())
		r.Post("/articles", articleHandlers.HandleCreate())
		r.Put("/articles/{slug}", articleHandlers.HandleUpdate())
		r.Delete("/articles/{slug}", articleHandlers.HandleDelete())
		r.Post("/articles/{slug}/favorite", articleHandlers.HandleFavorite())
		r.Delete("/articles/{slug}/favorite", articleHandlers.HandleUnfavorite())
		r.Post("/articles/{slug}/comments", commentHandlers.HandleCreate())
		r.Delete("/articles/{slug}/comments/{id}", commentHandlers.HandleDelete())
	})

	r.Get("/tags", tagHandlers.HandleList())

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
