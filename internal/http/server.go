package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clemente-pps/flixfinder/internal/auth"
	"github.com/clemente-pps/flixfinder/internal/catalog"
	"github.com/clemente-pps/flixfinder/internal/config"
	"github.com/clemente-pps/flixfinder/internal/preference"
	"github.com/clemente-pps/flixfinder/internal/repository"
	"github.com/clemente-pps/flixfinder/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	authSvc *auth.Service
	prefs   *preference.Service
	browse  *catalog.Aggregator
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, authSvc *auth.Service, prefs *preference.Service, browse *catalog.Aggregator, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		authSvc: authSvc,
		prefs:   prefs,
		browse:  browse,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireServiceKey)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Get("/me", s.handleMe)
				r.Put("/profile", s.handleUpdateProfile)
				r.Put("/change-password", s.handleChangePassword)
			})
		})

		r.Route("/movies", s.browseRoutes(catalog.KindMovie))
		r.Route("/series", s.browseRoutes(catalog.KindTV))

		r.Route("/catalog", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/movies", s.handleImportMovie)
			r.Get("/movies/{id}", s.handleGetMirrorMovie)
			r.Delete("/movies/{id}", s.handleDeleteMirrorMovie)
			r.Post("/series", s.handleImportSeries)
			r.Get("/series/{id}", s.handleGetMirrorSeries)
			r.Delete("/series/{id}", s.handleDeleteMirrorSeries)
			r.Post("/actors", s.handleImportActor)
			r.Get("/actors/{id}", s.handleGetMirrorActor)
			r.Delete("/actors/{id}", s.handleDeleteMirrorActor)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/", s.handleAddFavorite)
			r.Get("/", s.handleListFavorites)
			r.Delete("/", s.handleDeleteFavorite)
			r.Get("/detailed", s.handleListFavoritesDetailed)
			r.Get("/check", s.handleCheckFavorite)
			r.Get("/stats", s.handleFavoriteStats)
			r.Post("/toggle", s.handleToggleFavorite)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/item", s.handleItemReviews)
			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)
				r.Post("/", s.handleSaveReview)
				r.Get("/", s.handleListReviews)
				r.Delete("/", s.handleDeleteReview)
				r.Get("/single", s.handleGetReview)
			})
		})
	})
}

func (s *Server) browseRoutes(kind catalog.Kind) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/popular", s.handlePopular(kind))
		r.Get("/search", s.handleSearch(kind))
		r.Get("/genres", s.handleGenreNames(kind))
		r.Get("/discover", s.handleDiscover(kind))
		r.Get("/{id}", s.handleByID(kind))
	}
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
