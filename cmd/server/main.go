package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clemente-pps/flixfinder/internal/auth"
	"github.com/clemente-pps/flixfinder/internal/catalog"
	"github.com/clemente-pps/flixfinder/internal/config"
	httpserver "github.com/clemente-pps/flixfinder/internal/http"
	"github.com/clemente-pps/flixfinder/internal/preference"
	"github.com/clemente-pps/flixfinder/internal/repository"
	"github.com/clemente-pps/flixfinder/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[flixfinder] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAccessToken, catalog.Options{
		Language:  cfg.CatalogLanguage,
		ImageBase: cfg.CatalogImageBase,
		Timeout:   time.Duration(cfg.CatalogTimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("init catalog client: %v", err)
	}
	browse := catalog.NewAggregator(catalogClient, cfg.CatalogResultLimit)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("init token manager: %v", err)
	}

	repo := repository.New(st)
	authSvc := auth.NewService(repo.Users, tokens)
	enricher := preference.NewEnricher(repo.Catalog, cfg.EnrichConcurrency, logger)
	prefs := preference.NewService(repo.Preferences, enricher)

	server := httpserver.New(cfg, st, repo, authSvc, prefs, browse, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}

	if stats := st.Stats(); stats != nil {
		logger.Printf("pool at shutdown: total=%d idle=%d acquired=%d",
			stats.TotalConns(), stats.IdleConns(), stats.AcquiredConns())
	}
}
