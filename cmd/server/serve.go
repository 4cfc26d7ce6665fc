package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/httpserver"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/db"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/metrics"
	authmw "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
	"github.com/Skotchmaster/restaurant/pkg/mykafka"
)

func openDB(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func runMigrate(ctx context.Context, cfg config.Config) error {
	l := logging.FromContext(ctx)

	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	if err := repo.Migrate(ctx, gdb); err != nil {
		return err
	}
	l.Info("migrations_applied")
	return nil
}

func runServe(ctx context.Context, cfg config.Config) error {
	l := logging.FromContext(ctx)

	if err := cfg.RequireServe(); err != nil {
		return err
	}

	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(gdb)
	if cfg.DBDriver == db.DriverSQLite {
		// in-memory and dev databases start empty
		if err := repo.Migrate(ctx, gdb); err != nil {
			return err
		}
	}

	producer, err := mykafka.NewProducer(cfg.KafkaBrokers, []string{mykafka.TopicCartEvents, mykafka.TopicUserEvents})
	if err != nil {
		return err
	}
	defer producer.Close()
	if !producer.Enabled() {
		l.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	index, err := search.New(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return err
	}
	if !index.Enabled() {
		l.Warn("search_disabled", "reason", "ES_URL is empty")
	} else if err := index.Ping(ctx); err != nil {
		l.Warn("search_unreachable", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("restaurant", reg)

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}

	e, err := httpserver.NewEcho(l, m)
	if err != nil {
		return err
	}
	httpserver.Register(e, &httpserver.Deps{
		DB:             gdb,
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: producer}},
		ProfileHandler: &httpserver.ProfileHTTP{Svc: &service.ProfileService{Repo: r, Events: producer}, SecureCookie: cfg.CookieSecure},
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.CookieSecure},
		MenuHandler:    &httpserver.MenuHTTP{Svc: &service.MenuService{Repo: r, Index: index}, SecureCookie: cfg.CookieSecure},
		Auth:           authmw.NewAutoRefreshMiddleware(cfg.JWTAccessSecret, authSvc, cfg.CookieSecure),
		Metrics:        m,
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	errCh := make(chan error, 1)
	go func() {
		l.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error("echo_shutdown_error", "error", err)
	}
	l.Info("server_stopped")
	return nil
}
