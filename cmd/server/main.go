package main // Entry point package

import (
	"context"
	"errors"
	"log" // startup failures are fatal
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/pictures-london/internal/app"
	"github.com/iliyamo/pictures-london/internal/config"
	"github.com/iliyamo/pictures-london/internal/handler"
	"github.com/iliyamo/pictures-london/internal/logger"
	"github.com/iliyamo/pictures-london/internal/middleware"
	"github.com/iliyamo/pictures-london/internal/queue"
	"github.com/iliyamo/pictures-london/internal/router"
	"github.com/iliyamo/pictures-london/internal/scheduler"
)

func main() {
	cfg := config.Load() // Load environment config
	logger.Init(cfg.Env, cfg.LogDebug)
	lg := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if cfg.SchedulerEnabled {
		s, err := scheduler.New(a.Runner, cfg.FullCron, cfg.ChangesCron, lg)
		if err != nil {
			log.Fatal(err)
		}
		s.Start()
		defer s.Stop()
	}

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartImportConsumer(ctx, cfg.RabbitURL, queue.DefaultLogPath, lg); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("import consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	ready := &handler.ReadyHandler{Checks: map[string]handler.Pinger{"mysql": a.DB, "redis": nil}}
	if a.Redis != nil {
		ready.Checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() })
	}
	router.RegisterRoutes(e, ready)
	router.RegisterPublic(e,
		&handler.PublicHandler{Cinemas: a.Storage, Screenings: a.Storage},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.Redis),
		middleware.NewRedisCache(a.Cache, a.Redis),
	)
	titles := &handler.TitleHandler{}
	if a.Titles != nil {
		titles.AI = a.Titles
	}
	router.RegisterAdmin(e,
		&handler.AdminHandler{Runner: a.Runner, Runs: a.Storage.Runs, Monitor: a.Monitor},
		titles,
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	lg.Info("listening", "addr", addr, "env", cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", "error", err)
	}
}
