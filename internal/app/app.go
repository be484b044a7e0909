// Package app wires configuration into the importer and its collaborators.
// Both the server and the one-shot CLI build their object graph here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/pictures-london/internal/alert"
	"github.com/iliyamo/pictures-london/internal/bfi"
	"github.com/iliyamo/pictures-london/internal/config"
	"github.com/iliyamo/pictures-london/internal/database"
	"github.com/iliyamo/pictures-london/internal/enrich"
	"github.com/iliyamo/pictures-london/internal/health"
	"github.com/iliyamo/pictures-london/internal/importer"
	"github.com/iliyamo/pictures-london/internal/llm"
	"github.com/iliyamo/pictures-london/internal/middleware"
	"github.com/iliyamo/pictures-london/internal/model"
	"github.com/iliyamo/pictures-london/internal/repository"
	"github.com/iliyamo/pictures-london/internal/service"
	"github.com/iliyamo/pictures-london/internal/title"
)

// App holds the long-lived objects shared by the entry points.
type App struct {
	Config  config.Config
	DB      *sql.DB
	Redis   *redis.Client // nil when Redis is unreachable
	Storage *repository.Storage
	Titles  *title.AIExtractor // nil when no model is configured
	Runner  *service.ImportRunner
	Monitor *health.Monitor
	Cache   config.CacheConfig
	Logger  *slog.Logger
}

// New opens the database, migrates it, connects to Redis if possible and
// assembles the import pipeline.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := database.Open(cfg.DSNParts())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Warn("redis unavailable; caching, rate limiting and guide hashing disabled", "error", err)
	}

	a := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Storage: repository.NewStorage(db, log),
		Cache:   config.LoadCacheConfig(),
		Logger:  log,
	}
	a.Monitor = health.NewMonitor(a.Storage)
	a.Titles = newTitleAI(cfg, rdb, log)

	var ai enrich.TitleAI
	if a.Titles != nil {
		ai = a.Titles
	}
	parser := bfi.NewParser(log)
	im := importer.New(model.BFIVenues, enrich.NewStore(a.Storage, ai, log), importer.Sources{
		Documents: bfi.NewGuideFetcher(cfg.GuideURL, bfi.NewRedisHashStore(rdb, cfg.GuideHashKey), log),
		Text:      bfi.PDFTextExtractor{},
		Guide:     parser,
		Changes:   bfi.NewChangesFetcher(cfg.ChangesURL, parser),
	}, log)
	im.Runs = a.Storage.Runs
	if wh := alert.NewWebhook(cfg.AlertWebhookURL); wh != nil {
		im.Alerts = wh
	}
	if pub := service.NewPublisher(cfg.RabbitURL, log); pub != nil {
		im.Events = pub
	}

	a.Runner = service.NewImportRunner(im, log, a.purgeListings)
	return a, nil
}

func newTitleAI(cfg config.Config, rdb *redis.Client, log *slog.Logger) *title.AIExtractor {
	client := llm.NewClient(cfg.LLMAPIKey,
		llm.WithBaseURL(cfg.LLMBaseURL),
		llm.WithModel(cfg.LLMModel),
		llm.WithHTTPTimeout(cfg.LLMTimeout),
	)
	if client == nil {
		log.Info("LLM_API_KEY not set; titles use pattern extraction only")
		return nil
	}
	x := title.NewAIExtractor(client, title.NewRedisCache(rdb, "pl:title", cfg.AICacheTTL), log)
	x.Timeout = cfg.LLMTimeout
	return x
}

// purgeListings drops cached public responses once a run has written
// anything, so listings reflect the import immediately.
func (a *App) purgeListings(ctx context.Context, run model.ImportRun) {
	if a.Redis == nil || run.Counts.Added+run.Counts.Updated == 0 {
		return
	}
	n, err := middleware.PurgeCache(ctx, a.Redis, a.Cache.Prefix)
	if err != nil {
		a.Logger.Warn("purge response cache", "run_id", run.ID, "error", err)
		return
	}
	a.Logger.Debug("response cache purged", "run_id", run.ID, "keys", n)
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
