package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/at-ishikawa/wordlog/internal/categorize"
	"github.com/at-ishikawa/wordlog/internal/config"
	"github.com/at-ishikawa/wordlog/internal/connectivity"
	"github.com/at-ishikawa/wordlog/internal/database"
	"github.com/at-ishikawa/wordlog/internal/datasync"
	"github.com/at-ishikawa/wordlog/internal/inference"
	"github.com/at-ishikawa/wordlog/internal/inference/gemini"
	"github.com/at-ishikawa/wordlog/internal/learning"
	"github.com/at-ishikawa/wordlog/internal/offline"
	"github.com/at-ishikawa/wordlog/internal/supabase"
	"github.com/at-ishikawa/wordlog/internal/word"
)

// ErrSupabaseNotConfigured is returned when the supabase driver is selected without a project URL or key.
var ErrSupabaseNotConfigured = errors.New("supabase url and api key are required")

// Options adjust how the services are built for a single invocation.
type Options struct {
	// ForceOffline treats the network as unavailable regardless of the probe.
	ForceOffline bool
	// OfflineDriver overrides cfg.Offline.Driver when set.
	OfflineDriver string
}

// Services are the application flows wired to their stores and gateways.
type Services struct {
	WordRepository     word.WordRepository
	CategoryRepository word.CategoryRepository
	Queue              *offline.Queue
	Checker            connectivity.Checker

	Syncer      *datasync.Syncer
	Exporter    *datasync.Exporter
	Categorizer *categorize.Categorizer
	Viewer      *learning.Viewer
}

// Build opens every store and client named by cfg and registers their Close with app.
func Build(ctx context.Context, app *App, cfg *config.Config, opts Options) (*Services, error) {
	wordRepo, categoryRepo, err := buildRemote(app, cfg)
	if err != nil {
		return nil, err
	}

	offlineDriver := cfg.Offline.Driver
	if opts.OfflineDriver != "" {
		offlineDriver = opts.OfflineDriver
	}
	store, err := buildOfflineStore(ctx, app, offlineDriver, cfg.Offline.Path)
	if err != nil {
		return nil, err
	}
	queue := offline.NewQueue(store)

	var checker connectivity.Checker
	if opts.ForceOffline {
		checker = connectivity.Fixed(false)
	} else {
		checker = connectivity.NewDialChecker(cfg.Connectivity.ProbeAddress, cfg.Connectivity.Timeout)
	}

	geminiClient := gemini.NewClient(cfg.Gemini)
	app.AddShutdownHook(func(context.Context) error {
		return geminiClient.Close()
	})
	gateway := inference.NewGateway(geminiClient, cfg.Gemini.ResponseLanguage)

	return &Services{
		WordRepository:     wordRepo,
		CategoryRepository: categoryRepo,
		Queue:              queue,
		Checker:            checker,

		Syncer:      datasync.NewSyncer(wordRepo, categoryRepo, queue, checker),
		Exporter:    datasync.NewExporter(wordRepo, categoryRepo),
		Categorizer: categorize.NewCategorizer(wordRepo, categoryRepo, gateway),
		Viewer:      learning.NewViewer(wordRepo, gateway, checker),
	}, nil
}

func buildRemote(app *App, cfg *config.Config) (word.WordRepository, word.CategoryRepository, error) {
	switch cfg.Remote.Driver {
	case config.RemoteDriverMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook(func(context.Context) error {
			return db.Close()
		})
		return word.NewDBWordRepository(db), word.NewDBCategoryRepository(db), nil
	case config.RemoteDriverSupabase:
		if cfg.Supabase.URL == "" || cfg.Supabase.APIKey == "" {
			return nil, nil, ErrSupabaseNotConfigured
		}
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.APIKey)
		app.AddShutdownHook(func(context.Context) error {
			return client.Close()
		})
		return supabase.NewWordRepository(client), supabase.NewCategoryRepository(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown remote driver %q", cfg.Remote.Driver)
	}
}

func buildOfflineStore(ctx context.Context, app *App, driver, path string) (offline.KeyValueStore, error) {
	switch driver {
	case config.OfflineDriverSQLite:
		db, err := database.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("database.OpenSQLite() > %w", err)
		}
		app.AddShutdownHook(func(context.Context) error {
			return db.Close()
		})
		if err := database.Migrate(ctx, db.DB, goose.DialectSQLite3); err != nil {
			return nil, fmt.Errorf("database.Migrate(sqlite) > %w", err)
		}
		return offline.NewSQLiteStore(db), nil
	case config.OfflineDriverFile:
		return offline.NewFileStore(path), nil
	case config.OfflineDriverMemory:
		return offline.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown offline driver %q", driver)
	}
}
