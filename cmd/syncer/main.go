package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/elenayuscula/aprendenotion/internal/cache"
	"github.com/elenayuscula/aprendenotion/internal/config"
	"github.com/elenayuscula/aprendenotion/internal/media"
	"github.com/elenayuscula/aprendenotion/internal/publisher"
	"github.com/elenayuscula/aprendenotion/internal/scheduler"
	"github.com/elenayuscula/aprendenotion/internal/service"
	"github.com/elenayuscula/aprendenotion/internal/source/notion"
	"github.com/elenayuscula/aprendenotion/internal/storage/memory"
	"github.com/elenayuscula/aprendenotion/internal/storage/sqlstore"
)

type itemStore interface {
	service.ItemStore
	service.ItemReader
}

// stores bundles the store implementations selected by store.driver.
type stores struct {
	items     itemStore
	syncState service.SyncStateStore
	txManager service.TransactionManager
	close     func() error
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "", "build or dev (overrides config)")
	blocksPage := flag.String("blocks", "", "print the block tree of a page as JSON and exit")
	listCollection := flag.String("list", "", "print the stored items of a collection as JSON and exit")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	switch *mode {
	case "":
	case config.ModeBuild, config.ModeDev:
		cfg.Mode = *mode
	default:
		logger.Error("invalid mode", "mode", *mode)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	st, err := openStores(cfg.Store)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.close()
	logger.Info("opened store", "driver", cfg.Store.Driver)

	diskCache := cache.New(cfg.Cache.Dir, cache.Options{
		Mode: cache.Mode(cfg.Mode),
		TTL:  cfg.Cache.TTL,
	})

	client := notion.NewClient(notion.Config{
		Token:          cfg.Notion.Token,
		BaseURL:        cfg.Notion.BaseURL,
		Version:        cfg.Notion.Version,
		Timeout:        cfg.Notion.Timeout,
		MaxAttempts:    cfg.Notion.Retry.MaxAttempts,
		InitialBackoff: cfg.Notion.Retry.InitialBackoff,
		MaxBackoff:     cfg.Notion.Retry.MaxBackoff,
	}, logger)

	source := notion.NewSource(client, logger,
		notion.WithCache(diskCache),
		notion.WithPageSize(cfg.Notion.PageSize),
		notion.WithMaxDepth(cfg.Sync.MaxBlockDepth),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	content := service.NewContentService(source, st.items, logger)

	switch {
	case *blocksPage != "":
		blocks, err := content.PageBlocks(ctx, *blocksPage)
		if err != nil {
			logger.Error("failed to resolve blocks", "page_id", *blocksPage, "error", err)
			os.Exit(1)
		}
		printJSON(blocks)
		return
	case *listCollection != "":
		items, err := content.Items(ctx, *listCollection)
		if err != nil {
			logger.Error("failed to list items", "collection", *listCollection, "error", err)
			os.Exit(1)
		}
		printJSON(items)
		return
	}

	var opts []service.Option

	// Initialize RabbitMQ publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		opts = append(opts, service.WithPublisher(rabbitMQ))
	}

	if cfg.Media.Enabled {
		opts = append(opts, service.WithMediaMirror(media.New(media.Config{
			Dir:        cfg.Media.Dir,
			PublicPath: cfg.Media.PublicPath,
			Timeout:    cfg.Media.Timeout,
		}, logger)))
	}

	blog := service.NewCollectionSync(service.BlogCollection(cfg.Collections.Blog),
		source, st.items, st.syncState, st.txManager, logger, opts...)
	lessons := service.NewCollectionSync(service.LessonsCollection(cfg.Collections.Lessons),
		source, st.items, st.syncState, st.txManager, logger, opts...)

	sched := scheduler.NewScheduler(cfg.Sync.Interval, logger, blog, lessons)

	logger.Info("starting content syncer",
		"mode", cfg.Mode,
		"interval", cfg.Sync.Interval,
		"cache_dir", cfg.Cache.Dir,
	)

	if !cfg.Dev() {
		if err := sched.RunOnce(ctx); err != nil {
			logger.Error("sync failed", "error", err)
			st.close()
			os.Exit(1)
		}
		return
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func openStores(cfg config.StoreConfig) (*stores, error) {
	switch cfg.Driver {
	case "memory":
		s := memory.New()
		return &stores{
			items:     s,
			syncState: s.SyncStates(),
			txManager: s,
			close:     func() error { return nil },
		}, nil
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		dsn := cfg.Path
		if cfg.Driver == sqlstore.DriverPostgres {
			dsn = cfg.Database.DSN()
		}
		db, err := sqlstore.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, err
		}
		return &stores{
			items:     sqlstore.NewItemStore(db),
			syncState: sqlstore.NewSyncStateStore(db),
			txManager: sqlstore.NewTransactionManager(db),
			close:     db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
