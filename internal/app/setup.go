package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koopa0/canvas/db"
	"github.com/koopa0/canvas/internal/config"
	"github.com/koopa0/canvas/internal/graph"
	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/memory"
	"github.com/koopa0/canvas/internal/model"
	"github.com/koopa0/canvas/internal/observability"
	"github.com/koopa0/canvas/internal/queue"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/thread"
	"github.com/koopa0/canvas/internal/web"
)

// titleDelay defers title generation until the turn's thread save has
// landed.
const titleDelay = time.Second

// Setup creates and initializes the application. Call Close on the
// returned App to release resources.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, release everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	tracer, otelShutdown, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Environment: cfg.Tracing.Environment,
		ServiceName: cfg.Tracing.ServiceName,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}
	a.otelShutdown = func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	st, err := store.NewPostgres(pool, logger)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	a.Store = st

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	a.Client = model.NewClient(g, logger)
	a.Memory = memory.NewService(st, logger)
	a.Threads = thread.NewService(st, logger)
	a.Queue = queue.NewInProcess(logger)

	fetcher := web.NewFetcher(web.FetchConfig{
		Timeout:     time.Duration(cfg.Fetch.TimeoutMS) * time.Millisecond,
		MaxBodySize: cfg.Fetch.MaxBodyBytes,
		PerSecond:   cfg.Fetch.PerSecond,
	}, logger)

	var search web.SearchClient
	if cfg.Search.APIKey != "" {
		search = web.NewExaClient(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.NumResults, logger)
	}

	mainModel := cfg.FullModelName()
	a.Graph = graph.New(graph.Deps{
		Client: a.Client,
		Config: graph.Config{
			Model:             mainModel,
			RouterModel:       cfg.FullRouterModelName(),
			Provider:          model.ProviderOf(mainModel),
			Temperature:       model.Temp(cfg.Temperature),
			MaxTokens:         cfg.MaxTokens,
			SummarizerCharMax: cfg.SummarizerCharMax,
			ReflectionDelay:   cfg.ReflectionDelay,
			TitleDelay:        titleDelay,
		},
		Memory:  a.Memory,
		Threads: a.Threads,
		Store:   st,
		Fetcher: fetcher,
		Search:  search,
		Queue:   a.Queue,
		Tracer:  tracer,
		PDF:     model.ExtractPDFText,
		Logger:  logger,
	})

	return a, nil
}

// provideGenkit initializes genkit with the configured provider plugin.
// Supports gemini (default), ollama, and openai providers.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g := genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery).
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		if cfg.RouterModelName != "" && cfg.RouterModelName != cfg.ModelName {
			ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
				Name: cfg.RouterModelName,
				Type: "chat",
			}, nil)
		}
		logger.Info("initialized genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)
		return g, nil

	case config.ProviderOpenAI:
		g := genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized genkit with openai provider", "model", cfg.ModelName)
		return g, nil

	default: // gemini
		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized genkit with gemini provider", "model", cfg.ModelName)
		return g, nil
	}
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
