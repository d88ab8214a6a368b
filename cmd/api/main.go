package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/adapter/repo"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/db"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/http/handlers"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/http/httpapi"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra/credentials"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/infra/geoip"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/middleware"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/orchestrator"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/plan"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/providers/llm"
	"github.com/ovchinnikovsergey89-cmd/TrAIner-bot/internal/quota"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := db.ApplySchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(runner, cfg.DefaultPlanQuota, cfg.DefaultChatQuota)
	plans := repo.NewPlanRepository(runner)
	completions := repo.NewCompletionRepository(runner)

	// Keys rotated via cmd/llmkey live in the database; the environment wins
	// when both are set.
	creds := credentials.NewStore(runner)
	if cfg.DeepSeekAPIKey == "" {
		if key, err := creds.Token(ctx, credentials.ProviderDeepSeek); err == nil && key != "" {
			cfg.DeepSeekAPIKey = key
		}
	}
	if cfg.GeminiAPIKey == "" {
		if key, err := creds.Token(ctx, credentials.ProviderGemini); err == nil && key != "" {
			cfg.GeminiAPIKey = key
		}
	}

	generator := llm.NewFromConfig(cfg, logger)
	logger.Info().Str("provider", generator.Name()).Msg("generation backend selected")

	guard := quota.New(quota.Options{
		Users:        users,
		PlanCooldown: cfg.PlanCooldown,
		ChatCooldown: cfg.ChatCooldown,
	})

	orch := orchestrator.New(orchestrator.Options{
		Users:       users,
		Plans:       plans,
		Completions: completions,
		Guard:       guard,
		Generator:   generator,
		Prompts:     llm.NewPromptBuilder(llm.DefaultPromptConfig()),
		Segmenter:   plan.NewSegmenter(cfg.PageMaxBytes, cfg.PageMinRunes),
		Paginator:   plan.NewPaginator(cfg.RestDayWords),
		Sessions:    plan.NewSessionStore(),
		GenTimeout:  cfg.GenerateTimeout,
		Logger:      logger,
	})

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(orch, users, logger)
	router := httpapi.NewRouter(httpapi.Options{
		App:            app,
		Logger:         logger,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
		RateLimitPerIP: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
