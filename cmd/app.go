package cmd

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/search-calculator/internal/advisory"
	"github.com/spigell/search-calculator/internal/ai"
	"github.com/spigell/search-calculator/internal/ai/anthropic"
	"github.com/spigell/search-calculator/internal/ai/gemini"
	"github.com/spigell/search-calculator/internal/benchmark"
	"github.com/spigell/search-calculator/internal/engine"
	"github.com/spigell/search-calculator/internal/enrichment"
	"github.com/spigell/search-calculator/internal/logger"
	"github.com/spigell/search-calculator/internal/regional"
	"github.com/spigell/search-calculator/internal/report"
	"github.com/spigell/search-calculator/internal/secrets"
)

// services is everything a command needs, built once from the config.
type services struct {
	config     *Config
	logger     *zap.Logger
	benchmarks *benchmark.Table
	regions    *regional.Table
	engine     *engine.Engine
	reports    *report.Builder
}

func newServices(ctx context.Context) (*services, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, err
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	weights, err := scoringWeights(viper.GetViper())
	if err != nil {
		return nil, err
	}

	return buildServices(ctx, config, weights, log)
}

func buildServices(ctx context.Context, config *Config, weights engine.Weights, log *zap.Logger) (*services, error) {
	benchmarks, err := loadBenchmarks(config.Data.Benchmarks)
	if err != nil {
		return nil, err
	}

	regions, err := loadRegions(config.Data.Regions)
	if err != nil {
		return nil, err
	}

	log.Debug("market data loaded",
		zap.Int("roles", benchmarks.Len()),
		zap.Int("regions", len(regions.Regions())),
	)

	eng := engine.New(benchmarks, regions, engine.WithWeights(weights))

	opts := []report.Option{report.WithChecks(config.Advisory, advisory.Defaults(config.Advisory))}

	enricher, err := newEnricher(ctx, config.Enrichment, log)
	if err != nil {
		// Reports still work with the preliminary narrative.
		log.Warn("enrichment disabled", zap.Error(err))
	}
	if enricher != nil {
		opts = append(opts, report.WithEnricher(enricher))
	}

	return &services{
		config:     config,
		logger:     log,
		benchmarks: benchmarks,
		regions:    regions,
		engine:     eng,
		reports:    report.NewBuilder(eng, log, opts...),
	}, nil
}

func loadBenchmarks(path string) (*benchmark.Table, error) {
	if strings.TrimSpace(path) == "" {
		return benchmark.Default()
	}
	return benchmark.Load(path)
}

func loadRegions(path string) (*regional.Table, error) {
	if strings.TrimSpace(path) == "" {
		return regional.Default()
	}
	return regional.Load(path)
}

// newEnricher returns nil without an error when enrichment is switched off.
func newEnricher(ctx context.Context, cfg *EnrichmentConfig, log *zap.Logger) (*enrichment.Client, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "building ai generator")
	}

	client, err := enrichment.New(generator, cfg.Config, log)
	if err != nil {
		return nil, err
	}

	log.Info("enrichment enabled", logger.AIFields(client.Provider(), client.Model())...)
	return client, nil
}

func newGenerator(ctx context.Context, cfg *EnrichmentConfig) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = ai.ProviderGemini
	}
	cfg.Provider = provider

	switch provider {
	case ai.ProviderGemini:
		pc := providerConfig(cfg.Gemini)
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: pc.APIKey,
			File:  pc.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, eris.Wrap(err, "set enrichment.gemini.api-key-file or GEMINI_API_KEY")
		}
		return gemini.NewGenerator(ctx, apiKey, pc.Model)
	case ai.ProviderAnthropic:
		pc := providerConfig(cfg.Anthropic)
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "anthropic api key",
			Value: pc.APIKey,
			File:  pc.APIKeyFile,
			Env:   "ANTHROPIC_API_KEY",
		})
		if err != nil {
			return nil, eris.Wrap(err, "set enrichment.anthropic.api-key-file or ANTHROPIC_API_KEY")
		}
		return anthropic.NewGenerator(apiKey, pc.Model)
	default:
		return nil, eris.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func providerConfig(pc *ProviderConfig) ProviderConfig {
	if pc == nil {
		return ProviderConfig{}
	}
	return *pc
}
