// Package commands implements the partfit CLI subcommands.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/partfit/compat-engine/cmd/partfit/ui"
	"github.com/partfit/compat-engine/internal/cache"
	"github.com/partfit/compat-engine/internal/catalog"
	"github.com/partfit/compat-engine/internal/config"
	"github.com/partfit/compat-engine/internal/engine"
	"github.com/partfit/compat-engine/internal/observability"
)

var (
	cfgFile string
	noColor bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "partfit",
	Short: "Parts compatibility resolution engine",
	Long: `partfit resolves, for a given vehicle, the set of replacement parts that
fit it, each with a confidence score and supporting evidence, plus economical
substitutes shared with vehicles of other brands.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		ui.InitUI(noColor)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEnvironment builds the shared pieces every subcommand needs: config,
// logger, catalog, and a resolver with the configured cache backend.
func loadEnvironment() (*config.Config, *observability.Logger, *engine.Resolver, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "partfit",
	})

	provider, err := catalog.LoadDir(cfg.Catalog.ShardDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	var reportCache cache.Client
	switch cfg.Cache.Backend {
	case "redis":
		reportCache, err = cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis cache: %w", err)
		}
	default:
		mem := cache.NewMemoryClient(cfg.Cache.MaxEntries)
		mem.StartSweeper(cfg.Cache.TTL)
		reportCache = mem
	}

	resolver := engine.NewResolver(provider, logger, engine.Config{
		CacheTTL:              cfg.Cache.TTL,
		HeuristicThreshold:    cfg.Matching.HeuristicThreshold,
		MaxAlternatives:       cfg.Matching.MaxAlternatives,
		SharedPartsDisplayCap: cfg.Matching.SharedPartsDisplayCap,
	}, engine.WithCache(reportCache))

	return cfg, logger, resolver, nil
}
