package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/totals-engine/internal/config"
	"github.com/yourusername/totals-engine/internal/database"
	"github.com/yourusername/totals-engine/internal/engine"
	"github.com/yourusername/totals-engine/internal/hydration"
	"github.com/yourusername/totals-engine/internal/identity"
	"github.com/yourusername/totals-engine/internal/logger"
	"github.com/yourusername/totals-engine/internal/metrics"
	"github.com/yourusername/totals-engine/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "totals",
	Short: "Historical totals percentile engine",
	Long: `Estimates the distribution of combined scores for a matchup from historical
games and attaches a confidence score to the estimate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		metrics.InitRegistry()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(computeCmd, breakdownCmd, batchCmd, rosterSnapshotCmd, importGamesCmd, initDBCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return config.ValidateEnvironment(cfg)
}

// deps holds everything a command needs to compute matchups.
type deps struct {
	db       *database.DB
	repos    *repository.Repositories
	engine   *engine.Engine
	resolver *identity.Resolver
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func setupDependencies(ctx context.Context) (*deps, error) {
	db, err := database.Initialize(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d := &deps{db: db, closers: []func(){db.Close}}

	d.repos, err = repository.NewRepositories(db)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	var hydrator engine.Hydrator
	if cfg.Hydration.Enabled {
		client, err := hydration.NewClient(hydration.Config{
			BaseURL:           cfg.Hydration.BaseURL,
			APIKey:            cfg.Hydration.APIKey,
			Timeout:           cfg.HydrationTimeout(),
			RetryMax:          cfg.Hydration.RetryMax,
			RequestsPerSecond: cfg.Hydration.RequestsPerSecond,
		}, log)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create hydration client: %w", err)
		}
		d.closers = append(d.closers, func() { _ = client.Close() })
		hydrator = client
	}

	d.engine = engine.New(d.repos.Games, d.repos.Games, d.repos.Rosters, hydrator, engineOptions(), log)
	d.resolver = identity.NewResolver(d.repos.Teams,
		identity.NewCache(cfg.IdentityCacheTTL(), cfg.IdentityCache.MaxSize))

	return d, nil
}

func engineOptions() engine.Options {
	return engine.Options{
		EnableRecencyWeighted: cfg.Engine.EnableRecencyWeighted,
		MinSample:             cfg.Engine.MinSample,
		WeightedMinGames:      cfg.Engine.WeightedMinGames,
		HybridGameLimit:       cfg.Engine.HybridGameLimit,
		HybridMinGames:        cfg.Engine.HybridMinGames,
		HydrationYearsBack:    cfg.Hydration.YearsBack,
		HydrationTimeout:      cfg.HydrationTimeout(),
	}
}

// parseAsOf accepts RFC 3339 or a plain date; empty means now.
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: use RFC 3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
