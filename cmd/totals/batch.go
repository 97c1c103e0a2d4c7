package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/totals-engine/internal/batch"
	"github.com/yourusername/totals-engine/internal/health"
	"github.com/yourusername/totals-engine/internal/metrics"
)

var (
	batchInput  string
	batchAsOf   string
	batchListen string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute many matchups from a JSON file",
	Long: `Reads a JSON array of {"sport_id","team_a","team_b","as_of"} entries and
computes them concurrently. Health and metrics endpoints are served while the
batch runs when metrics are enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		asOf, err := parseAsOf(batchAsOf)
		if err != nil {
			return err
		}

		d, err := setupDependencies(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		srv, err := startHealthServer(ctx, d, batchListen)
		if err != nil {
			return err
		}
		if srv != nil {
			defer srv.Shutdown()
			srv.SetReady(true)
		}

		outcomes, runErr := runBatchFile(ctx, d, srv, batchInput, asOf)
		if outcomes != nil {
			if err := printJSON(outcomes); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "JSON file of matchups")
	batchCmd.Flags().StringVar(&batchAsOf, "as-of", "", "Default reference instant for entries without one")
	batchCmd.Flags().StringVar(&batchListen, "listen", "", "Address for health and metrics endpoints, defaults to the metrics port")
	_ = batchCmd.MarkFlagRequired("input")
}

// startHealthServer returns nil when metrics are disabled.
func startHealthServer(ctx context.Context, d *deps, listen string) (*health.Server, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	addr := listen
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}
	srv := health.NewServer(health.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version + "+" + GitCommit,
		Addr:           addr,
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metrics.Handler(),
		Logger:         log,
		DB:             d.db,
	})
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	return srv, nil
}

// runBatchFile reads matchups from path and computes them. srv may be nil.
func runBatchFile(ctx context.Context, d *deps, srv *health.Server, path string, asOf time.Time) ([]batch.Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	matchups, err := batch.ReadMatchups(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	var store batch.ResultStore
	if cfg.Batch.PersistResults {
		store = d.repos.Results
	}

	runner := batch.NewRunner(d.engine, d.resolver, store, batch.Options{
		Concurrency:     cfg.Batch.Concurrency,
		ComputeTimeout:  cfg.ComputeTimeout(),
		ContinueOnError: cfg.Batch.ContinueOnError,
		Progress: func(completed, failed, total int64) {
			if srv != nil {
				srv.SetProgress(completed, failed, total)
			}
		},
	}, log)

	log.WithFields(logrus.Fields{
		"input":       path,
		"matchups":    len(matchups),
		"concurrency": cfg.Batch.Concurrency,
		"strategies":  d.engine.Strategies(),
	}).Info("Starting batch")

	return runner.Run(ctx, matchups, asOf)
}
