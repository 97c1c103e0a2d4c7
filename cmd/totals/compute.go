package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/totals-engine/internal/confidence"
	"github.com/yourusername/totals-engine/internal/engine"
	"github.com/yourusername/totals-engine/internal/logger"
	"github.com/yourusername/totals-engine/internal/models"
)

type matchupFlags struct {
	sport string
	teamA int64
	teamB int64
	asOf  string
}

func (f *matchupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sport, "sport", "", "Sport id, e.g. nba")
	cmd.Flags().Int64Var(&f.teamA, "team-a", 0, "First team id")
	cmd.Flags().Int64Var(&f.teamB, "team-b", 0, "Second team id")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "Reference instant (RFC 3339 or YYYY-MM-DD), defaults to now")
	_ = cmd.MarkFlagRequired("sport")
	_ = cmd.MarkFlagRequired("team-a")
	_ = cmd.MarkFlagRequired("team-b")
}

// request resolves franchise ids and builds the engine request.
func (f *matchupFlags) request(cmd *cobra.Command, d *deps) (engine.Request, error) {
	asOf, err := parseAsOf(f.asOf)
	if err != nil {
		return engine.Request{}, err
	}
	a, b, err := d.resolver.ResolvePair(cmd.Context(), f.sport,
		models.TeamRef{TeamID: f.teamA}, models.TeamRef{TeamID: f.teamB})
	if err != nil {
		return engine.Request{}, err
	}
	return engine.Request{SportID: f.sport, TeamA: a, TeamB: b, AsOf: asOf}, nil
}

var (
	computeFlags matchupFlags
	computeSave  bool
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the totals estimate for one matchup",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setupDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		req, err := computeFlags.request(cmd, d)
		if err != nil {
			return err
		}

		result, computeErr := d.engine.Compute(cmd.Context(), req)
		if computeErr != nil {
			// the insufficient result is still printed for the caller
			log.WithError(computeErr).Warn("Computation failed")
		}

		if computeSave && computeErr == nil {
			key, err := models.NewMatchupKey(req.SportID, req.TeamA, req.TeamB)
			if err != nil {
				return err
			}
			id, err := d.repos.Results.Save(cmd.Context(), key, req.AsOf, result)
			if err != nil {
				return fmt.Errorf("failed to save result: %w", err)
			}
			logger.NewAuditLogger(log).LogResultStored(id.String(), key.String(), result.SegmentUsed,
				result.Confidence.Score, confidence.ScoringVersion)
			log.WithFields(logrus.Fields{"result_id": id.String()}).Info("Result saved")
		}

		if err := printJSON(result); err != nil {
			return err
		}
		return computeErr
	},
}

func init() {
	computeFlags.register(computeCmd)
	computeCmd.Flags().BoolVar(&computeSave, "save", false, "Persist the result")
}
