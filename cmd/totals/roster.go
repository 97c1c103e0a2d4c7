package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/totals-engine/internal/logger"
	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/roster"
)

var (
	rosterSport  string
	rosterTeam   int64
	rosterSeason int
	rosterFile   string
	rosterDryRun bool
)

var rosterSnapshotCmd = &cobra.Command{
	Use:   "roster-snapshot",
	Short: "Build and store a team's roster snapshot for a season",
	Long: `Reads a JSON array of players ({"player_id","name","position","experience_years"}),
picks the key players, scores continuity against the team's previous snapshot
and stores the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(rosterFile)
		if err != nil {
			return fmt.Errorf("failed to read roster file: %w", err)
		}
		var players []models.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return fmt.Errorf("failed to decode roster file: %w", err)
		}

		d, err := setupDependencies(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		history, err := d.repos.Rosters.FetchRosterSnapshots(ctx, rosterTeam, rosterSport)
		if err != nil {
			return err
		}

		snapshot, err := roster.BuildSnapshot(rosterSport, rosterTeam, rosterSeason, players, history)
		if err != nil {
			return err
		}

		if !rosterDryRun {
			if err := d.repos.Rosters.Save(ctx, &snapshot); err != nil {
				return err
			}
			logger.NewAuditLogger(log).LogRosterSnapshotStored(snapshot.TeamID, snapshot.SeasonYear,
				snapshot.ContinuityScore, snapshot.EraTag)
		}
		return printJSON(snapshot)
	},
}

func init() {
	rosterSnapshotCmd.Flags().StringVar(&rosterSport, "sport", "", "Sport id")
	rosterSnapshotCmd.Flags().Int64Var(&rosterTeam, "team", 0, "Team id")
	rosterSnapshotCmd.Flags().IntVar(&rosterSeason, "season", 0, "Season year")
	rosterSnapshotCmd.Flags().StringVar(&rosterFile, "roster", "", "JSON file of players")
	rosterSnapshotCmd.Flags().BoolVar(&rosterDryRun, "dry-run", false, "Print the snapshot without storing it")
	for _, name := range []string{"sport", "team", "season", "roster"} {
		_ = rosterSnapshotCmd.MarkFlagRequired(name)
	}
}
