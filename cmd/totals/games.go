package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/totals-engine/internal/models"
)

var importGamesFile string

var importGamesCmd = &cobra.Command{
	Use:   "import-games",
	Short: "Load completed games from a JSON file into the historical store",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(importGamesFile)
		if err != nil {
			return fmt.Errorf("failed to read games file: %w", err)
		}
		var games []models.Game
		if err := json.Unmarshal(data, &games); err != nil {
			return fmt.Errorf("failed to decode games file: %w", err)
		}

		d, err := setupDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		inserted, err := d.repos.Games.InsertBatch(cmd.Context(), games)
		if err != nil {
			return err
		}
		log.WithField("inserted", inserted).Info("Games imported")
		return nil
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the tables the engine reads and writes",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setupDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.db.ApplySchema(cmd.Context()); err != nil {
			return err
		}
		log.Info("Schema applied")
		return nil
	},
}

func init() {
	importGamesCmd.Flags().StringVarP(&importGamesFile, "input", "i", "", "JSON file of games")
	_ = importGamesCmd.MarkFlagRequired("input")
}

