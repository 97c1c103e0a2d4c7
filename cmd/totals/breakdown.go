package main

import (
	"github.com/spf13/cobra"
)

var breakdownFlags matchupFlags

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show stats for every historical segment with enough games",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setupDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		req, err := breakdownFlags.request(cmd, d)
		if err != nil {
			return err
		}

		stats, err := d.engine.Breakdown(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	breakdownFlags.register(breakdownCmd)
}
