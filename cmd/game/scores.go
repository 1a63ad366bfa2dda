package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomz197/starfall/internal/storage"
)

const topRunsLimit = 10

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high score and the best runs",
	Long: `Display the persisted high score. When the store is a SQLite
database the ten best finished runs are listed as well.

Examples:
  starfall scores
  starfall scores --db ~/.starfall/scores.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

var resetScoresCmd = &cobra.Command{
	Use:   "reset-scores",
	Short: "Clear the stored high score and run history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("open score store: %w", err)
		}
		defer store.Close()

		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Scores cleared.")
		return nil
	},
}

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	defer store.Close()

	high, err := store.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "High score: %d\n", high)

	rec, ok := store.(storage.RunRecorder)
	if !ok {
		return nil
	}
	runs, err := rec.TopRuns(topRunsLimit)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, r := range runs {
		fmt.Fprintf(out, "  %-4d  %-10d  %s\n", i+1, r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
