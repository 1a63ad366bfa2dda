// starfall is an asteroid shooter for the terminal.
//
// Usage:
//
//	starfall                 - Play in the current terminal
//	starfall scores          - Show the high score and the best runs
//	starfall reset-scores    - Clear the stored scores
//
// Global flags:
//
//	--config <path> - Tuning file (default: ~/.starfall/config.yaml, then configs/starfall.yaml)
//	--db <path>     - Score store, .db/.sqlite selects SQLite (default: $STARFALL_DB or ~/.starfall/highscore)
//	--seed <value>  - RNG seed for reproducible asteroid spawns (0 = time based)
//	--log <path>    - Write a debug log to this file (default: discarded)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomz197/starfall/internal/config"
)

const defaultDBPath = "~/.starfall/highscore"

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagSeed    int64
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starfall",
	Short: "Starfall - shoot falling rocks in your terminal",
	Long: `Starfall is a single-player asteroid shooter rendered in the terminal.
The ship follows the mouse pointer (or the arrow keys) and fires with a
click or SPACE. Large rocks split into smaller ones; three hits and the
run is over.

Examples:
  starfall
  starfall --db ~/.starfall/scores.db
  starfall scores`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML tuning file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", config.GetEnv("STARFALL_DB", defaultDBPath), "Path to the score store")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().StringVar(&flagLogPath, "log", "", "Write a debug log to this file")

	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(resetScoresCmd)
}
