// Command unrest runs the civil-violence simulation: construct a model
// from parameters, step it to the iteration ceiling, and optionally
// record per-tick snapshots to SQLite.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/talgya/unrest/internal/config"
	"github.com/talgya/unrest/internal/engine"
	"github.com/talgya/unrest/internal/persistence"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "unrest",
		Short: "Civil-violence dynamics on a grid with a small-world influence network",
		Long: `unrest simulates rebellion and repression among citizens and cops on a
toroidal grid. Citizens weigh grievance against arrest risk estimated
from what they see and from their social ties; active citizens expose
those ties to censorship. Runs are deterministic per seed.`,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("unrest version %s\n", version)
		},
	}
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation to the iteration ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(verbose)

			cfgPath, _ := cmd.Flags().GetString("config")
			dbPath, _ := cmd.Flags().GetString("db")
			seed, _ := cmd.Flags().GetInt64("seed")
			ticks, _ := cmd.Flags().GetInt("ticks")
			agentRows, _ := cmd.Flags().GetBool("agent-rows")

			params := config.Default()
			if cfgPath != "" {
				var err error
				params, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				params.Seed = seed
			}
			if cmd.Flags().Changed("ticks") {
				params.MaxIters = ticks
			}

			return run(params, dbPath, agentRows)
		},
	}

	cmd.Flags().String("config", "", "YAML parameter file (defaults used when omitted)")
	cmd.Flags().String("db", "", "SQLite path for snapshot recording (recording off when omitted)")
	cmd.Flags().Int64("seed", 0, "Override the random seed")
	cmd.Flags().Int("ticks", 0, "Override the iteration ceiling")
	cmd.Flags().Bool("agent-rows", false, "Record per-agent rows, not just aggregates")
	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}

func run(params config.Params, dbPath string, agentRows bool) error {
	m, err := engine.New(params)
	if err != nil {
		return err
	}

	slog.Info("model constructed",
		"grid", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"citizens", m.Stats.Citizens,
		"cops", m.Stats.Cops,
		"network", params.NetworkMode,
		"seed", params.Seed,
	)

	var db *persistence.DB
	var runID string
	if dbPath != "" {
		db, err = persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runID, err = db.BeginRun(params)
		if err != nil {
			return err
		}
		slog.Info("recording run", "path", dbPath, "run_id", runID)

		// The model collects once at construction; record that too.
		if err := save(db, runID, m, agentRows); err != nil {
			return err
		}
	}

	start := time.Now()
	for m.Running {
		if err := m.Step(); err != nil {
			return err
		}
		if db != nil {
			if err := save(db, runID, m, agentRows); err != nil {
				return err
			}
		}
		if m.Iteration%100 == 0 {
			slog.Debug("progress",
				"tick", m.Iteration,
				"active", m.Stats.Active,
				"jailed", m.Stats.Jailed,
				"quiescent", m.Stats.Quiescent,
			)
		}
	}

	slog.Info("run complete",
		"ticks", humanize.Comma(int64(m.Iteration)),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"active", m.Stats.Active,
		"quiescent", m.Stats.Quiescent,
		"jailed", m.Stats.Jailed,
		"agents", humanize.Comma(int64(len(m.Agents))),
	)
	return nil
}

func save(db *persistence.DB, runID string, m *engine.Model, agentRows bool) error {
	var rows []engine.AgentRow
	if agentRows {
		rows = m.AgentRows()
	}
	return db.SaveTick(runID, m.Aggregate(), rows)
}
