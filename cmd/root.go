package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/tuplegen/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// Debug logger; a no-op unless --debug is set
	logger = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "tuplegen",
	Short: "tuplegen: synthetic tuple datasets for visualization demos",
	Long: `tuplegen generates small synthetic relational datasets of (x, y, z) tuples
for chart demos. Categorical datasets normalize z into dense category ids
and ship a (zid, z) lookup table alongside the tuples.

Output can go to stdout, CSV or JSON files, SQLite, Postgres or S3.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupLogger, loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tuplegen/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func setupLogger() {
	if !debug {
		logger = zap.NewNop().Sugar()
		return
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	l, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build debug logger: %v\n", err)
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debugw("config loaded", "seed", cfg.Seed, "count", cfg.Count, "sinks", cfg.Sinks, "runs_dir", cfg.RunsDir)
}

// effectiveConfig returns the loaded config or built-in defaults when loading failed.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	runs := filepath.Join(".tuplegen", "runs")
	if home, err := os.UserHomeDir(); err == nil {
		runs = filepath.Join(home, runs)
	}
	return &cfgpkg.Global{
		Seed:       42,
		Count:      50,
		Sinks:      []string{"stdout"},
		OutDir:     ".",
		RunsDir:    runs,
		SQLitePath: "tuplegen.db",
		S3Region:   "us-east-1",
		S3Prefix:   "tuplegen",
	}
}
