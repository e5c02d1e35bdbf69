package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathsnap/internal/capture"
	"github.com/abhisek/mathsnap/internal/config"
	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/llm"
	"github.com/abhisek/mathsnap/internal/logging"
	"github.com/abhisek/mathsnap/internal/solver"
	"github.com/abhisek/mathsnap/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathsnap",
	Short: "AI math solver for the terminal",
	Long: "MathSnap solves math problems typed in or captured from an image and " +
		"explains them step by step in English or Hindi.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mathsnap/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHSNAP_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(snapCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// env holds the opened stores and settings shared by the commands.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *store.Store
	kv      kv.Store
	history *history.Store

	closers []func() error
}

// openEnv loads configuration, opens the database and the kv backend and
// loads the history. Callers must Close the env.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(logging.Config{Path: cfg.Log.Path, Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	e := &env{cfg: cfg, logger: logger}
	e.closers = append(e.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)

	switch cfg.KV.Backend {
	case "badger":
		dir := cfg.KV.Path
		if dir == "" {
			dir = filepath.Join(filepath.Dir(dbPath), "kv")
		}
		b, err := kv.OpenBadger(kv.BadgerConfig{Path: dir, Logger: logger})
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open kv store: %w", err)
		}
		e.kv = b
		e.closers = append(e.closers, b.Close)
	default:
		e.kv = st.KV()
	}

	e.history = history.NewStore(e.kv, history.WithLogger(logger))
	e.history.Load(ctx)

	logger.Debug("environment ready",
		zap.String("db", dbPath),
		zap.String("kv", cfg.KV.Backend))
	return e, nil
}

// Close releases everything openEnv acquired, newest first.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close", zap.Error(err))
		}
	}
}

// solver builds the solve service on the configured providers.
func (e *env) solver(ctx context.Context) (*solver.Service, error) {
	pcfg := e.cfg.Provider()
	if err := pcfg.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	events := e.store.EventRepo()
	text, err := llm.NewProvider(ctx, pcfg, events, e.logger)
	if err != nil {
		return nil, err
	}
	vision, err := llm.NewVisionProvider(ctx, pcfg, events, e.logger)
	if err != nil {
		return nil, err
	}

	collab := solver.NewLLMCollaborator(text, vision, e.cfg.LLM.ThinkingBudget)
	return solver.NewService(collab, e.history,
		solver.WithTimeout(e.cfg.LLM.Timeout),
		solver.WithLogger(e.logger),
	), nil
}

// captureSource returns the frame source for the camera, or nil when none
// is configured.
func (e *env) captureSource(image, watch string) (capture.VideoSource, string) {
	switch {
	case image != "":
		return capture.FileSource{Path: image}, image
	case watch != "":
		return capture.DirSource{Dir: watch, Logger: e.logger}, watch
	case e.cfg.Capture.WatchDir != "":
		return capture.DirSource{Dir: e.cfg.Capture.WatchDir, Logger: e.logger}, e.cfg.Capture.WatchDir
	}
	return nil, ""
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file, then MATHSNAP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
