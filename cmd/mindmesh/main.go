package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mindmesh/internal/config"
	"mindmesh/internal/embedding"
	"mindmesh/internal/factory"
	"mindmesh/internal/logging"
	"mindmesh/internal/store"
	"mindmesh/internal/types"
)

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	// dump flags
	energyFlag string
	tierFlag   string
	userFlag   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mindmesh",
	Short: "mindmesh - brain dumps into multi-framework productivity views",
	Long: `mindmesh ingests free-form brain dumps and restructures them into
parallel productivity-methodology views: Agile, Kanban, GTD, PARA, and an
energy-optimized custom view.

A semantic layer embeds each dump, finds your similar past dumps, and
recommends which frameworks fit. An orchestrator then connects tasks across
the views and derives momentum and ripple-effect metrics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("File logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// dumpCmd processes a single brain dump
var dumpCmd = &cobra.Command{
	Use:   "dump [text]",
	Short: "Process a brain dump through the full pipeline",
	Long: `Runs a brain dump through parse, semantic recommendation, the
framework agents your tier allows, and orchestration, then prints the
combined response as JSON.

The dump text comes from the arguments, or from stdin when none are given:

  mindmesh dump "I need to fix the login bug. What if we added dark mode?"
  cat notes.txt | mindmesh dump --energy Low --tier pro`,
	RunE: runDump,
}

// statusCmd reports backend availability
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check embedding backend and store availability",
	RunE:  runStatus,
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mindmesh %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: <workspace>/.mindmesh/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	dumpCmd.Flags().StringVar(&energyFlag, "energy", "Medium", "Energy state: High, Medium, Low, Hyperfocus, Scattered")
	dumpCmd.Flags().StringVar(&tierFlag, "tier", "free", "Entitlement tier: free, pro, enterprise")
	dumpCmd.Flags().StringVar(&userFlag, "user", "local", "User ID for history scoping")

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(workspace, ".mindmesh", "config.yaml")
}

// buildPipeline wires config -> engine -> store -> factory. The store and
// engine are optional: a missing backend degrades the semantic path instead
// of blocking the CLI.
func buildPipeline() (*factory.AgentFactory, *store.Store, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Configure(cfg.Logging.DebugMode, cfg.Logging.Level)

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		APIKey:         cfg.Embedding.APIKey,
		Model:          cfg.Embedding.Model,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		CacheSize:      cfg.Embedding.CacheSize,
	})
	if err != nil {
		logger.Warn("Embedding backend unavailable, semantic path degrades", zap.Error(err))
		engine = nil
	}

	var st *store.Store
	var hs factory.HistoryStore
	if engine != nil {
		dbPath := cfg.Store.DatabasePath
		if workspace != "" && !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(workspace, dbPath)
		}
		st, err = store.Open(dbPath)
		if err != nil {
			logger.Warn("Vector store unavailable, history disabled", zap.Error(err))
			st = nil
		} else {
			hs = st
		}
	}

	return factory.New(engine, hs, cfg.Tiers), st, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	input, err := readInput(args)
	if err != nil {
		return err
	}

	energy, err := types.ParseEnergyState(energyFlag)
	if err != nil {
		return err
	}
	tier := types.Tier(strings.ToLower(tierFlag))

	f, st, err := buildPipeline()
	if err != nil {
		return err
	}
	// The factory's wait must finish before the store closes underneath
	// the detached write, so register the store close first.
	if st != nil {
		defer st.Close()
	}
	defer f.Close()

	user := &types.UserContext{
		UserID:      userFlag,
		UserTier:    tier,
		EnergyState: energy,
	}

	logger.Info("Processing dump", zap.String("user", userFlag), zap.String("tier", tierFlag))
	resp, err := f.ProcessInput(ctx, input, user)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}
	logging.Configure(cfg.Logging.DebugMode, cfg.Logging.Level)

	fmt.Printf("mindmesh %s\n\n", version)
	fmt.Printf("Embedding provider: %s\n", cfg.Embedding.Provider)

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		APIKey:         cfg.Embedding.APIKey,
		Model:          cfg.Embedding.Model,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
	})
	switch {
	case err != nil:
		fmt.Printf("Embedding backend:  unavailable (%v)\n", err)
	default:
		if hc, ok := engine.(embedding.HealthChecker); ok {
			if herr := hc.HealthCheck(ctx); herr != nil {
				fmt.Printf("Embedding backend:  unhealthy (%v)\n", herr)
			} else {
				fmt.Printf("Embedding backend:  healthy (%s, %d dims)\n", engine.Name(), engine.Dimensions())
			}
		} else {
			fmt.Printf("Embedding backend:  configured (%s, %d dims)\n", engine.Name(), engine.Dimensions())
		}
	}

	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		fmt.Printf("Vector store:       unavailable (%v)\n", err)
		return nil
	}
	defer st.Close()
	fmt.Printf("Vector store:       ok (%s)\n", cfg.Store.DatabasePath)
	return nil
}

// readInput takes the dump text from args, or stdin when no args are given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
