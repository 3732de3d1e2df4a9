package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/l1jgo/genslot/internal/config"
	"github.com/l1jgo/genslot/internal/scenario"
	"github.com/l1jgo/genslot/internal/scripting"
	"github.com/l1jgo/genslot/internal/sim"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultConfigPath = "config/slotsim.toml"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	config   string
	ticks    int
	scenario string
	scripts  string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "slotsim",
		Short:         "Run entity churn against the generational slot store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config path (default $GENSLOT_CONFIG or "+defaultConfigPath+")")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "override sim.ticks")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "override sim.scenario")
	cmd.Flags().StringVar(&f.scripts, "scripts", "", "override sim.scripts")
	return cmd
}

// ── Report helpers ────────────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

// ── Simulation ────────────────────────────────────────────────────

func run(cmd *cobra.Command, f flags) error {
	// 1. Load config
	cfg, err := loadConfig(f)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if cfg.Profile.Enabled {
		defer profile.Start(profileMode(cfg.Profile.Mode), profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet).Stop()
		log.Info("profiling enabled", zap.String("mode", cfg.Profile.Mode), zap.String("path", cfg.Profile.Path))
	}

	// 3. Build the world and its inputs
	env := sim.NewEnv(cfg.Sim.InitialCapacity, cfg.Sim.Seed, log)
	opts := sim.Options{StatsEvery: 100}

	if cfg.Sim.Scenario != "" {
		sc, err := scenario.Load(cfg.Sim.Scenario)
		if err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		opts.Scenario = sc
		log.Info("scenario loaded", zap.String("path", cfg.Sim.Scenario), zap.Int("waves", sc.Count()))
	}

	if cfg.Sim.Scripts != "" {
		engine, err := scripting.NewEngine(cfg.Sim.Scripts, env, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		opts.Hook = engine
		log.Info("scripts loaded", zap.String("dir", cfg.Sim.Scripts))
	}

	// 4. Run until done or signalled
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("simulation starting",
		zap.Int("ticks", cfg.Sim.Ticks),
		zap.Duration("tick_rate", cfg.Sim.TickRate),
		zap.Int64("seed", cfg.Sim.Seed),
	)
	st, err := sim.New(env, opts).Run(ctx, cfg.Sim.Ticks, cfg.Sim.TickRate)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulation: %w", err)
	}
	if err != nil {
		log.Info("simulation interrupted", zap.Uint64("ticks", st.Ticks))
	}

	fmt.Println()
	printSection("Slots")
	printStat("Allocated", st.Slots)
	printStat("Live", st.Live)
	printStat("Free", st.Free)
	printStat("Retired", st.Retired)
	printSection("Churn")
	printStat("Ticks", int(st.Ticks))
	printStat("Spawned", st.Spawned)
	printStat("Despawned", st.Despawned)
	printStat("Peak live", st.PeakLive)
	fmt.Println()
	return nil
}

func loadConfig(f flags) (*config.Config, error) {
	path := f.config
	if path == "" {
		path = os.Getenv("GENSLOT_CONFIG")
	}
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadOrDefault(defaultConfigPath)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	if f.ticks > 0 {
		cfg.Sim.Ticks = f.ticks
	}
	if f.scenario != "" {
		cfg.Sim.Scenario = f.scenario
	}
	if f.scripts != "" {
		cfg.Sim.Scripts = f.scripts
	}
	return cfg, nil
}

func profileMode(mode string) func(*profile.Profile) {
	switch mode {
	case "mem":
		return profile.MemProfile
	case "allocs":
		return profile.MemProfileAllocs
	default:
		return profile.CPUProfile
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
