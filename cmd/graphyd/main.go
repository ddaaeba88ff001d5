// Package main is the CLI entry point for graphyd.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/r2d2m/graphy/internal/config"
	"github.com/r2d2m/graphy/internal/host"
	"github.com/r2d2m/graphy/pkg/graphy"
	"github.com/r2d2m/graphy/pkg/graphy/actions"
	"github.com/r2d2m/graphy/pkg/graphy/monitor"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "graphyd",
	Short: "Runtime condition watcher - alerts on frame rate, memory and audio",
	Long: `graphyd embeds the graphy watch engine in a frame loop. Every frame it
samples frame pacing, its own memory usage and the audio peak, evaluates
the configured watches, and fires their alerts: log lines, screenshots,
or a debugger break.

Without a config file it runs the built-in watch set.`,
	Version: Version,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the watch loop over this process",
	Long: `Starts the frame loop and watches this process itself: frame pacing of
the loop, resident and heap memory, and a silent audio bus. Runs until
interrupted.`,
	RunE: runRun,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the watch loop against a synthetic workload",
	Long: `Starts the frame loop with a synthetic workload that burns memory,
renders an audio tone with periodic clipping bursts, and stalls frames on
a schedule - enough stimulus to trip the built-in watch set. Useful for
smoke-testing a watch configuration before embedding it.`,
	RunE: runSimulate,
}

var watchesCmd = &cobra.Command{
	Use:   "watches",
	Short: "List the effective watch set",
	Long:  `Shows every watch the current configuration would install, including conditions, delays and actions.`,
	RunE:  runWatches,
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "List watchable variables and comparators",
	Long:  `Shows the variables a watch condition can reference, the comparators, and the condition logic modes.`,
	Run:   runVars,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath  string
	verbose     bool
	simDuration time.Duration
	jsonOutput  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default: built-in watch set)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 0, "Stop after this long (0 = run until interrupted)")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(watchesCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	return runLoop(false, 0)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	return runLoop(true, simDuration)
}

// runLoop assembles the monitors, engine and frame loop from config and
// runs until the context ends.
func runLoop(simulate bool, duration time.Duration) error {
	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var workload host.Workload
	if simulate {
		workload = host.NewSim(host.DefaultSimConfig(), logger.Named("workload"))
	}

	fps := monitor.NewFPS(cfg.FPSWindow)
	ram, err := monitor.NewRAM(cfg.RAMPoll, logger)
	if err != nil {
		return fmt.Errorf("init memory monitor: %w", err)
	}
	audio := monitor.NewAudio(cfg.AudioFalloff)

	sources := graphy.MetricSources{FPS: fps, RAM: ram, Audio: audio}
	services := graphy.Services{
		Log:        actions.NewZapSink(logger.Named("watch")),
		Screenshot: actions.NewScreenshotWriter(cfg.ScreenshotDir, placeholderFrame),
		Break:      actions.NewBreaker(cfg.BreakEnabled),
	}

	engine := graphy.NewEngine(sources, services, logger)
	engine.SetPrefix(cfg.Prefix)

	packets, err := cfg.CompileWatches()
	if err != nil {
		return err
	}
	for _, p := range packets {
		engine.AddPacket(p)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	loop := host.NewLoop(
		host.LoopConfig{FrameInterval: cfg.FrameInterval},
		engine, fps, ram, audio, workload, logger,
	)

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// placeholderFrame renders a small gradient. graphyd has no framebuffer
// of its own, so screenshots record that the capture fired rather than
// host pixels.
func placeholderFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(4 * x), G: uint8(4 * y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func runWatches(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	packets, err := cfg.CompileWatches()
	if err != nil {
		return err
	}

	fmt.Println("\n=== Watch Set ===")

	for _, p := range packets {
		fmt.Printf("\n[%d] severity=%s logic=%s", p.ID, p.Actions.Severity, p.Logic)
		if p.ExecuteOnce {
			fmt.Print(" once")
		}
		if !p.Active {
			fmt.Print(" (inactive)")
		}
		fmt.Println()

		for _, c := range p.Conditions {
			fmt.Printf("  when: %s %s %g\n", c.Variable, c.Comparator, c.Threshold)
		}
		if p.Actions.Message != "" {
			fmt.Printf("  message: %s\n", p.Actions.Message)
		}
		if p.Actions.TakeScreenshot {
			fmt.Printf("  screenshot: %s\n", p.Actions.ScreenshotName)
		}
		if p.Actions.BreakExecution {
			fmt.Println("  breaks execution")
		}
		fmt.Printf("  init delay: %s, recheck: %s\n", p.InitDelay, p.RecheckDelay)
	}

	fmt.Println("\n=================")
	return nil
}

func runVars(cmd *cobra.Command, args []string) {
	fmt.Println("\n=== Watchable Variables ===")
	fmt.Println("\n  fps            frames per second of the last frame")
	fmt.Println("  fps_min        slowest frame in the sample window")
	fmt.Println("  fps_max        fastest frame in the sample window")
	fmt.Println("  fps_avg        average over the sample window")
	fmt.Println("  ram_allocated  resident set size, bytes")
	fmt.Println("  ram_reserved   virtual memory size, bytes")
	fmt.Println("  ram_managed    Go heap in use, bytes")
	fmt.Println("  audio_peak     audio peak level with falloff, 0..1")
	fmt.Println("\nComparators: < <= == >= >")
	fmt.Println("Logic: ALL (every condition must hold), ANY (at least one)")
	fmt.Println("\n===========================")
}

func createLogger() *zap.Logger {
	var cfg zap.Config
	if isatty.IsTerminal(os.Stdout.Fd()) {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		// Fallback if the console encoder cannot be built
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("graphyd %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
