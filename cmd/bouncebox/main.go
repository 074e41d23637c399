package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/experiment"
	"github.com/san-kum/bouncebox/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	quiet      bool

	dt         float64
	duration   float64
	integrator string
	substeps   int
	posY       float64
	velocity   float64
	accel      float64
	maxSpeed   float64
	height     float64
	frequency  float64
	amplitude  float64
	theme      string

	save      bool
	saveSteps bool
	watch     bool
	fixedDt   float64
	gifPath   string
	plain     bool
	frameRate int

	backend     string
	withAudio   bool
	windowScale float64
	showHUD     bool

	outPath   string
	snapOut   string
	svgPath   string
	snapAt    float64
	braille   bool
	sweepName string
	sweepMin  float64
	sweepMax  float64
	sweepN    int
	trials    int
	perturb   float64
	seed      int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bouncebox",
		Short:         "a square bouncing in a box",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFlags(0)
			log.SetPrefix("bouncebox: ")
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bouncebox", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "silence diagnostics")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation offline and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the run in real time with plain ANSI output")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the terminal live view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().Float64Var(&fixedDt, "fixed-dt", 0, "advance each frame by a fixed dt instead of the wall clock")
	liveCmd.Flags().StringVar(&gifPath, "gif", "", "where [g] saves the recording")
	liveCmd.Flags().BoolVar(&plain, "plain", false, "plain ANSI output without Bubble Tea")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --plain")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the graphical window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	addSimFlags(windowCmd)
	windowCmd.Flags().StringVar(&backend, "backend", "raylib", "window backend (raylib, ebiten)")
	windowCmd.Flags().BoolVar(&withAudio, "audio", false, "sonify the motion (raylib only)")
	windowCmd.Flags().Float64Var(&windowScale, "scale", 1, "window scale")
	windowCmd.Flags().BoolVar(&showHUD, "hud", false, "show the state overlay")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write an SVG of the window at a given time",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&snapAt, "at", 1, "simulation time in seconds")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "draw the terminal canvas instead of the vector scene")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id|latest]",
		Short: "phase portrait of height against velocity",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "also write the portrait as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id|latest]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id|latest]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id|latest]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  sweepParam,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepName, "param", "velocity", "parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1500, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 8, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the start state and check every run stays in the box",
		Args:  cobra.NoArgs,
		RunE:  monteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 50, "maximum perturbation of height and velocity")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveSteps, "save", false, "save steps that name save_as")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, integrators and themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s v=%g a=%g max=%g %s\n", name, p.Body.VY, p.Body.AY, p.Body.MaxVY, p.Integrator)
			}
			fmt.Println("integrators:")
			for _, name := range experiment.NewRegistry().ListIntegrators() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("themes:")
			for _, name := range viz.ThemeNames() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addSimFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, snapshotCmd, listCmd, plotCmd, phaseCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, compareCmd, sweepCmd, monteCarloCmd, scenarioCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().StringVar(&integrator, "integrator", "halfstep", "integrator")
	cmd.Flags().IntVar(&substeps, "substeps", 1, "substeps per tick (substep integrator)")
	cmd.Flags().Float64Var(&posY, "y", 0, "initial height")
	cmd.Flags().Float64Var(&velocity, "velocity", config.DefaultVelocity, "initial vertical velocity")
	cmd.Flags().Float64Var(&accel, "accel", config.DefaultAccel, "vertical acceleration")
	cmd.Flags().Float64Var(&maxSpeed, "max-speed", config.DefaultMaxSpeed, "speed limit")
	cmd.Flags().Float64Var(&height, "height", config.DefaultBaseHeight, "height of the travel range")
	cmd.Flags().Float64Var(&frequency, "frequency", 0, "oscillator frequency (only applied when set)")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 0, "oscillator amplitude (only applied when set)")
	cmd.Flags().StringVar(&theme, "theme", "", "colour theme")
}

// resolveConfig layers preset, config file and changed flags, in that
// order, and validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("y") {
		cfg.Body.Y = posY
	}
	if flags.Changed("velocity") {
		cfg.Body.VY = velocity
	}
	if flags.Changed("accel") {
		cfg.Body.AY = accel
	}
	if flags.Changed("max-speed") {
		cfg.Body.MaxVY = maxSpeed
	}
	if flags.Changed("height") {
		cfg.Window.BaseHeight = height
	}
	if flags.Changed("frequency") {
		cfg.Oscillator.Frequency = frequency
	}
	if flags.Changed("amplitude") {
		cfg.Oscillator.Amplitude = amplitude
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func presetName() string {
	if preset != "" {
		return preset
	}
	return "run"
}
