package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/san-kum/tipsim/internal/analysis"
	"github.com/san-kum/tipsim/internal/automation"
	"github.com/san-kum/tipsim/internal/config"
	"github.com/san-kum/tipsim/internal/export"
	"github.com/san-kum/tipsim/internal/model"
	"github.com/san-kum/tipsim/internal/sim"
	"github.com/san-kum/tipsim/internal/sweep"
	"github.com/san-kum/tipsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	// Global
	configFile string
	preset     string
	logLevel   string
	workers    int
	saturation float64
	dieRate    float64
	theme      string

	// Point queries
	cover    float64
	aridity  float64
	steps    int
	maxSteps int
	eps      float64

	// Output
	trajFormat    string
	surfaceFormat string
	outPath  string
	outDir   string
	width    int
	height   int
	heatCols int
	heatRows int

	// Bifurcation
	aridityFrom float64
	aridityTo   float64
	samples     int
	transient   int
	record      int
	scatter     bool

	// Monte Carlo
	perturbation float64
	trials       int
	seed         int64

	logger *log.Logger
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
)

// main runs the tipsim CLI and exits with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// newRootCmd registers every command. Flag defaults are written into the
// package-level vars, so each call starts from a clean state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tipsim",
		Short:         "vegetation cover tipping point model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.IntVar(&workers, "workers", 0, "sweep workers (0 = config or NumCPU)")
	pf.Float64Var(&saturation, "saturation-rate", model.DefaultSaturationRate, "vegetation saturation rate r")
	pf.Float64Var(&dieRate, "die-rate", model.DefaultDieRate, "vegetation die rate d")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	thresholdCmd := &cobra.Command{
		Use:   "threshold",
		Short: "critical cover c_crit for an aridity",
		RunE:  runThreshold,
	}
	thresholdCmd.Flags().Float64Var(&aridity, "aridity", 0.5, "aridity")

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "apply one step of the cover map",
		RunE:  runStep,
	}
	addPointFlags(stepCmd)

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory",
		Short: "generate a k-step cover trajectory",
		RunE:  runTrajectory,
	}
	addPointFlags(trajectoryCmd)
	trajectoryCmd.Flags().IntVar(&steps, "steps", config.DefaultTimeSteps, "trajectory length k")
	trajectoryCmd.Flags().StringVar(&trajFormat, "format", "plot", "output format (plot, csv, json, svg)")
	trajectoryCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	trajectoryCmd.Flags().IntVar(&width, "width", 60, "plot width")
	trajectoryCmd.Flags().IntVar(&height, "height", 12, "plot height")

	forestCmd := &cobra.Command{
		Use:   "forest-state",
		Short: "forest equilibrium and tipping aridity",
		RunE:  runForestState,
	}

	returnCmd := &cobra.Command{
		Use:   "return-time",
		Short: "steps until cover returns to the forest state",
		RunE:  runReturnTime,
	}
	addPointFlags(returnCmd)
	addReturnFlags(returnCmd)

	charCmd := &cobra.Command{
		Use:   "char-return-time [F|S]",
		Short: "characteristic return time of an equilibrium",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCharReturnTime,
	}

	bifCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "long-run cover over an aridity range",
		RunE:  runBifurcation,
	}
	bifCmd.Flags().Float64Var(&cover, "cover", config.DefaultInitialCover, "initial cover")
	bifCmd.Flags().Float64Var(&aridityFrom, "from", 0.14, "first aridity")
	bifCmd.Flags().Float64Var(&aridityTo, "to", 1.57, "last aridity")
	bifCmd.Flags().IntVar(&samples, "n", 60, "aridity samples")
	bifCmd.Flags().IntVar(&transient, "transient", 500, "steps discarded before recording")
	bifCmd.Flags().IntVar(&record, "record", 50, "steps recorded")
	bifCmd.Flags().BoolVar(&scatter, "scatter", false, "character scatter plot instead of branch lines")
	bifCmd.Flags().IntVar(&width, "width", 60, "plot width")
	bifCmd.Flags().IntVar(&height, "height", 12, "plot height")

	surfaceCmd := &cobra.Command{
		Use:   "surface [kind]",
		Short: "build a parameter sweep surface",
		Long: "Build a parameter sweep surface. Kinds: " + strings.Join(sweep.NewRegistry().Kinds(), ", ") +
			".\nWithout --format or --out the surface is drawn as a terminal heatmap.",
		Args: cobra.ExactArgs(1),
		RunE: runSurface,
	}
	surfaceCmd.Flags().Float64Var(&cover, "cover", config.DefaultInitialCover, "initial cover (cover surface)")
	surfaceCmd.Flags().IntVar(&steps, "steps", config.DefaultTimeSteps, "trajectory length (cover surface)")
	addReturnFlags(surfaceCmd)
	surfaceCmd.Flags().StringVar(&surfaceFormat, "format", "", "export format ("+strings.Join(export.Formats, ", ")+")")
	surfaceCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (format inferred from extension)")
	surfaceCmd.Flags().IntVar(&heatCols, "width", 60, "heatmap columns")
	surfaceCmd.Flags().IntVar(&heatRows, "height", 24, "heatmap rows")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a batch scenario of surfaces",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for saved surfaces")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "return-time outcomes under perturbed initial cover",
		RunE:  runMonteCarlo,
	}
	addPointFlags(mcCmd)
	addReturnFlags(mcCmd)
	mcCmd.Flags().Float64Var(&perturbation, "perturbation", 0.05, "half-width of the uniform cover perturbation")
	mcCmd.Flags().IntVar(&trials, "trials", 200, "number of trials")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	sliderCmd := &cobra.Command{
		Use:   "slider",
		Short: "interactive initial cover slider",
		RunE:  runSlider,
	}
	addPointFlags(sliderCmd)
	sliderCmd.Flags().IntVar(&steps, "steps", config.DefaultTimeSteps, "trajectory length")
	addReturnFlags(sliderCmd)

	rootCmd.AddCommand(thresholdCmd, stepCmd, trajectoryCmd, forestCmd, returnCmd, charCmd, bifCmd,
		surfaceCmd, batchCmd, mcCmd, presetsCmd, initCmd, sliderCmd)

	return rootCmd
}

func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&cover, "cover", config.DefaultInitialCover, "initial vegetation cover")
	cmd.Flags().Float64Var(&aridity, "aridity", 0.5, "aridity")
}

func addReturnFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "return-time step budget")
	cmd.Flags().Float64Var(&eps, "eps", config.DefaultEps, "convergence tolerance")
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "tipsim",
	})
	return nil
}

// loadConfig builds the effective configuration: preset, then config file,
// then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
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
		logger.Debug("config loaded", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("saturation-rate") {
		cfg.Rates = cfg.Rates.WithSaturationRate(saturation)
	}
	if flags.Changed("die-rate") {
		cfg.Rates = cfg.Rates.WithDieRate(dieRate)
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("cover") {
		cfg.InitialCover = cover
	}
	if flags.Changed("steps") {
		cfg.TimeSteps = steps
	}
	if flags.Changed("max-steps") {
		cfg.Return.MaxSteps = maxSteps
	}
	if flags.Changed("eps") {
		cfg.Return.Eps = eps
	}

	viz.SetTheme(cfg.Theme)
	return cfg, nil
}

func newEngine(cfg *config.Config) *sweep.Engine {
	return sweep.NewEngine(sweep.WithWorkers(cfg.Workers), sweep.WithLogger(logger))
}

// output returns the command's stdout or the file at outPath.
func output(cmd *cobra.Command) (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, err
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func runThreshold(cmd *cobra.Command, args []string) error {
	fmt.Print(row("aridity", fmt.Sprintf("%g", aridity)))
	fmt.Print(row("c_crit", fmt.Sprintf("%.6f", model.CCrit(aridity))))
	return nil
}

func runStep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	next := model.NextStep(cfg.InitialCover, aridity, cfg.Rates)
	region := "growth"
	if model.InForcedDecline(cfg.InitialCover, aridity) {
		region = "forced decline"
	}
	fmt.Print(row("cover", fmt.Sprintf("%.6f", cfg.InitialCover)))
	fmt.Print(row("region", region))
	fmt.Print(row("next", fmt.Sprintf("%.6f", next)))
	return nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s := sim.New(aridity, cfg.Rates)
	s.AddMetric(analysis.NewStability(aridity))
	s.AddMetric(analysis.NewCollapseStep(aridity))
	res := s.Run(cfg.InitialCover, cfg.TimeSteps)
	logger.Debug("trajectory", "cover", cfg.InitialCover, "aridity", aridity, "steps", len(res.Trajectory))

	format := trajFormat
	if format == "" {
		format = "plot"
	}
	out := cmd.OutOrStdout()

	if format == "plot" && outPath == "" {
		fmt.Fprintln(out, viz.PlotTrajectory(res.Trajectory, aridity, cfg.Rates, viz.PlotOptions{Width: width, Height: height}))
		final, _ := res.Trajectory.Final()
		fmt.Fprint(out, row("final", fmt.Sprintf("%.6f", final)))
		for _, name := range []string{"stability", "collapse_step"} {
			fmt.Fprint(out, row(name, fmt.Sprintf("%g", res.Metrics[name])))
		}
		lyap := analysis.LyapunovExponent(cfg.InitialCover, aridity, cfg.Rates, 200, 1e-8)
		fmt.Fprint(out, row("lyapunov", fmt.Sprintf("%.4f", lyap)))
		return nil
	}

	if format == "plot" {
		format = export.FormatFromPath(outPath)
	}
	w, err := output(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	switch format {
	case "csv":
		err = export.WriteTrajectoryCSV(w, res.Trajectory)
	case "json":
		err = export.WriteTrajectoryJSON(w, export.TrajectoryData{
			InitialCover:   cfg.InitialCover,
			Aridity:        aridity,
			SaturationRate: cfg.Rates.SaturationRate,
			DieRate:        cfg.Rates.DieRate,
			Cover:          res.Trajectory,
			Metrics:        res.Metrics,
		})
	case "svg":
		_, err = io.WriteString(w, export.TrajectoryToSVG(res.Trajectory, 600, 300, "#4caf50"))
	default:
		return fmt.Errorf("%w: %q (available: plot, %s)", export.ErrUnknownFormat, format, strings.Join(export.Formats, ", "))
	}
	if err != nil {
		return err
	}
	return w.Close()
}

func runForestState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Print(row("rates", cfg.Rates.String()))
	fmt.Print(row("forest state", fmt.Sprintf("%.6f", model.ForestState(cfg.Rates))))
	fmt.Print(row("tipping aridity", fmt.Sprintf("%.6f", model.TippingAridity(cfg.Rates))))
	return nil
}

func runReturnTime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	o := analysis.ReturnTime(cfg.InitialCover, aridity, cfg.Rates, cfg.Return)
	t := viz.CurrentTheme
	fmt.Print(row("outcome", t.OutcomeStyle(o.Kind()).Render(o.Kind().String())))
	fmt.Print(row("detail", o.String()))
	fmt.Print(row("plotted value", fmt.Sprintf("%g", analysis.StepsOrSentinel(o))))
	return nil
}

func runCharReturnTime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eqs := []analysis.Equilibrium{analysis.Forest, analysis.Savanna}
	if len(args) == 1 {
		eq, err := analysis.ParseEquilibrium(args[0])
		if err != nil {
			return err
		}
		eqs = []analysis.Equilibrium{eq}
	}

	for _, eq := range eqs {
		v, err := analysis.CharReturnTime(eq, cfg.Rates)
		if err != nil {
			fmt.Print(row(eq.Name(), "undefined ("+err.Error()+")"))
			continue
		}
		fmt.Print(row(eq.Name(), fmt.Sprintf("%.6f", v)))
	}
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	aridities, err := sweep.Linspace(aridityFrom, aridityTo, samples)
	if err != nil {
		return err
	}

	points := analysis.BifurcationDiagram(aridities, cfg.InitialCover, cfg.Rates, transient, record)
	fmt.Println(titleStyle.Render(fmt.Sprintf("Bifurcation over aridity %.3g..%.3g, C_0=%g", aridityFrom, aridityTo, cfg.InitialCover)))
	if scatter {
		fmt.Print(analysis.BifurcationToASCII(points, width, height))
	} else {
		fmt.Println(viz.PlotBifurcation(points, viz.PlotOptions{Width: width, Height: height}))
	}
	fmt.Print(row("tipping aridity", fmt.Sprintf("%.4f", model.TippingAridity(cfg.Rates))))
	return nil
}

func runSurface(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	req := cfg.Request(args[0])
	start := time.Now()
	s, err := sweep.NewRegistry().Build(cmd.Context(), newEngine(cfg), req)
	if err != nil {
		return err
	}
	logger.Info("surface ready", "kind", s.Kind, "id", s.ID, "cells", s.Cells(), "elapsed", time.Since(start))

	format := surfaceFormat
	if format == "" && outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), viz.Heatmap(s, viz.HeatmapOptions{MaxCols: heatCols, MaxRows: heatRows, Theme: viz.CurrentTheme}))
		return nil
	}
	if format == "" {
		format = export.FormatFromPath(outPath)
	}

	w, err := output(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := export.WriteSurface(w, s, format); err != nil {
		return err
	}
	return w.Close()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var base *config.Config
	if configFile != "" || preset != "" {
		if base, err = loadConfig(cmd); err != nil {
			return err
		}
	}
	engineCfg := config.DefaultConfig()
	if base != nil {
		engineCfg = base
	}
	if cmd.Flags().Changed("workers") {
		engineCfg.Workers = workers
	}

	runner := automation.NewRunner(newEngine(engineCfg), sweep.NewRegistry(), logger, outDir)
	results, err := runner.Run(cmd.Context(), scenario, base)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tKIND\tCELLS\tRANGE\tFILE")
	for _, r := range results {
		rng := "-"
		if lo, hi, ok := r.Surface.Range(); ok {
			rng = fmt.Sprintf("%.3g..%.3g", lo, hi)
		}
		path := r.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.Name, r.Surface.Kind, r.Surface.Cells(), rng, path)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), automation.MonteCarloConfig{
		InitialCover: cfg.InitialCover,
		Aridity:      aridity,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
		Rates:        cfg.Rates,
		Return:       cfg.Return,
	})
	if err != nil {
		return err
	}

	stats := automation.MonteCarloStats(results)
	t := viz.CurrentTheme
	fmt.Println(titleStyle.Render(fmt.Sprintf("%d trials, C_0=%g±%g, aridity=%g", len(results), cfg.InitialCover, perturbation, aridity)))
	for _, k := range []analysis.Kind{analysis.KindConverged, analysis.KindCollapsed, analysis.KindExhausted} {
		share := 0.0
		if len(results) > 0 {
			share = float64(stats[k]) / float64(len(results))
		}
		fmt.Print(row(k.String(), t.OutcomeStyle(k).Render(fmt.Sprintf("%d (%.1f%%)", stats[k], 100*share))))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRATES\tC_0\tSTEPS\tARIDITY")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%g..%g\n", name, c.Rates, c.InitialCover, c.TimeSteps, c.Axes.Aridity.Min, c.Axes.Aridity.Max)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("config written", "path", args[0])
	return nil
}

func runSlider(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	aridities, err := cfg.Axes.Aridity.Resolve()
	if err != nil {
		return err
	}
	// keep log lines off the alternate screen
	logger.SetOutput(io.Discard)

	return viz.RunSlider(viz.SliderConfig{
		InitialCover: cfg.InitialCover,
		Aridity:      aridity,
		Aridities:    aridities,
		TimeSteps:    cfg.TimeSteps,
		Rates:        cfg.Rates,
		Return:       cfg.Return,
		Engine:       newEngine(cfg),
		Surfaces:     sweep.NewRegistry(),
		Axes:         cfg.Request(""),
	})
}
