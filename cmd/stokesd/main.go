package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/sdlab/stokesd/internal/bd"
	"github.com/sdlab/stokesd/internal/compute"
	"github.com/sdlab/stokesd/internal/config"
	"github.com/sdlab/stokesd/internal/stokes"
	"github.com/sdlab/stokesd/internal/tui"
)

var (
	configFile string
	preset     string
	dt         float64
	steps      int
	kt         float64
	seed       uint64
	frameRate  int

	// sweep parameters
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	radius      float64
	viscosity   float64
	force       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stokesd",
		Short: "stokesian dynamics particle simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	velocitiesCmd := &cobra.Command{
		Use:   "velocities",
		Short: "solve one configuration and print particle velocities",
		RunE:  runVelocities,
	}
	addSceneFlags(velocitiesCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a scene over time",
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "integrate with live terminal rendering",
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "entrainment velocity of a passive sphere vs separation",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2.5, "smallest separation")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20.0, "largest separation")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 30, "number of separations")
	sweepCmd.Flags().Float64Var(&radius, "radius", 1.0, "sphere radius")
	sweepCmd.Flags().Float64Var(&viscosity, "viscosity", 1.0, "fluid viscosity")
	sweepCmd.Flags().Float64Var(&force, "force", 1.0, "force on the driven sphere")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "run a scene and write the trajectory as CSV",
		RunE:  exportCSV,
	}
	addSceneFlags(exportCSVCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "run a scene and write the trajectory as JSON",
		RunE:  exportJSON,
	}
	addSceneFlags(exportJSONCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the solver at increasing particle counts",
		RunE:  runBench,
	}

	rootCmd.AddCommand(velocitiesCmd, runCmd, liveCmd, sweepCmd, exportCSVCmd, exportJSONCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "pair", "scene preset")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	cmd.Flags().IntVar(&steps, "steps", 0, "step count override")
	cmd.Flags().Float64Var(&kt, "kt", -1, "thermal energy override")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed override")
}

// loadScene resolves the scene from preset or file, then applies any
// flag overrides the user set explicitly.
func loadScene(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("kt") {
		cfg.KT = kt
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDriver(cfg *config.Config) (*bd.Driver, []float64, bd.Config, error) {
	solver, err := stokes.NewSolver(nil, cfg.Viscosity, len(cfg.Particles))
	if err != nil {
		return nil, nil, bd.Config{}, err
	}
	pos, radii, forces := cfg.Arrays()
	driver, err := bd.New(solver, radii, forces)
	if err != nil {
		return nil, nil, bd.Config{}, err
	}
	return driver, pos, bd.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		KT:            cfg.KT,
		Seed:          cfg.Seed,
		Flags:         cfg.Flags(),
		ValidateState: true,
	}, nil
}

func runVelocities(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}

	solver, err := stokes.NewSolver(nil, cfg.Viscosity, len(cfg.Particles))
	if err != nil {
		return err
	}
	pos, radii, forces := cfg.Arrays()

	vel, err := solver.Velocities(stokes.Request{
		Positions: pos,
		Radii:     radii,
		Forces:    forces,
		Flags:     cfg.Flags(),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tUX\tUY\tUZ\tWX\tWY\tWZ")
	for p := range radii {
		fmt.Fprintf(w, "%d\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n",
			p, vel[6*p], vel[6*p+1], vel[6*p+2], vel[6*p+3], vel[6*p+4], vel[6*p+5])
	}
	return w.Flush()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	driver, pos, bcfg, err := newDriver(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %d particles for %d steps (dt=%g)...\n", len(cfg.Particles), cfg.Steps, cfg.Dt)
	start := time.Now()

	result, err := driver.Run(context.Background(), pos, bcfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v (%.0f steps/s)\n\n", elapsed,
		float64(result.StepsTaken)/elapsed.Seconds())

	// height of particle 0 over time
	z0 := make([]float64, len(result.Positions))
	for i, p := range result.Positions {
		z0[i] = p[2]
	}
	graph := asciigraph.Plot(z0,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("z of particle 0 vs step"),
	)
	fmt.Println(graph)

	last := result.Positions[len(result.Positions)-1]
	fmt.Println("\nfinal positions:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tX\tY\tZ")
	for p := 0; p < len(cfg.Particles); p++ {
		fmt.Fprintf(w, "%d\t%.6g\t%.6g\t%.6g\n", p, last[3*p], last[3*p+1], last[3*p+2])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	driver, pos, bcfg, err := newDriver(cfg)
	if err != nil {
		return err
	}
	_, radii, _ := cfg.Arrays()

	r := tui.NewLiveRenderer(frameRate)
	r.Start()
	defer r.Stop()

	return driver.RunWithCallback(context.Background(), pos, bcfg,
		func(p, _ []float64, t float64) bool {
			r.OnStep(p, radii, t)
			return true
		})
}

// runSweep drags one sphere past a passive one and reports how much of
// the motion the passive sphere picks up at each separation.
func runSweep(cmd *cobra.Command, args []string) error {
	solver, err := stokes.NewSolver(nil, viscosity, 2)
	if err != nil {
		return err
	}
	if sweepPoints < 2 {
		return fmt.Errorf("need at least 2 points, got %d", sweepPoints)
	}
	if sweepMin <= 2*radius {
		return fmt.Errorf("smallest separation %g does not clear contact %g", sweepMin, 2*radius)
	}

	radii := []float64{radius, radius}
	forces := make([]float64, 12)
	forces[0] = force

	entrainment := make([]float64, sweepPoints)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEPARATION\tU_DRIVEN\tU_PASSIVE\tRATIO")

	for i := 0; i < sweepPoints; i++ {
		r := sweepMin + (sweepMax-sweepMin)*float64(i)/float64(sweepPoints-1)
		vel, err := solver.Velocities(stokes.Request{
			Positions: []float64{0, 0, 0, 0, r, 0},
			Radii:     radii,
			Forces:    forces,
			Flags:     stokes.DefaultFlags,
		})
		if err != nil {
			return fmt.Errorf("separation %g: %w", r, err)
		}
		ratio := vel[6] / vel[0]
		entrainment[i] = ratio
		fmt.Fprintf(w, "%.4g\t%.6g\t%.6g\t%.4f\n", r, vel[0], vel[6], ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	graph := asciigraph.Plot(entrainment,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("entrainment ratio vs separation"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	driver, pos, bcfg, err := newDriver(cfg)
	if err != nil {
		return err
	}
	result, err := driver.Run(context.Background(), pos, bcfg)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for p := 0; p < len(cfg.Particles); p++ {
		header = append(header,
			fmt.Sprintf("x%d", p), fmt.Sprintf("y%d", p), fmt.Sprintf("z%d", p))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.Positions {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, v := range result.Positions[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd)
	if err != nil {
		return err
	}
	driver, pos, bcfg, err := newDriver(cfg)
	if err != nil {
		return err
	}
	result, err := driver.Run(context.Background(), pos, bcfg)
	if err != nil {
		return err
	}

	out := struct {
		Viscosity float64     `json:"viscosity"`
		Dt        float64     `json:"dt"`
		Steps     int         `json:"steps"`
		KT        float64     `json:"kt"`
		Seed      uint64      `json:"seed"`
		Times     []float64   `json:"times"`
		Positions [][]float64 `json:"positions"`
	}{
		Viscosity: cfg.Viscosity,
		Dt:        cfg.Dt,
		Steps:     result.StepsTaken,
		KT:        cfg.KT,
		Seed:      cfg.Seed,
		Times:     result.Times,
		Positions: result.Positions,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runBench(cmd *cobra.Command, args []string) error {
	backend := compute.GetBackend()
	fmt.Printf("backend: %s\n\n", backend.Name())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tDOF\tSOLVE\tSOLVES/SEC")

	for _, n := range []int{2, 8, 27, 64} {
		solver, err := stokes.NewSolver(backend, 1.0, n)
		if err != nil {
			return err
		}

		pos, radii, forces := benchScene(n)

		// warm up allocations
		if _, err := solver.Velocities(stokes.Request{
			Positions: pos, Radii: radii, Forces: forces,
			Flags: stokes.DefaultFlags,
		}); err != nil {
			return err
		}

		reps := 5
		start := time.Now()
		for i := 0; i < reps; i++ {
			if _, err := solver.Velocities(stokes.Request{
				Positions: pos, Radii: radii, Forces: forces,
				Flags: stokes.DefaultFlags,
			}); err != nil {
				return err
			}
		}
		elapsed := time.Since(start) / time.Duration(reps)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\n", n, 6*n, elapsed, 1/elapsed.Seconds())
	}
	return w.Flush()
}

// benchScene places n unit spheres on a cubic lattice with spacing 3,
// all pushed in z.
func benchScene(n int) (pos, radii, forces []float64) {
	pos = make([]float64, 3*n)
	radii = make([]float64, n)
	forces = make([]float64, 6*n)

	side := 1
	for side*side*side < n {
		side++
	}
	for p := 0; p < n; p++ {
		pos[3*p+0] = float64(p%side) * 3
		pos[3*p+1] = float64((p/side)%side) * 3
		pos[3*p+2] = float64(p/(side*side)) * 3
		radii[p] = 1
		forces[6*p+2] = -1
	}
	return pos, radii, forces
}
