package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/drivecycle/app"
	"github.com/kilianp07/drivecycle/config"
	"github.com/kilianp07/drivecycle/core/factory"
	"github.com/kilianp07/drivecycle/core/report"
	"github.com/kilianp07/drivecycle/core/scenario"
)

func newRunCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		refs   []string
		dt     float64
		series bool
		serve  bool
		trace  bool
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "Simulate one or more driving cycles",
		Long: "Simulate the configured scenarios, or the ones given with --scenario.\n" +
			"A scenario is a builtin name or a YAML file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := load()
			if err != nil {
				return err
			}
			if len(refs) > 0 {
				cfg.Simulation.Scenarios = refs
			}
			if cmd.Flags().Changed("dt") {
				cfg.Simulation.TimeStepSeconds = dt
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if trace {
				cfg.Logging.Level = "debug"
				cfg.Metrics.Sinks = append(cfg.Metrics.Sinks, factory.ModuleConfig{Type: "log", Conf: map[string]any{"component": "trace"}})
			}
			svc, err := app.New(cfg)
			if err != nil {
				return err
			}
			scs, err := svc.Scenarios()
			if err != nil {
				return err
			}

			if serve && cfg.Metrics.PrometheusAddr == "" {
				return errors.New("--serve needs metrics.prometheus_addr")
			}
			var serveErr chan error
			if serve {
				serveErr = make(chan error, 1)
				go func() { serveErr <- svc.ServeMetrics(ctx) }()
			}

			results, err := svc.RunBatch(ctx, scs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, res := range results {
				if err := writeResult(out, res, series); err != nil {
					return err
				}
			}
			if !serve {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "serving metrics until interrupted")
			select {
			case err := <-serveErr:
				return err
			case <-ctx.Done():
				return <-serveErr
			}
		},
	}
	c.Flags().StringArrayVarP(&refs, "scenario", "s", nil, "scenario name or YAML file (repeatable)")
	c.Flags().Float64Var(&dt, "dt", config.DefaultTimeStepSeconds, "integration time step in seconds")
	c.Flags().BoolVar(&series, "series", false, "print the per-step time series")
	c.Flags().BoolVar(&trace, "trace", false, "log every step at debug level")
	c.Flags().BoolVar(&serve, "serve", false, "serve metrics during the runs and until interrupted")
	return c
}

func writeResult(w io.Writer, res app.Result, series bool) error {
	s := res.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "scenario\t%s\n", res.Scenario)
	fmt.Fprintf(tw, "run\t%s\n", res.RunID)
	fmt.Fprintf(tw, "vehicle\t%.0f kg, %.0f kW, %.0f km/h\n", res.Vehicle.Mass, res.Vehicle.MaxPower/1000, res.Vehicle.MaxSpeed*3.6)
	fmt.Fprintf(tw, "steps\t%d (%.1f s)\n", s.Steps, s.Duration)
	fmt.Fprintf(tw, "distance\t%.1f m\n", s.Distance)
	fmt.Fprintf(tw, "final speed\t%.2f km/h\n", s.FinalSpeed*3.6)
	fmt.Fprintf(tw, "peak speed\t%.2f km/h\n", s.PeakSpeed*3.6)
	fmt.Fprintf(tw, "mean speed\t%.2f km/h\n", s.MeanSpeed*3.6)
	fmt.Fprintf(tw, "fuel\t%.3f kg (%.3f l)\n", s.FuelKg, s.FuelLiters)
	fmt.Fprintf(tw, "consumption\t%.2f l/100km\n", s.LitersPer100km)
	if series {
		fmt.Fprintln(tw, "\nt [s]\tv [km/h]\tx [km]\ta [m/s2]\tP [kW]\tfuel [l]")
		for _, smp := range report.TimeSeries(res.History, res.TimeStep) {
			fmt.Fprintf(tw, "%.1f\t%.2f\t%.3f\t%.2f\t%.1f\t%.4f\n",
				smp.Time, smp.SpeedKmh, smp.PositionKm, smp.Acceleration, smp.PowerKW, smp.FuelLiters)
		}
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List builtin scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range scenario.BuiltinNames() {
				sc, _ := scenario.Builtin(name)
				fmt.Fprintf(tw, "%s\t%d steps\t%s\n", sc.Name, sc.Steps(), sc.Description)
			}
			return tw.Flush()
		},
	}
}
