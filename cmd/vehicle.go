package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/drivecycle/config"
	"github.com/kilianp07/drivecycle/core/physics"
)

// wattsPerHP is one mechanical horsepower.
const wattsPerHP = 745.7

func newVehicleCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "vehicle",
		Short: "Show the configured vehicle and its torque curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			v := cfg.Vehicle
			curve, err := physics.NewTorqueCurve(v.TorqueMap)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "mass\t%.0f kg\n", v.Mass)
			fmt.Fprintf(tw, "drag coefficient\t%.3f\n", v.DragCoefficient)
			fmt.Fprintf(tw, "frontal area\t%.2f m2\n", v.FrontalArea)
			fmt.Fprintf(tw, "air density\t%.3f kg/m3\n", v.AirDensity)
			fmt.Fprintf(tw, "rolling coefficient\t%.4f\n", v.RollCoefficient)
			fmt.Fprintf(tw, "road angle\t%.3f rad\n", v.RoadAngle)
			fmt.Fprintf(tw, "transmission ratio\t%.2f\n", v.TransmissionRatio)
			fmt.Fprintf(tw, "wheel radius\t%.3f m\n", v.WheelRadius)
			fmt.Fprintf(tw, "max power\t%.1f kW (%.0f hp)\n", v.MaxPower/1000, v.MaxPower/wattsPerHP)
			fmt.Fprintf(tw, "max speed\t%.2f m/s (%.1f km/h)\n", v.MaxSpeed, v.MaxSpeed*3.6)
			fmt.Fprintf(tw, "bsfc\t%.3f kg/kWh\n", v.BSFC)
			fmt.Fprintln(tw, "\nrpm\ttorque [Nm]\tpower [kW]")
			for _, p := range v.TorqueMap {
				tq := curve.Torque(p.RPM)
				fmt.Fprintf(tw, "%.0f\t%.0f\t%.1f\n", p.RPM, tq, physics.MechanicalPower(tq, physics.AngularSpeed(p.RPM))/1000)
			}
			return tw.Flush()
		},
	}
}
