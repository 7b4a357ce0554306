package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/calculator"
)

var cmeFlags calculator.SessionInput

var cmeCmd = &cobra.Command{
	Use:   "cme",
	Short: "CME points per session and required sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := calculator.Requirement(cmeFlags)
		if err != nil {
			return err
		}
		log.Debug("CME requirement calculated", zap.Int("points_per_session", result.PointsPerSession))
		return printJSON(cmd, result)
	},
}

var (
	savingsFlags  calculator.SavingsInput
	travelMinutes float64
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Compare traditional and optimized CME costs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := savingsFlags
		if cmd.Flags().Changed("travel-minutes") {
			hours := travelMinutes / 60
			in.OneWayTravelHours = &hours
		}
		if in.Years == 0 {
			in.Years = cfg.Calculator.ProjectionYears
		}

		result, err := calculator.Compare(in, rates())
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

func init() {
	f := cmeCmd.Flags()
	f.IntVar(&cmeFlags.DurationMinutes, "minutes", 0, "session duration in minutes")
	f.BoolVar(&cmeFlags.LearningControl, "learning-control", false, "session ends with a learning control")
	f.BoolVar(&cmeFlags.Interactive, "interactive", false, "interactive session format")
	_ = cmeCmd.MarkFlagRequired("minutes")

	s := savingsCmd.Flags()
	s.IntVar(&savingsFlags.SessionsPerYear, "sessions", 0, "sessions per year")
	s.Float64Var(&savingsFlags.SessionHours, "hours", 0, "session length in hours")
	s.Float64Var(&savingsFlags.OneWayDistanceKm, "distance", 0, "one-way distance to the venue in km")
	s.Float64Var(&travelMinutes, "travel-minutes", 0, "one-way travel time in minutes (default: distance / average speed)")
	s.IntVar(&savingsFlags.Participants, "participants", 1, "participants from the practice")
	s.IntVar(&savingsFlags.Years, "years", 0, "projection horizon in years")
	_ = savingsCmd.MarkFlagRequired("sessions")
	_ = savingsCmd.MarkFlagRequired("hours")

	rootCmd.AddCommand(cmeCmd, savingsCmd)
}
