package cmd

import (
	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/moonphase"
	"github.com/astrangelo/stellium/internal/telemetry"
)

var moonCmd = &cobra.Command{
	Use:   "moon [profile|now|date]",
	Short: "Show the lunar phase for an instant",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMoon,
}

func init() {
	addInstantFlags(moonCmd)
	rootCmd.AddCommand(moonCmd)
}

func runMoon(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalContext()
	defer cancel()

	eng, err := buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	spec := specFromFlags(cmd, args)
	if len(args) == 0 && spec.Date == "" {
		spec.Profile = "now"
	}
	// The phase is geocentric: only the instant matters. Coordinates are
	// still threaded through resolution, so default them rather than
	// demanding flags the computation never reads.
	zero := 0.0
	if spec.Latitude == nil {
		spec.Latitude = &zero
	}
	if spec.Longitude == nil {
		spec.Longitude = &zero
	}

	resolved, err := eng.resolve(spec)
	if err != nil {
		return err
	}

	sun, err := eng.provider.BodyPosition(ctx, resolved.UTC, resolved.Place, ephemeris.Sun)
	if err != nil {
		return err
	}
	moon, err := eng.provider.BodyPosition(ctx, resolved.UTC, resolved.Place, ephemeris.Moon)
	if err != nil {
		return err
	}

	result := moonphase.Compute(sun.Longitude, moon.Longitude)
	eng.emitter.Emit(telemetry.KindMoonPhase, map[string]any{
		"separation":   result.Separation,
		"illumination": result.Illumination,
		"phase":        result.Phase.String(),
	})

	eng.printer.Moon(result)
	return nil
}
