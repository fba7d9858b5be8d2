package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/profile"
	"github.com/astrangelo/stellium/internal/telemetry"
	"github.com/astrangelo/stellium/internal/temporal"
)

var chartCmd = &cobra.Command{
	Use:   "chart [profile|now|date]",
	Short: "Compute a full chart for a saved profile, the current moment, or an explicit instant",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChart,
}

func init() {
	addInstantFlags(chartCmd)
	chartCmd.Flags().String("house-system", "", "house system (default from config: placidus)")
	chartCmd.Flags().Bool("extended", false, "include Chiron, lunar nodes, and Lilith")
	chartCmd.Flags().Bool("watch", false, "re-render when the profile catalog changes")

	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalContext()
	defer cancel()

	eng, err := buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	spec := specFromFlags(cmd, args)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchChart(ctx, cmd, eng, spec)
	}
	return renderChart(ctx, cmd, eng, spec)
}

func renderChart(ctx context.Context, cmd *cobra.Command, eng *engine, spec temporal.Spec) error {
	resolved, err := eng.resolve(spec)
	if err != nil {
		return err
	}

	sys, err := eng.houseSystem(cmd)
	if err != nil {
		return err
	}

	eng.emitter.Emit(telemetry.KindChartStart, map[string]any{"system": string(sys.Code)})
	assembler := &chart.Assembler{Provider: eng.provider}
	ch, err := assembler.Assemble(ctx, resolved.UTC, resolved.Place, eng.bodies(cmd), sys.Code)
	if err != nil {
		return err
	}
	ch.Warnings = append(ch.Warnings, resolved.Warnings...)
	eng.emitter.Emit(telemetry.KindChartDone, map[string]any{
		"bodies":   len(ch.Bodies),
		"warnings": len(ch.Warnings),
	})

	eng.printer.Header("chart", ch)
	eng.printer.Chart(ch)
	return nil
}

// watchChart renders once, then re-renders whenever the profile catalog file
// changes. Only meaningful for profile-based specs, but harmless otherwise.
func watchChart(ctx context.Context, cmd *cobra.Command, eng *engine, spec temporal.Spec) error {
	if err := renderChart(ctx, cmd, eng, spec); err != nil {
		return err
	}

	w, err := profile.NewWatcher(eng.resolver.Profiles.Path)
	if err != nil {
		return fmt.Errorf("watch mode: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch mode: %w", err)
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes:
			// A failed re-render (profile deleted mid-watch, engine fault)
			// is reported but does not end the watch.
			if err := renderChart(ctx, cmd, eng, spec); err != nil {
				eng.printer.Warnings([]string{err.Error()})
			}
		}
	}
}
