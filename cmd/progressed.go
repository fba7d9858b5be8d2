package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/progression"
	"github.com/astrangelo/stellium/internal/telemetry"
	"github.com/astrangelo/stellium/internal/temporal"
)

var progressedCmd = &cobra.Command{
	Use:   "progressed [profile|date]",
	Short: "Compute a secondary progressed chart (a day for a year)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProgressed,
}

func init() {
	addInstantFlags(progressedCmd)
	progressedCmd.Flags().String("house-system", "", "house system (default from config: placidus)")
	progressedCmd.Flags().Bool("extended", false, "include Chiron, lunar nodes, and Lilith")
	progressedCmd.Flags().Float64("age", -1, "progress to this age in years")
	progressedCmd.Flags().String("target", "", "progress to this target date (YYYY-MM-DD, or 'now')")

	rootCmd.AddCommand(progressedCmd)
}

func runProgressed(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalContext()
	defer cancel()

	eng, err := buildEngine(ctx, cmd)
	if err != nil {
		return err
	}
	defer eng.close()

	resolved, err := eng.resolve(specFromFlags(cmd, args))
	if err != nil {
		return err
	}

	res, err := progressionResult(cmd, eng, resolved.UTC)
	if err != nil {
		return err
	}

	sys, err := eng.houseSystem(cmd)
	if err != nil {
		return err
	}

	eng.emitter.Emit(telemetry.KindProgression, map[string]any{
		"age_years":  res.AgeYears,
		"progressed": res.Progressed,
	})

	calc := &progression.Calculator{Assembler: &chart.Assembler{Provider: eng.provider}}
	outcome, err := calc.Charts(ctx, res, resolved.Place, eng.bodies(cmd), sys.Code)
	if err != nil {
		return err
	}

	eng.printer.Progression(outcome)
	return nil
}

// progressionResult maps the --age / --target flags onto the two entry
// points of the progression math. Exactly one of them must be given.
func progressionResult(cmd *cobra.Command, eng *engine, birth time.Time) (progression.Result, error) {
	age, _ := cmd.Flags().GetFloat64("age")
	targetStr, _ := cmd.Flags().GetString("target")

	switch {
	case cmd.Flags().Changed("age") && targetStr != "":
		return progression.Result{}, fmt.Errorf("--age and --target are mutually exclusive")
	case cmd.Flags().Changed("age"):
		return progression.ByAge(birth, age)
	case targetStr != "":
		target, err := resolveTargetDate(eng, targetStr)
		if err != nil {
			return progression.Result{}, err
		}
		return progression.ByTarget(birth, target)
	default:
		return progression.Result{}, fmt.Errorf("one of --age or --target is required")
	}
}

// resolveTargetDate parses the --target value as a UTC calendar date, with
// "now" meaning the current instant.
func resolveTargetDate(eng *engine, value string) (time.Time, error) {
	if value == "now" {
		if eng.resolver.Now != nil {
			return eng.resolver.Now(), nil
		}
		return time.Now().UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, &temporal.ValidationError{Field: "target", Value: value, Reason: "expected YYYY-MM-DD or 'now'"}
	}
	return t, nil
}
