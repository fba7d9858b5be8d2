package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/houses"
	"github.com/astrangelo/stellium/internal/telemetry"
)

var housesCmd = &cobra.Command{
	Use:   "houses [profile|now|date]",
	Short: "Compare house cusps across multiple house systems",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHouses,
}

func init() {
	addInstantFlags(housesCmd)
	housesCmd.Flags().StringSlice("systems", nil, "house systems to compare (default: all)")

	rootCmd.AddCommand(housesCmd)
}

func runHouses(cmd *cobra.Command, args []string) error {
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

	names, _ := cmd.Flags().GetStringSlice("systems")
	systems := make([]houses.System, 0, len(names))
	for _, name := range names {
		sys, err := houses.FromName(name)
		if err != nil {
			return err
		}
		systems = append(systems, sys)
	}

	comparator := &houses.Engine{Assembler: &chart.Assembler{Provider: eng.provider}}
	cmp, err := comparator.Compare(ctx, resolved.UTC, resolved.Place, systems)
	if err != nil {
		return err
	}

	compared := make([]string, len(cmp.Systems))
	for i, s := range cmp.Systems {
		compared[i] = s.System.Name
	}
	eng.emitter.Emit(telemetry.KindHousesCompare, map[string]any{
		"systems": strings.Join(compared, ","),
	})

	eng.printer.Comparison(cmp)
	return nil
}
