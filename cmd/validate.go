package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/config"
	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/profile"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the ephemeris engine, profile catalog, and tz database are usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			cfg.Verbose = true
		}
		ok := true

		swiss := &ephemeris.Swiss{Path: cfg.SwetestPath, EphePath: cfg.EphePath, Verbose: cfg.Verbose}
		if err := swiss.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "✗ swetest: %v\n", err)
			ok = false
		} else {
			fmt.Fprintf(os.Stderr, "✓ swetest engine found (%s)\n", cfg.SwetestPath)
		}

		store, err := profile.NewStore(cfg.ProfilesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ profiles: %v\n", err)
			ok = false
		} else if _, err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "✗ profiles: %v\n", err)
			ok = false
		} else {
			fmt.Fprintf(os.Stderr, "✓ profile catalog readable (%s)\n", store.Path)
		}

		// A zone with historical transitions exercises the full database,
		// not just the built-in UTC fallback.
		if _, err := time.LoadLocation("America/New_York"); err != nil {
			fmt.Fprintf(os.Stderr, "✗ timezone database: %v\n", err)
			ok = false
		} else {
			fmt.Fprintln(os.Stderr, "✓ timezone database available")
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
