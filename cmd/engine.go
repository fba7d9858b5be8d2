package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/astrangelo/stellium/internal/config"
	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/houses"
	"github.com/astrangelo/stellium/internal/profile"
	"github.com/astrangelo/stellium/internal/telemetry"
	"github.com/astrangelo/stellium/internal/temporal"
	"github.com/astrangelo/stellium/internal/ui"
)

// engine bundles the wired collaborators every chart-producing subcommand
// needs: the ephemeris provider (possibly cache-wrapped), the temporal
// resolver, the telemetry emitter, and the printer.
type engine struct {
	cfg      config.Config
	provider ephemeris.Provider
	resolver *temporal.Resolver
	emitter  *telemetry.Emitter
	printer  *ui.Printer

	cache *ephemeris.Cache
}

// buildEngine loads config, applies flag overrides, and wires the stack.
// The caller must invoke close when done.
func buildEngine(ctx context.Context, cmd *cobra.Command) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}

	e := &engine{cfg: cfg, printer: ui.New()}

	swiss := &ephemeris.Swiss{Path: cfg.SwetestPath, EphePath: cfg.EphePath, Verbose: cfg.Verbose}
	e.provider = swiss
	if cfg.CachePath != "" {
		cache, err := ephemeris.OpenCache(ctx, cfg.CachePath, swiss)
		if err != nil {
			return nil, err
		}
		e.cache = cache
		e.provider = cache
	}

	store, err := profile.NewStore(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}
	e.resolver = &temporal.Resolver{Profiles: store}

	if cfg.TelemetryPath != "" {
		emitter, err := telemetry.NewEmitter(cfg.TelemetryPath, telemetry.NewRunID())
		if err != nil {
			return nil, err
		}
		e.emitter = emitter
	}

	return e, nil
}

func (e *engine) close() {
	if e.cache != nil {
		e.cache.Close()
	}
	e.emitter.Close()
}

// bodies returns the body set for this invocation, honoring --extended.
func (e *engine) bodies(cmd *cobra.Command) []ephemeris.Body {
	extended := e.cfg.Extended
	if v, _ := cmd.Flags().GetBool("extended"); v {
		extended = true
	}
	if extended {
		return ephemeris.ExtendedBodies()
	}
	return ephemeris.DefaultBodies()
}

// houseSystem resolves the --house-system flag, falling back to config.
func (e *engine) houseSystem(cmd *cobra.Command) (houses.System, error) {
	name := e.cfg.HouseSystem
	if v, _ := cmd.Flags().GetString("house-system"); v != "" {
		name = v
	}
	return houses.FromName(name)
}

// resolve runs the temporal resolver on the spec, emitting telemetry and
// warnings along the way.
func (e *engine) resolve(spec temporal.Spec) (temporal.ResolvedInstant, error) {
	resolved, err := e.resolver.Resolve(spec)
	if err != nil {
		return temporal.ResolvedInstant{}, err
	}
	e.emitter.Emit(telemetry.KindResolved, map[string]any{
		"utc":       resolved.UTC,
		"latitude":  resolved.Place.Latitude,
		"longitude": resolved.Place.Longitude,
	})
	for _, w := range resolved.Warnings {
		e.emitter.Emit(telemetry.KindWarning, map[string]any{"warning": w})
	}
	e.printer.Warnings(resolved.Warnings)
	return resolved, nil
}

// specFromFlags builds a temporal.Spec from the positional argument
// (profile name or "now") plus the explicit date/time/location flags.
func specFromFlags(cmd *cobra.Command, args []string) temporal.Spec {
	spec := temporal.Spec{}
	if len(args) > 0 {
		if temporal.IsProfileRef(args[0]) || args[0] == "now" {
			spec.Profile = args[0]
		} else {
			spec.Date = args[0]
		}
	}
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		spec.Date = v
	}
	if v, _ := cmd.Flags().GetString("time"); v != "" {
		spec.Time = v
	}
	if v, _ := cmd.Flags().GetString("timezone"); v != "" {
		spec.Timezone = v
	}
	if cmd.Flags().Changed("lat") {
		v, _ := cmd.Flags().GetFloat64("lat")
		spec.Latitude = &v
	}
	if cmd.Flags().Changed("lon") {
		v, _ := cmd.Flags().GetFloat64("lon")
		spec.Longitude = &v
	}
	if v, _ := cmd.Flags().GetString("place"); v != "" {
		spec.Place = v
	}
	return spec
}

// addInstantFlags registers the shared date/time/location flag set.
func addInstantFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "date (YYYY-MM-DD, or 'now')")
	cmd.Flags().String("time", "", "local wall-clock time (HH:MM or HH:MM:SS)")
	cmd.Flags().String("timezone", "", "IANA timezone (e.g. Asia/Kolkata); empty means UTC")
	cmd.Flags().Float64("lat", 0, "latitude in decimal degrees, north positive")
	cmd.Flags().Float64("lon", 0, "longitude in decimal degrees, east positive")
	cmd.Flags().String("place", "", "display label for the location")
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
