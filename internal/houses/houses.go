// Package houses enumerates the supported house systems and provides the
// side-by-side comparison mode. No cusp algorithm lives here — every system
// is an opaque code handed to the ephemeris engine.
//
// Known limitation: time-based systems (Placidus, Koch) are mathematically
// undefined for ecliptic points that are circumpolar at extreme latitudes,
// beyond roughly ±66.5°. The engine's output for such charts — including
// degenerate 0°/180° semi-arc cases — is passed through verbatim rather than
// corrected; the chart assembler's integrity checks are the only gate.
package houses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/ephemeris"
)

// System pairs an engine code with its display name.
type System struct {
	Code ephemeris.HouseSystem
	Name string
}

// supported lists every house system this engine knows, in display order.
var supported = []System{
	{ephemeris.Placidus, "Placidus"},
	{ephemeris.Koch, "Koch"},
	{ephemeris.Equal, "Equal"},
	{ephemeris.WholeSign, "Whole Sign"},
	{ephemeris.Porphyrius, "Porphyrius"},
	{ephemeris.Regiomontanus, "Regiomontanus"},
	{ephemeris.Campanus, "Campanus"},
	{ephemeris.Meridian, "Meridian"},
	{ephemeris.Morinus, "Morinus"},
	{ephemeris.Alcabitus, "Alcabitus"},
}

// Supported returns all known systems in display order.
func Supported() []System {
	return append([]System(nil), supported...)
}

// FromName resolves a system by display name (case-insensitive, spaces and
// hyphens interchangeable) or by its single-letter engine code.
func FromName(name string) (System, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(name, "-", ""), " ", ""))
	for _, s := range supported {
		if strings.ToLower(strings.ReplaceAll(s.Name, " ", "")) == norm {
			return s, nil
		}
		if strings.EqualFold(string(s.Code), name) {
			return s, nil
		}
	}
	known := make([]string, len(supported))
	for i, s := range supported {
		known[i] = s.Name
	}
	return System{}, fmt.Errorf("unknown house system %q; supported: %s", name, strings.Join(known, ", "))
}

// Comparison holds cusps for several systems at one instant and location,
// aligned by house index for side-by-side presentation.
type Comparison struct {
	Timestamp time.Time
	Place     ephemeris.Coordinates
	Angles    chart.Angles
	Systems   []SystemCusps
}

// SystemCusps is one column of a comparison.
type SystemCusps struct {
	System System
	Cusps  [12]float64
}

// Row returns the cusp longitude of the given house (1-based) under each
// system, in the comparison's system order.
func (c *Comparison) Row(house int) []float64 {
	out := make([]float64, len(c.Systems))
	for i, s := range c.Systems {
		out[i] = s.Cusps[house-1]
	}
	return out
}

// Engine computes multi-system comparisons through the chart assembler so
// every set of cusps passes the same integrity checks a single-system chart
// would.
type Engine struct {
	Assembler *chart.Assembler
}

// Compare computes cusps under each requested system for one instant and
// location. Systems are computed sequentially; a failure in any system is
// fatal for the comparison.
func (e *Engine) Compare(ctx context.Context, utc time.Time, at ephemeris.Coordinates, systems []System) (*Comparison, error) {
	if len(systems) == 0 {
		systems = Supported()
	}

	cmp := &Comparison{
		Timestamp: utc.UTC(),
		Place:     at,
		Systems:   make([]SystemCusps, 0, len(systems)),
	}

	for i, sys := range systems {
		// The body set is irrelevant for cusps; request just the Sun to keep
		// the provider traffic minimal.
		ch, err := e.Assembler.Assemble(ctx, utc, at, []ephemeris.Body{ephemeris.Sun}, sys.Code)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", sys.Name, err)
		}
		if i == 0 {
			cmp.Angles = ch.Angles
		}
		cmp.Systems = append(cmp.Systems, SystemCusps{System: sys, Cusps: ch.Houses.Cusps})
	}
	return cmp, nil
}
