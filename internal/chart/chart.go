// Package chart derives chart-level artifacts from raw ephemeris output:
// per-body sign, in-sign degree, and retrograde state, plus the four chart
// angles and the house cusps for one system. Raw numbers cross this boundary
// exactly once; everything downstream sees normalized, derived values.
package chart

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/zodiac"
)

// BodyPosition is one body's derived placement. Longitude is normalized to
// [0,360); Sign and DegreeInSign are derived from it. Retrograde is daily
// speed below zero — for the Sun this is false by construction, since its
// apparent geocentric motion is always prograde.
type BodyPosition struct {
	Body         ephemeris.Body
	Name         string
	Longitude    float64
	Latitude     float64
	Distance     float64
	Speed        float64
	Retrograde   bool
	Sign         zodiac.Sign
	DegreeInSign float64
}

// Angles are the four chart angles. Descendant and ImumCoeli are derived:
// exactly Ascendant+180 and Midheaven+180 modulo 360.
type Angles struct {
	Ascendant  float64
	Midheaven  float64
	Descendant float64
	ImumCoeli  float64
}

// HouseCusps is one system's twelve cusp longitudes, normalized, index 0 =
// house 1.
type HouseCusps struct {
	System ephemeris.HouseSystem
	Cusps  [12]float64
}

// Chart is the structured result handed to any display layer.
type Chart struct {
	Timestamp time.Time
	Place     ephemeris.Coordinates
	Bodies    []BodyPosition
	Angles    Angles
	Houses    HouseCusps
	Warnings  []string
}

// Body returns the position for one body, or false if the chart does not
// include it.
func (c *Chart) Body(b ephemeris.Body) (BodyPosition, bool) {
	for _, p := range c.Bodies {
		if p.Body == b {
			return p, true
		}
	}
	return BodyPosition{}, false
}

// IntegrityError reports raw provider output that violates a structural
// invariant (a broken derived angle, cusps that do not walk the circle).
// This is a provider-integration defect: the chart is wrong, and silently
// correcting it would hide the defect, so assembly fails instead.
type IntegrityError struct {
	System ephemeris.HouseSystem
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("house system %s: provider integrity violation: %s", e.System, e.Detail)
}

// Assembler computes charts through an ephemeris provider. Calls are
// sequential; a chart needs at most a dozen provider calls and nothing in a
// single invocation benefits from overlapping them.
type Assembler struct {
	Provider ephemeris.Provider
}

// Assemble computes the chart for one UTC instant and location.
func (a *Assembler) Assemble(ctx context.Context, utc time.Time, at ephemeris.Coordinates, bodies []ephemeris.Body, system ephemeris.HouseSystem) (*Chart, error) {
	if len(bodies) == 0 {
		bodies = ephemeris.DefaultBodies()
	}

	chart := &Chart{
		Timestamp: utc.UTC(),
		Place:     at,
		Bodies:    make([]BodyPosition, 0, len(bodies)),
	}

	for _, b := range bodies {
		raw, err := a.Provider.BodyPosition(ctx, utc, at, b)
		if err != nil {
			return nil, err
		}
		chart.Bodies = append(chart.Bodies, derivePosition(b, raw))
	}

	raw, err := a.Provider.Houses(ctx, utc, at, system)
	if err != nil {
		return nil, err
	}

	houses, angles, err := deriveHouses(system, raw)
	if err != nil {
		return nil, err
	}
	chart.Houses = houses
	chart.Angles = angles
	return chart, nil
}

// derivePosition normalizes a raw position and derives sign, in-sign degree,
// and retrograde state.
func derivePosition(b ephemeris.Body, raw ephemeris.RawPosition) BodyPosition {
	lon := zodiac.Normalize(raw.Longitude)
	return BodyPosition{
		Body:         b,
		Name:         b.String(),
		Longitude:    lon,
		Latitude:     raw.Latitude,
		Distance:     raw.Distance,
		Speed:        raw.Speed,
		Retrograde:   raw.Speed < 0,
		Sign:         zodiac.SignOf(lon),
		DegreeInSign: zodiac.DegreeInSign(lon),
	}
}

// angleTolerance bounds floating-point drift when checking derived angles
// and the cusp walk. Anything larger than this is a real defect, not noise.
const angleTolerance = 1e-6

// deriveHouses normalizes raw cusps, derives the four angles, and enforces
// the structural invariants. The descendant and imum coeli are computed here
// rather than trusted from the provider, which makes their invariant hold
// exactly; the cusp walk is checked against the provider's own output.
func deriveHouses(system ephemeris.HouseSystem, raw ephemeris.RawHouses) (HouseCusps, Angles, error) {
	for i, c := range raw.Cusps {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return HouseCusps{}, Angles{}, &IntegrityError{System: system, Detail: fmt.Sprintf("cusp %d is not finite", i+1)}
		}
	}
	if math.IsNaN(raw.Ascendant) || math.IsNaN(raw.Midheaven) {
		return HouseCusps{}, Angles{}, &IntegrityError{System: system, Detail: "ascendant or midheaven is not finite"}
	}

	houses := HouseCusps{System: system}
	for i, c := range raw.Cusps {
		houses.Cusps[i] = zodiac.Normalize(c)
	}

	// Walking the cusps from house 1 must traverse the full circle once:
	// eleven forward steps plus the closing step sum to 360°. A violation
	// means the provider emitted cusps out of order (seen with degenerate
	// circumpolar semi-arcs) and the chart cannot be trusted.
	var total float64
	for i := 0; i < 12; i++ {
		next := houses.Cusps[(i+1)%12]
		step := zodiac.Normalize(next - houses.Cusps[i])
		if step == 0 && i < 11 {
			return HouseCusps{}, Angles{}, &IntegrityError{
				System: system,
				Detail: fmt.Sprintf("cusp %d and cusp %d coincide", i+1, i+2),
			}
		}
		total += step
	}
	if math.Abs(total-360) > angleTolerance {
		return HouseCusps{}, Angles{}, &IntegrityError{
			System: system,
			Detail: fmt.Sprintf("cusps do not walk the circle monotonically (closure %.6f°)", total),
		}
	}

	asc := zodiac.Normalize(raw.Ascendant)
	mc := zodiac.Normalize(raw.Midheaven)
	angles := Angles{
		Ascendant:  asc,
		Midheaven:  mc,
		Descendant: zodiac.Normalize(asc + 180),
		ImumCoeli:  zodiac.Normalize(mc + 180),
	}

	if math.Abs(zodiac.Normalize(angles.Descendant-angles.Ascendant)-180) > angleTolerance {
		return HouseCusps{}, Angles{}, &IntegrityError{System: system, Detail: "descendant is not opposite the ascendant"}
	}
	if math.Abs(zodiac.Normalize(angles.ImumCoeli-angles.Midheaven)-180) > angleTolerance {
		return HouseCusps{}, Angles{}, &IntegrityError{System: system, Detail: "imum coeli is not opposite the midheaven"}
	}

	return houses, angles, nil
}
