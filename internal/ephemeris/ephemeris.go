// Package ephemeris defines the contract to the external ephemeris engine.
// The engine is a black box: given a UTC instant, geographic coordinates, and
// a body or house-system identifier, it returns raw ecliptic positions and
// cusp longitudes. Nothing in this package derives chart-level meaning from
// the raw numbers; that is the chart assembler's job.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Coordinates is a WGS84-style geographic position in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Body identifies a celestial body the engine can compute.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Chiron
	MeanNode
	TrueNode
	Lilith // mean lunar apogee
)

var bodyNames = map[Body]string{
	Sun:      "Sun",
	Moon:     "Moon",
	Mercury:  "Mercury",
	Venus:    "Venus",
	Mars:     "Mars",
	Jupiter:  "Jupiter",
	Saturn:   "Saturn",
	Uranus:   "Uranus",
	Neptune:  "Neptune",
	Pluto:    "Pluto",
	Chiron:   "Chiron",
	MeanNode: "Mean Node",
	TrueNode: "True Node",
	Lilith:   "Lilith",
}

// swetest single-character planet selectors.
var bodyCodes = map[Body]string{
	Sun:      "0",
	Moon:     "1",
	Mercury:  "2",
	Venus:    "3",
	Mars:     "4",
	Jupiter:  "5",
	Saturn:   "6",
	Uranus:   "7",
	Neptune:  "8",
	Pluto:    "9",
	Chiron:   "D",
	MeanNode: "m",
	TrueNode: "t",
	Lilith:   "A",
}

func (b Body) String() string {
	if n, ok := bodyNames[b]; ok {
		return n
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// Code returns the engine's selector character for the body.
func (b Body) Code() string {
	return bodyCodes[b]
}

// DefaultBodies is the standard chart body set, Sun through Pluto.
func DefaultBodies() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// ExtendedBodies appends Chiron, the lunar nodes, and the mean lunar apogee
// to the default set.
func ExtendedBodies() []Body {
	return append(DefaultBodies(), Chiron, MeanNode, TrueNode, Lilith)
}

// HouseSystem is the engine's opaque single-letter house system code. The
// engine owns the cusp algorithms; this package only names them.
type HouseSystem string

const (
	Placidus      HouseSystem = "P"
	Koch          HouseSystem = "K"
	Equal         HouseSystem = "A"
	WholeSign     HouseSystem = "W"
	Porphyrius    HouseSystem = "O"
	Regiomontanus HouseSystem = "R"
	Campanus      HouseSystem = "C"
	Meridian      HouseSystem = "X"
	Morinus       HouseSystem = "M"
	Alcabitus     HouseSystem = "B"
)

// RawPosition is the engine's output for one body: geocentric ecliptic
// longitude and latitude in degrees, distance in AU, and daily motion in
// degrees per day (negative while the body appears retrograde).
type RawPosition struct {
	Longitude float64
	Latitude  float64
	Distance  float64
	Speed     float64
}

// RawHouses is the engine's output for one house system: twelve cusp
// longitudes (index 0 = house 1) plus the ascendant and midheaven.
type RawHouses struct {
	Cusps     [12]float64
	Ascendant float64
	Midheaven float64
}

// Provider is the contract to the external ephemeris engine. Implementations
// receive UTC instants, never local time. Body positions are geocentric, so
// implementations may ignore the coordinates for BodyPosition; they are part
// of the contract so that topocentric engines can slot in unchanged.
type Provider interface {
	BodyPosition(ctx context.Context, utc time.Time, at Coordinates, body Body) (RawPosition, error)
	Houses(ctx context.Context, utc time.Time, at Coordinates, system HouseSystem) (RawHouses, error)
}

// ErrUnusableValue indicates the engine returned output this layer cannot
// accept (NaN, out-of-domain, truncated).
var ErrUnusableValue = errors.New("ephemeris engine returned unusable value")

// ProviderError wraps any failure of the external engine. Provider errors
// are fatal for the invocation and never retried: the computation is
// deterministic, so a retry on the same input cannot succeed differently.
type ProviderError struct {
	Op  string // "body position" or "houses"
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ephemeris %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
