// Package temporal converts heterogeneous input — a saved profile name, or an
// explicit date/time/timezone/coordinate set — into one unambiguous UTC
// instant plus location. All calendrical correctness lives here: historical
// timezone offsets, DST transitions, and the rule that unzoned input is
// always pinned to UTC rather than the machine's local timezone.
package temporal

import (
	"fmt"
	"time"

	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/profile"
)

// Spec is the raw, unresolved input to a chart computation. Exactly one of
// Profile or the explicit fields is used; Resolve classifies which.
type Spec struct {
	Profile string // saved profile name, or "now", or empty

	// Explicit fields, used when Profile is empty.
	Date      string // YYYY-MM-DD, or "now"
	Time      string // HH:MM:SS or HH:MM, wall clock
	Timezone  string // IANA identifier; empty means the time IS UTC
	Latitude  *float64
	Longitude *float64
	Place     string // display label, optional
}

// ResolvedInstant is the canonical output: a UTC instant, coordinates, and
// any non-fatal warnings accumulated during resolution. It is computed once
// per invocation and never mutated afterwards.
type ResolvedInstant struct {
	UTC      time.Time
	Place    ephemeris.Coordinates
	Warnings []string
}

// ValidationError reports malformed or out-of-range input. It always names
// the offending field and the expected shape.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Zone is a tagged variant describing how a wall-clock time maps to UTC:
// either a named IANA timezone, or the documented legacy fallback where the
// stored time is assumed to already be UTC. Modeling this as a closed type
// forces every consumer through Convert, so the assumed-UTC warning is
// generated in exactly one place.
type Zone struct {
	name    string
	assumed bool
}

// NamedZone returns a Zone backed by an IANA timezone identifier.
func NamedZone(id string) Zone { return Zone{name: id} }

// UTCZone returns a Zone for input that is UTC by definition (explicit
// command-line input without a timezone). No warning is attached.
func UTCZone() Zone { return Zone{name: "UTC"} }

// AssumedUTC returns the legacy-profile fallback Zone: the stored local time
// is treated as UTC and a warning is attached to the result. Old profiles
// without a timezone must keep resolving, so this is a warning, not an error.
func AssumedUTC() Zone { return Zone{assumed: true} }

// Convert maps a wall-clock date and time through the zone to UTC. For named
// zones the timezone database supplies the offset in effect at that specific
// date — a zone's offset decades ago is frequently not today's offset, and
// using the wrong one shifts every chart angle by hours of rotation.
func (z Zone) Convert(date, clock string) (utc time.Time, warning string, err error) {
	y, mo, d, err := parseDate(date)
	if err != nil {
		return time.Time{}, "", err
	}
	h, mi, s, err := parseClock(clock)
	if err != nil {
		return time.Time{}, "", err
	}

	if z.assumed {
		t := time.Date(y, mo, d, h, mi, s, 0, time.UTC)
		return t, "no timezone on record; local time treated as UTC", nil
	}

	loc, lerr := time.LoadLocation(z.name)
	if lerr != nil {
		return time.Time{}, "", &ValidationError{Field: "timezone", Value: z.name, Reason: "not a known IANA timezone identifier"}
	}
	return time.Date(y, mo, d, h, mi, s, 0, loc).UTC(), "", nil
}

func parseDate(s string) (y int, m time.Month, d int, err error) {
	// ParseInLocation with an explicit UTC location: date strings must never
	// pick up the invoking machine's timezone.
	t, perr := time.ParseInLocation("2006-01-02", s, time.UTC)
	if perr != nil {
		return 0, 0, 0, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return t.Year(), t.Month(), t.Day(), nil
}

func parseClock(s string) (h, m, sec int, err error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, perr := time.ParseInLocation(layout, s, time.UTC); perr == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, &ValidationError{Field: "time", Value: s, Reason: "expected HH:MM:SS or HH:MM"}
}

// IsProfileRef reports whether the primary argument should be treated as a
// saved profile name: a bare identifier that is not the literal "now" and
// not a parseable date.
func IsProfileRef(arg string) bool {
	if !profile.ValidName(arg) {
		return false
	}
	if _, _, _, err := parseDate(arg); err == nil {
		return false
	}
	return true
}

// ValidateCoordinates checks geographic ranges and names the offending field.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return &ValidationError{Field: "latitude", Value: fmt.Sprintf("%g", lat), Reason: "must be between -90 and 90"}
	}
	if lon < -180 || lon > 180 {
		return &ValidationError{Field: "longitude", Value: fmt.Sprintf("%g", lon), Reason: "must be between -180 and 180"}
	}
	return nil
}
