package temporal

import (
	"fmt"
	"time"

	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/profile"
)

// Resolver turns a Spec into a ResolvedInstant. Profiles come from the
// store; Now is injectable for tests and defaults to time.Now.
type Resolver struct {
	Profiles *profile.Store
	Now      func() time.Time
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve classifies the spec and produces the canonical UTC instant and
// coordinates. Fatal outcomes are profile.NotFoundError and
// *ValidationError; non-fatal ones accumulate as warnings on the result.
func (r *Resolver) Resolve(spec Spec) (ResolvedInstant, error) {
	if spec.Profile != "" && spec.Profile != "now" {
		return r.resolveProfile(spec.Profile)
	}
	if spec.Profile == "now" || spec.Date == "now" {
		return r.resolveNow(spec)
	}
	return r.resolveExplicit(spec)
}

func (r *Resolver) resolveProfile(name string) (ResolvedInstant, error) {
	p, err := r.Profiles.Lookup(name)
	if err != nil {
		return ResolvedInstant{}, err
	}

	if err := ValidateCoordinates(p.Latitude, p.Longitude); err != nil {
		return ResolvedInstant{}, fmt.Errorf("profile %q: %w", name, err)
	}

	zone := AssumedUTC()
	if p.Timezone != "" {
		zone = NamedZone(p.Timezone)
	}
	utc, warning, err := zone.Convert(p.Date, p.Time)
	if err != nil {
		return ResolvedInstant{}, fmt.Errorf("profile %q: %w", name, err)
	}

	res := ResolvedInstant{
		UTC: utc,
		Place: ephemeris.Coordinates{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Name:      p.Label,
		},
	}
	if warning != "" {
		res.Warnings = append(res.Warnings, fmt.Sprintf("profile %q: %s", name, warning))
	}
	return res, nil
}

func (r *Resolver) resolveNow(spec Spec) (ResolvedInstant, error) {
	place, err := requireCoordinates(spec)
	if err != nil {
		return ResolvedInstant{}, err
	}
	return ResolvedInstant{UTC: r.now().UTC(), Place: place}, nil
}

func (r *Resolver) resolveExplicit(spec Spec) (ResolvedInstant, error) {
	if spec.Date == "" {
		return ResolvedInstant{}, &ValidationError{Field: "date", Reason: "required (YYYY-MM-DD, or \"now\")"}
	}
	if spec.Time == "" {
		return ResolvedInstant{}, &ValidationError{Field: "time", Reason: "required (HH:MM:SS)"}
	}
	place, err := requireCoordinates(spec)
	if err != nil {
		return ResolvedInstant{}, err
	}

	// Without an explicit timezone the given time IS UTC. Never the ambient
	// system zone: that substitution silently shifts the instant by the
	// machine's offset and with it every computed angle.
	zone := UTCZone()
	if spec.Timezone != "" {
		zone = NamedZone(spec.Timezone)
	}
	utc, _, err := zone.Convert(spec.Date, spec.Time)
	if err != nil {
		return ResolvedInstant{}, err
	}
	return ResolvedInstant{UTC: utc, Place: place}, nil
}

func requireCoordinates(spec Spec) (ephemeris.Coordinates, error) {
	if spec.Latitude == nil {
		return ephemeris.Coordinates{}, &ValidationError{Field: "latitude", Reason: "required (decimal degrees, -90..90)"}
	}
	if spec.Longitude == nil {
		return ephemeris.Coordinates{}, &ValidationError{Field: "longitude", Reason: "required (decimal degrees, -180..180)"}
	}
	if err := ValidateCoordinates(*spec.Latitude, *spec.Longitude); err != nil {
		return ephemeris.Coordinates{}, err
	}
	return ephemeris.Coordinates{
		Latitude:  *spec.Latitude,
		Longitude: *spec.Longitude,
		Name:      spec.Place,
	}, nil
}
