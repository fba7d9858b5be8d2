// Package progression implements secondary progressions under the
// day-for-a-year rule: one day of ephemeris motion after birth stands for
// one year of life. Both entry points — a target age, or a target calendar
// instant — reduce to the same fractional age, so they agree with each other
// by construction.
package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/ephemeris"
)

// ErrNegativeAge reports a target before birth. Not silently negated: a
// progression backwards in life is a caller mistake.
var ErrNegativeAge = errors.New("target age is negative (target predates birth)")

// Result records one progression mapping. The invariant Progressed =
// Birth + AgeDays days holds exactly, and AgeDays equals AgeYears under the
// day-for-a-year rule.
type Result struct {
	Birth      time.Time
	Target     time.Time
	Progressed time.Time
	AgeYears   float64
	AgeDays    float64
}

// ByAge maps a fractional age in years to a progressed instant. Age 0 is
// valid and yields the birth instant exactly.
func ByAge(birth time.Time, years float64) (Result, error) {
	if years < 0 {
		return Result{}, fmt.Errorf("%w: %g", ErrNegativeAge, years)
	}
	birth = birth.UTC()
	return Result{
		Birth:      birth,
		Target:     addYears(birth, years),
		Progressed: addDays(birth, years),
		AgeYears:   years,
		AgeDays:    years,
	}, nil
}

// ByTarget computes the exact fractional age at a target calendar instant
// and then progresses identically to ByAge. The age uses calendar-correct
// year lengths (anniversary to anniversary), never a fixed 365.25 — mixing
// the two methods produces small errors that compound over decades.
func ByTarget(birth, target time.Time) (Result, error) {
	birth, target = birth.UTC(), target.UTC()
	if target.Before(birth) {
		return Result{}, fmt.Errorf("%w: target %s precedes birth %s",
			ErrNegativeAge, target.Format(time.RFC3339), birth.Format(time.RFC3339))
	}
	years := yearsBetween(birth, target)
	return Result{
		Birth:      birth,
		Target:     target,
		Progressed: addDays(birth, years),
		AgeYears:   years,
		AgeDays:    years,
	}, nil
}

// addDays advances by a fractional day count: whole days through calendar
// arithmetic, the remainder as a duration. In UTC a calendar day is uniform,
// but AddDate keeps the whole-day part exact across leap days instead of
// accumulating float error in one big multiply.
func addDays(t time.Time, days float64) time.Time {
	whole := int(math.Trunc(days))
	frac := days - float64(whole)
	return t.AddDate(0, 0, whole).Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// addYears advances by a fractional year count, calendar-correct: whole
// years land on the anniversary, and the fraction scales by that specific
// year's true length (365 or 366 days).
func addYears(t time.Time, years float64) time.Time {
	whole := int(math.Trunc(years))
	frac := years - float64(whole)
	ann := t.AddDate(whole, 0, 0)
	next := t.AddDate(whole+1, 0, 0)
	return ann.Add(time.Duration(frac * float64(next.Sub(ann))))
}

// yearsBetween returns the exact fractional year distance from birth to
// target: whole anniversaries passed, plus the elapsed fraction of the
// current anniversary year.
func yearsBetween(birth, target time.Time) float64 {
	years := target.Year() - birth.Year()
	ann := birth.AddDate(years, 0, 0)
	if ann.After(target) {
		years--
		ann = birth.AddDate(years, 0, 0)
	}
	next := birth.AddDate(years+1, 0, 0)
	frac := float64(target.Sub(ann)) / float64(next.Sub(ann))
	return float64(years) + frac
}

// Outcome bundles a progression with its natal and progressed charts.
type Outcome struct {
	Result     Result
	Natal      *chart.Chart
	Progressed *chart.Chart
}

// Calculator assembles natal and progressed charts for a progression.
type Calculator struct {
	Assembler *chart.Assembler
}

// Charts computes the natal chart at the birth instant and the progressed
// chart at the progressed instant. Both use the birth location: progressed
// charts are cast at natal coordinates by convention, and feeding in the
// subject's current location would be a correctness bug, not a preference.
func (c *Calculator) Charts(ctx context.Context, res Result, birthPlace ephemeris.Coordinates, bodies []ephemeris.Body, system ephemeris.HouseSystem) (*Outcome, error) {
	natal, err := c.Assembler.Assemble(ctx, res.Birth, birthPlace, bodies, system)
	if err != nil {
		return nil, fmt.Errorf("natal chart: %w", err)
	}
	progressed, err := c.Assembler.Assemble(ctx, res.Progressed, birthPlace, bodies, system)
	if err != nil {
		return nil, fmt.Errorf("progressed chart: %w", err)
	}
	return &Outcome{Result: res, Natal: natal, Progressed: progressed}, nil
}
