package progression

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/ephemeris"
)

var birth = time.Date(1990, 3, 10, 7, 25, 0, 0, time.UTC)

func TestByAge_Zero(t *testing.T) {
	t.Parallel()

	res, err := ByAge(birth, 0)
	if err != nil {
		t.Fatalf("ByAge(0): %v", err)
	}
	if !res.Progressed.Equal(birth) {
		t.Errorf("Progressed = %v, want birth instant exactly", res.Progressed)
	}
	if res.AgeYears != 0 || res.AgeDays != 0 {
		t.Errorf("AgeYears = %v, AgeDays = %v, want 0", res.AgeYears, res.AgeDays)
	}
}

func TestByAge_WholeYears(t *testing.T) {
	t.Parallel()

	res, err := ByAge(birth, 33)
	if err != nil {
		t.Fatal(err)
	}

	// 33 days of ephemeris motion: March 10 + 33 days = April 12.
	want := time.Date(1990, 4, 12, 7, 25, 0, 0, time.UTC)
	if !res.Progressed.Equal(want) {
		t.Errorf("Progressed = %v, want %v", res.Progressed, want)
	}
	// The target is the 33rd birthday.
	if got := res.Target; got.Year() != 2023 || got.Month() != 3 || got.Day() != 10 {
		t.Errorf("Target = %v, want 33rd anniversary", got)
	}
}

func TestByAge_FractionalDays(t *testing.T) {
	t.Parallel()

	res, err := ByAge(birth, 10.5)
	if err != nil {
		t.Fatal(err)
	}
	want := birth.AddDate(0, 0, 10).Add(12 * time.Hour)
	if !res.Progressed.Equal(want) {
		t.Errorf("Progressed = %v, want %v", res.Progressed, want)
	}
}

func TestByAge_Negative(t *testing.T) {
	t.Parallel()

	_, err := ByAge(birth, -1)
	if !errors.Is(err, ErrNegativeAge) {
		t.Errorf("err = %v, want ErrNegativeAge", err)
	}
}

func TestByTarget_BeforeBirth(t *testing.T) {
	t.Parallel()

	_, err := ByTarget(birth, birth.AddDate(-1, 0, 0))
	if !errors.Is(err, ErrNegativeAge) {
		t.Errorf("err = %v, want ErrNegativeAge, not a silently negated age", err)
	}
}

func TestByTarget_ExactAnniversary(t *testing.T) {
	t.Parallel()

	res, err := ByTarget(birth, birth.AddDate(30, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.AgeYears-30) > 1e-12 {
		t.Errorf("AgeYears = %v, want exactly 30", res.AgeYears)
	}
}

// The consistency property: for a fixed age, the age entry point and the
// target entry point must yield the same progressed instant.
func TestConsistency_AgeVsTarget(t *testing.T) {
	t.Parallel()

	for _, age := range []float64{0, 0.25, 1, 7.8, 33.416, 64.99} {
		byAge, err := ByAge(birth, age)
		if err != nil {
			t.Fatalf("ByAge(%v): %v", age, err)
		}
		byTarget, err := ByTarget(birth, byAge.Target)
		if err != nil {
			t.Fatalf("ByTarget(age %v): %v", age, err)
		}

		diff := byAge.Progressed.Sub(byTarget.Progressed)
		if diff < 0 {
			diff = -diff
		}
		// A fraction of a day of tolerance; in practice they agree to the
		// nanosecond because both paths share addDays.
		if diff > time.Minute {
			t.Errorf("age %v: progressed instants differ by %v (%v vs %v)",
				age, diff, byAge.Progressed, byTarget.Progressed)
		}
	}
}

// Leap years: a birth on 1991-03-01 has anniversary years of 365 and 366
// days. The halfway point of a specific anniversary year must come out as
// exactly .5, which a fixed-365.25 divisor cannot deliver.
func TestYearsBetween_LeapAware(t *testing.T) {
	t.Parallel()

	b := time.Date(1991, 3, 1, 0, 0, 0, 0, time.UTC)
	ann9 := b.AddDate(9, 0, 0)   // 2000-03-01
	ann10 := b.AddDate(10, 0, 0) // 2001-03-01
	mid := ann9.Add(ann10.Sub(ann9) / 2)

	res, err := ByTarget(b, mid)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.AgeYears-9.5) > 1e-12 {
		t.Errorf("AgeYears = %v, want exactly 9.5", res.AgeYears)
	}
}

// progressionProvider returns positions that depend on the instant, so the
// natal and progressed charts are distinguishable.
type progressionProvider struct{}

func (progressionProvider) BodyPosition(_ context.Context, utc time.Time, _ ephemeris.Coordinates, b ephemeris.Body) (ephemeris.RawPosition, error) {
	days := utc.Sub(birth).Hours() / 24
	return ephemeris.RawPosition{Longitude: float64(int(b)*30) + days, Speed: 1}, nil
}

func (progressionProvider) Houses(_ context.Context, utc time.Time, at ephemeris.Coordinates, _ ephemeris.HouseSystem) (ephemeris.RawHouses, error) {
	var h ephemeris.RawHouses
	base := utc.Sub(birth).Hours()/24 + at.Longitude
	for i := range h.Cusps {
		h.Cusps[i] = base + float64(i*30)
	}
	h.Ascendant = base
	h.Midheaven = base + 270
	return h, nil
}

func TestCharts_AgeZeroIdentity(t *testing.T) {
	t.Parallel()

	calc := &Calculator{Assembler: &chart.Assembler{Provider: progressionProvider{}}}
	res, err := ByAge(birth, 0)
	if err != nil {
		t.Fatal(err)
	}

	out, err := calc.Charts(context.Background(), res,
		ephemeris.Coordinates{Latitude: 15.83, Longitude: 78.04},
		[]ephemeris.Body{ephemeris.Sun, ephemeris.Moon}, ephemeris.Placidus)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(out.Natal, out.Progressed); diff != "" {
		t.Errorf("age-zero progressed chart differs from natal (-natal +progressed):\n%s", diff)
	}
}

func TestCharts_UsesBirthLocation(t *testing.T) {
	t.Parallel()

	calc := &Calculator{Assembler: &chart.Assembler{Provider: progressionProvider{}}}
	res, err := ByAge(birth, 30)
	if err != nil {
		t.Fatal(err)
	}

	birthPlace := ephemeris.Coordinates{Latitude: 15.83, Longitude: 78.04, Name: "Kurnool"}
	out, err := calc.Charts(context.Background(), res, birthPlace,
		[]ephemeris.Body{ephemeris.Sun}, ephemeris.Placidus)
	if err != nil {
		t.Fatal(err)
	}

	if out.Progressed.Place != birthPlace {
		t.Errorf("progressed chart cast at %+v, want the birth location %+v", out.Progressed.Place, birthPlace)
	}
	if out.Natal.Timestamp.Equal(out.Progressed.Timestamp) {
		t.Error("progressed chart timestamp should differ from natal at age 30")
	}
}
