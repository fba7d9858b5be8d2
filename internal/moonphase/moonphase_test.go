package moonphase

import (
	"math"
	"testing"
)

func TestCompute_IlluminationBoundaries(t *testing.T) {
	t.Parallel()

	if got := Compute(100, 100).Illumination; math.Abs(got-0) > 1e-9 {
		t.Errorf("New Moon illumination = %v, want 0", got)
	}
	if got := Compute(100, 280).Illumination; math.Abs(got-100) > 1e-9 {
		t.Errorf("Full Moon illumination = %v, want 100", got)
	}
	if got := Compute(0, 90).Illumination; math.Abs(got-50) > 1e-9 {
		t.Errorf("First Quarter illumination = %v, want 50", got)
	}
}

func TestCompute_SeparationNormalized(t *testing.T) {
	t.Parallel()

	// Moon behind the Sun in longitude: separation wraps, never negative.
	r := Compute(350, 10)
	if math.Abs(r.Separation-20) > 1e-9 {
		t.Errorf("Separation = %v, want 20", r.Separation)
	}
	r = Compute(10, 350)
	if math.Abs(r.Separation-340) > 1e-9 {
		t.Errorf("Separation = %v, want 340", r.Separation)
	}
}

func TestPhaseAt_Bands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sep  float64
		want Phase
	}{
		{0, New},
		{30, WaxingCrescent},
		{90, FirstQuarter},
		{120, WaxingGibbous},
		{180, Full},
		{210, WaningGibbous},
		{270, LastQuarter},
		{300, WaningCrescent},
		{359, New},
	}
	for _, tt := range tests {
		if got := phaseAt(tt.sep); got != tt.want {
			t.Errorf("phaseAt(%v) = %v, want %v", tt.sep, got, tt.want)
		}
	}
}

// The cardinal tolerance: near-exact alignment takes the cardinal name even
// when a plain band assignment would agree, and more importantly the band
// edges around the cardinals never flap to a crescent/gibbous label.
func TestPhaseAt_CardinalTolerance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sep  float64
		want Phase
	}{
		{1.5, New},
		{358.7, New},
		{88.2, FirstQuarter},
		{92.9, FirstQuarter},
		{177.1, Full},
		{182.9, Full},
		{267.5, LastQuarter},
		{272.4, LastQuarter},
		// Band edges between the intermediate phases.
		{67, WaxingCrescent},
		{68, FirstQuarter},
		{203, WaningGibbous},
		{248, LastQuarter},
	}
	for _, tt := range tests {
		if got := phaseAt(tt.sep); got != tt.want {
			t.Errorf("phaseAt(%v) = %v, want %v", tt.sep, got, tt.want)
		}
	}
}

func TestPhaseNames(t *testing.T) {
	t.Parallel()

	if New.String() != "New Moon" || WaningCrescent.String() != "Waning Crescent" {
		t.Errorf("phase names wrong: %s, %s", New, WaningCrescent)
	}
	if Full.Glyph() != "🌕" {
		t.Errorf("Full glyph = %q", Full.Glyph())
	}
	if got := Phase(42).String(); got != "Phase(42)" {
		t.Errorf("out-of-range phase = %q", got)
	}
}
