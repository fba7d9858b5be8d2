package zodiac

import (
	"math"
	"testing"
)

func TestNormalize_Range(t *testing.T) {
	t.Parallel()

	inputs := []float64{0, 359.999, 360, 360.5, 720, -0.5, -180, -360, -725.25, 1e6, -1e6}
	for _, in := range inputs {
		got := Normalize(in)
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%v) = %v, want value in [0,360)", in, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []float64{-1234.5, -0.001, 0, 29.999, 180, 359.999, 361, 54321.9}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %v: %v != %v", in, once, twice)
		}
	}
}

func TestNormalize_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-360, 0},
		{725, 5},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSignOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		longitude float64
		want      Sign
	}{
		{0, Aries},
		{29.999, Aries},
		{30, Taurus},
		{170.05, Virgo},
		{180, Libra},
		{359.999, Pisces},
		{-10, Pisces},  // wraps to 350
		{400, Taurus},  // wraps to 40
	}
	for _, tt := range tests {
		if got := SignOf(tt.longitude); got != tt.want {
			t.Errorf("SignOf(%v) = %v, want %v", tt.longitude, got, tt.want)
		}
	}
}

func TestDegreeInSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		longitude, want float64
	}{
		{0, 0},
		{15.5, 15.5},
		{30, 0},
		{170.05, 20.05},
		{-5, 25}, // wraps to 355 = 25° Pisces
	}
	for _, tt := range tests {
		got := DegreeInSign(tt.longitude)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DegreeInSign(%v) = %v, want %v", tt.longitude, got, tt.want)
		}
		if got < 0 || got >= 30 {
			t.Errorf("DegreeInSign(%v) = %v, want value in [0,30)", tt.longitude, got)
		}
	}
}

func TestFormatLongitude(t *testing.T) {
	t.Parallel()

	tests := []struct {
		longitude float64
		want      string
	}{
		{0, ` 0°00'00" Aries`},
		{170.0467, `20°02'48" Virgo`},
		{29.99999, ` 0°00'00" Taurus`}, // rounds across the sign boundary
	}
	for _, tt := range tests {
		if got := FormatLongitude(tt.longitude); got != tt.want {
			t.Errorf("FormatLongitude(%v) = %q, want %q", tt.longitude, got, tt.want)
		}
	}
}

func TestSignString(t *testing.T) {
	t.Parallel()

	if Aries.String() != "Aries" || Pisces.String() != "Pisces" {
		t.Errorf("sign names wrong: %s, %s", Aries, Pisces)
	}
	if got := Sign(99).String(); got != "Sign(99)" {
		t.Errorf("out-of-range sign = %q", got)
	}
	if Leo.Glyph() != "♌" {
		t.Errorf("Leo glyph = %q", Leo.Glyph())
	}
}
