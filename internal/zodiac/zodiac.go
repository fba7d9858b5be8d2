// Package zodiac provides the shared angular math for the chart engine:
// longitude normalization, sign mapping, and degree formatting. Every
// component that touches an ecliptic longitude goes through these helpers
// rather than reimplementing them locally.
package zodiac

import (
	"fmt"
	"math"
)

// Sign is one of the twelve 30-degree segments of the ecliptic, indexed from
// Aries at 0° through Pisces ending at 360°.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signGlyphs = [12]string{
	"♈", "♉", "♊", "♋", "♌", "♍", "♎", "♏", "♐", "♑", "♒", "♓",
}

func (s Sign) String() string {
	if s < 0 || s > Pisces {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// Glyph returns the astrological symbol for the sign.
func (s Sign) Glyph() string {
	if s < 0 || s > Pisces {
		return "?"
	}
	return signGlyphs[s]
}

// Normalize maps any longitude onto [0, 360). It is idempotent and handles
// arbitrarily negative and arbitrarily large inputs.
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// SignOf returns the sign containing the given ecliptic longitude.
func SignOf(longitude float64) Sign {
	return Sign(int(Normalize(longitude) / 30))
}

// DegreeInSign returns the position within its sign, in [0, 30).
func DegreeInSign(longitude float64) float64 {
	return math.Mod(Normalize(longitude), 30)
}

// DMS splits a degree value into whole degrees, minutes, and seconds.
// The input must already be non-negative; callers normalize first.
func DMS(deg float64) (d, m, s int) {
	total := int(math.Round(deg * 3600))
	return total / 3600, (total / 60) % 60, total % 60
}

// FormatLongitude renders a longitude as in-sign degrees/minutes/seconds with
// the sign name, e.g. `20°02'48" Virgo`. This is the single formatting path
// for every display surface.
func FormatLongitude(longitude float64) string {
	sign := SignOf(longitude)
	d, m, s := DMS(DegreeInSign(longitude))
	// Rounding can carry 29°59'59.9" over the sign boundary.
	if d >= 30 {
		d = 0
		sign = (sign + 1) % 12
	}
	return fmt.Sprintf("%2d°%02d'%02d\" %s", d, m, s, sign)
}

// FormatDegree renders a raw angle without sign attribution, e.g. `170°02'48"`.
func FormatDegree(deg float64) string {
	d, m, s := DMS(Normalize(deg))
	if d >= 360 {
		d = 0
	}
	return fmt.Sprintf("%d°%02d'%02d\"", d, m, s)
}
