// Package moonphase derives the lunar phase from Sun and Moon ecliptic
// longitudes already computed for a chart. No ephemeris access happens here.
package moonphase

import (
	"fmt"
	"math"

	"github.com/astrangelo/stellium/internal/zodiac"
)

// Phase is one of the eight named lunar phases.
type Phase int

const (
	New Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	Full
	WaningGibbous
	LastQuarter
	WaningCrescent
)

var phaseNames = [8]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

var phaseGlyphs = [8]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

func (p Phase) String() string {
	if p < 0 || p > WaningCrescent {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Glyph returns the moon emoji for the phase.
func (p Phase) Glyph() string {
	if p < 0 || p > WaningCrescent {
		return "?"
	}
	return phaseGlyphs[p]
}

// cardinalTolerance widens the four cardinal phases: within this many
// degrees of 0/90/180/270 the cardinal name wins over the neighboring
// crescent or gibbous band, so a near-exact Full Moon is called Full.
const cardinalTolerance = 3.0

// Result is the derived lunar phase.
type Result struct {
	Separation   float64 // Moon minus Sun longitude, normalized to [0,360)
	Illumination float64 // percent, 0 at New, 100 at Full
	Phase        Phase
}

// Compute derives the phase from Sun and Moon ecliptic longitudes.
func Compute(sunLongitude, moonLongitude float64) Result {
	sep := zodiac.Normalize(moonLongitude - sunLongitude)
	return Result{
		Separation:   sep,
		Illumination: 50 * (1 - math.Cos(sep*math.Pi/180)),
		Phase:        phaseAt(sep),
	}
}

// phaseAt assigns the name from eight 45°-wide bands centered on the
// canonical angles, with the cardinal tolerance applied first.
func phaseAt(sep float64) Phase {
	cardinals := [...]struct {
		angle float64
		phase Phase
	}{
		{0, New}, {90, FirstQuarter}, {180, Full}, {270, LastQuarter}, {360, New},
	}
	for _, c := range cardinals {
		if math.Abs(sep-c.angle) <= cardinalTolerance {
			return c.phase
		}
	}
	return Phase(int(math.Mod(sep+22.5, 360) / 45))
}
