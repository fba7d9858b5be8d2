// Package ui renders computed charts as plain terminal text. It consumes the
// structured results only; nothing here computes or corrects a single degree.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/astrangelo/stellium/internal/chart"
	"github.com/astrangelo/stellium/internal/ephemeris"
	"github.com/astrangelo/stellium/internal/houses"
	"github.com/astrangelo/stellium/internal/moonphase"
	"github.com/astrangelo/stellium/internal/progression"
	"github.com/astrangelo/stellium/internal/zodiac"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

// Printer renders results to Out and warnings to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

func New() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// Header prints the chart context line: title, instant, and place.
func (p *Printer) Header(title string, c *chart.Chart) {
	fmt.Fprintf(p.Out, "\n%s%s── %s ──%s\n", bold, cyan, title, reset)
	fmt.Fprintf(p.Out, "%s%s UTC", dim, c.Timestamp.Format("2006-01-02 15:04:05"))
	if c.Place.Name != "" {
		fmt.Fprintf(p.Out, " · %s", c.Place.Name)
	}
	fmt.Fprintf(p.Out, " · %.4f°, %.4f°%s\n\n", c.Place.Latitude, c.Place.Longitude, reset)
}

// Chart renders the body table, angles, and house cusps.
func (p *Printer) Chart(c *chart.Chart) {
	for _, b := range c.Bodies {
		retro := "  "
		if b.Retrograde {
			retro = red + " ℞" + reset
		}
		fmt.Fprintf(p.Out, "  %s %-10s %s%s\n", b.Sign.Glyph(), b.Name, zodiac.FormatLongitude(b.Longitude), retro)
	}

	fmt.Fprintf(p.Out, "\n%sAngles%s\n", bold, reset)
	fmt.Fprintf(p.Out, "  %-12s %s\n", "Ascendant", zodiac.FormatLongitude(c.Angles.Ascendant))
	fmt.Fprintf(p.Out, "  %-12s %s\n", "Midheaven", zodiac.FormatLongitude(c.Angles.Midheaven))
	fmt.Fprintf(p.Out, "  %-12s %s\n", "Descendant", zodiac.FormatLongitude(c.Angles.Descendant))
	fmt.Fprintf(p.Out, "  %-12s %s\n", "Imum Coeli", zodiac.FormatLongitude(c.Angles.ImumCoeli))

	fmt.Fprintf(p.Out, "\n%sHouses (%s)%s\n", bold, systemName(c.Houses.System), reset)
	for i, cusp := range c.Houses.Cusps {
		fmt.Fprintf(p.Out, "  %2d  %s\n", i+1, zodiac.FormatLongitude(cusp))
	}
}

// Comparison renders N house systems side by side, aligned by house index.
func (p *Printer) Comparison(c *houses.Comparison) {
	fmt.Fprintf(p.Out, "\n%s%s── house system comparison ──%s\n", bold, cyan, reset)
	fmt.Fprintf(p.Out, "%s%s UTC · %.4f°, %.4f°%s\n\n",
		dim, c.Timestamp.Format("2006-01-02 15:04:05"), c.Place.Latitude, c.Place.Longitude, reset)

	fmt.Fprintf(p.Out, "  %-4s", "")
	for _, s := range c.Systems {
		fmt.Fprintf(p.Out, "%-22s", s.System.Name)
	}
	fmt.Fprintln(p.Out)

	for house := 1; house <= 12; house++ {
		fmt.Fprintf(p.Out, "  %-4d", house)
		for _, cusp := range c.Row(house) {
			fmt.Fprintf(p.Out, "%-22s", zodiac.FormatLongitude(cusp))
		}
		fmt.Fprintln(p.Out)
	}

	fmt.Fprintf(p.Out, "\n  %sAscendant %s · Midheaven %s%s\n",
		dim, zodiac.FormatDegree(c.Angles.Ascendant), zodiac.FormatDegree(c.Angles.Midheaven), reset)
}

// Moon renders a lunar phase result.
func (p *Printer) Moon(r moonphase.Result) {
	fmt.Fprintf(p.Out, "\n  %s %s%s%s\n", r.Phase.Glyph(), bold, r.Phase, reset)
	fmt.Fprintf(p.Out, "  illumination %.1f%% · sun–moon separation %s\n",
		r.Illumination, zodiac.FormatDegree(r.Separation))
}

// Progression renders the age mapping followed by both charts.
func (p *Printer) Progression(o *progression.Outcome) {
	fmt.Fprintf(p.Out, "\n%s%s── secondary progression ──%s\n", bold, magenta, reset)
	fmt.Fprintf(p.Out, "  age %.4f years → %.4f ephemeris days\n", o.Result.AgeYears, o.Result.AgeDays)
	fmt.Fprintf(p.Out, "  birth      %s UTC\n", o.Result.Birth.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.Out, "  target     %s UTC\n", o.Result.Target.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.Out, "  progressed %s UTC\n", o.Result.Progressed.Format("2006-01-02 15:04:05"))

	p.Header("natal", o.Natal)
	p.Chart(o.Natal)
	p.Header("progressed", o.Progressed)
	p.Chart(o.Progressed)
}

// Warnings prints accumulated non-fatal warnings to the error stream, so a
// successful chart and its caveats never interleave in piped output.
func (p *Printer) Warnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(p.Err, "%s⚠ %s%s\n", yellow, w, reset)
	}
}

func systemName(code ephemeris.HouseSystem) string {
	for _, s := range houses.Supported() {
		if s.Code == code {
			return s.Name
		}
	}
	return string(code)
}
