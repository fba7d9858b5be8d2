// Package profile manages the saved birth-data catalog: a small TOML file
// holding named profiles (date, time, timezone, coordinates, label). The
// temporal resolver consumes it purely through lookup-by-name; nothing in
// the chart engine writes to it.
package profile

import (
	"fmt"
	"regexp"
	"strings"
)

// Profile is one saved birth or event record. Date and Time are local wall
// clock values; Timezone is an IANA identifier and may be empty for records
// saved before timezone support existed. UTCOffset is informational only —
// resolution always goes through the timezone database, never this field.
type Profile struct {
	Name      string  `toml:"name"`
	Date      string  `toml:"date"` // YYYY-MM-DD
	Time      string  `toml:"time"` // HH:MM:SS local
	Timezone  string  `toml:"timezone,omitempty"`
	UTCOffset string  `toml:"utc_offset,omitempty"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Label     string  `toml:"label,omitempty"`
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether s is usable as a profile name: alphanumeric,
// hyphen, underscore, and not the reserved word "now".
func ValidName(s string) bool {
	return s != "" && s != "now" && nameRe.MatchString(s)
}

// NotFoundError reports a lookup for a profile that does not exist. It
// carries the full list of known names so the caller can self-correct; that
// list is part of the contract, not decoration.
type NotFoundError struct {
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("profile %q not found (no profiles saved yet — use `stellium profile save`)", e.Name)
	}
	return fmt.Sprintf("profile %q not found; known profiles: %s", e.Name, strings.Join(e.Known, ", "))
}
