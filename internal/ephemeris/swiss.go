package ephemeris

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Swiss invokes the Swiss Ephemeris command-line engine (swetest). Each call
// builds an argument list, runs the binary, and parses its semicolon-gapped
// output. When EphePath is empty the engine falls back to its built-in
// analytic ephemeris, which needs no data files.
type Swiss struct {
	Path     string // swetest binary, e.g. "swetest"
	EphePath string // directory with ephemeris data files, optional
	Verbose  bool
}

// buildCommonArgs constructs the argument prefix shared by every invocation:
// ephemeris directory, UT date and time, semicolon gap, no header.
func (s *Swiss) buildCommonArgs(utc time.Time) []string {
	utc = utc.UTC().Round(time.Second)
	args := []string{}
	if s.EphePath != "" {
		args = append(args, "-edir"+s.EphePath)
	}
	args = append(args,
		fmt.Sprintf("-b%02d.%02d.%d", utc.Day(), int(utc.Month()), utc.Year()),
		fmt.Sprintf("-ut%02d:%02d:%02d", utc.Hour(), utc.Minute(), utc.Second()),
		"-g;",
		"-head",
	)
	return args
}

func (s *Swiss) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if s.Verbose {
		fmt.Fprintf(os.Stderr, "[swetest] running: %s %s\n", s.Path, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("swetest invocation failed: %w\nstderr: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// BodyPosition computes one body's geocentric ecliptic position. The
// coordinates are unused: swetest computes geocentric positions and the
// instant alone determines them.
func (s *Swiss) BodyPosition(ctx context.Context, utc time.Time, _ Coordinates, body Body) (RawPosition, error) {
	code := body.Code()
	if code == "" {
		return RawPosition{}, &ProviderError{Op: "body position", Err: fmt.Errorf("unknown body %v", body)}
	}

	args := append(s.buildCommonArgs(utc), "-p"+code, "-fPlbrs")
	out, err := s.run(ctx, args)
	if err != nil {
		return RawPosition{}, &ProviderError{Op: "body position", Err: err}
	}

	pos, err := parsePositionOutput(out)
	if err != nil {
		return RawPosition{}, &ProviderError{Op: "body position", Err: err}
	}
	return pos, nil
}

// Houses computes the twelve cusps plus ascendant and midheaven for one
// house system. Degenerate output at extreme latitudes (time-based systems
// are undefined for circumpolar ecliptic points beyond roughly ±66.5°) is
// passed through verbatim; the chart assembler decides what to accept.
func (s *Swiss) Houses(ctx context.Context, utc time.Time, at Coordinates, system HouseSystem) (RawHouses, error) {
	houseArg := fmt.Sprintf("-house%.6f,%.6f,%s", at.Longitude, at.Latitude, system)
	args := append(s.buildCommonArgs(utc), "-p", houseArg, "-fPl")
	out, err := s.run(ctx, args)
	if err != nil {
		return RawHouses{}, &ProviderError{Op: "houses", Err: err}
	}

	houses, err := parseHouseOutput(out)
	if err != nil {
		return RawHouses{}, &ProviderError{Op: "houses", Err: err}
	}
	return houses, nil
}

// Validate checks that the swetest binary is present and runnable.
func (s *Swiss) Validate() error {
	cmd := exec.Command(s.Path, "-b1.1.2000", "-ut12:00:00", "-p0", "-head")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("swetest not found at %q: %w", s.Path, err)
	}
	if s.Verbose {
		fmt.Fprintf(os.Stderr, "[swetest] probe: %s", string(out))
	}
	return nil
}

// parsePositionOutput parses a single -fPlbrs line of the form
// "Sun;349.9014212;0.0000002;0.9937323;0.9856762".
func parsePositionOutput(out string) (RawPosition, error) {
	line := firstDataLine(out)
	if line == "" {
		return RawPosition{}, fmt.Errorf("%w: empty output", ErrUnusableValue)
	}

	fields := strings.Split(line, ";")
	if len(fields) < 5 {
		return RawPosition{}, fmt.Errorf("%w: %d fields in %q", ErrUnusableValue, len(fields), line)
	}

	vals := make([]float64, 4)
	for i, f := range fields[1:5] {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return RawPosition{}, fmt.Errorf("%w: field %d of %q: %v", ErrUnusableValue, i+1, line, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return RawPosition{}, fmt.Errorf("%w: non-finite field %d in %q", ErrUnusableValue, i+1, line)
		}
		vals[i] = v
	}

	return RawPosition{
		Longitude: vals[0],
		Latitude:  vals[1],
		Distance:  vals[2],
		Speed:     vals[3],
	}, nil
}

// parseHouseOutput extracts the twelve "house N" lines and the Ascendant and
// MC lines from -house output. Extra rows (ARMC, Vertex, ...) are ignored.
func parseHouseOutput(out string) (RawHouses, error) {
	var houses RawHouses
	var seen [12]bool
	var haveAsc, haveMC bool

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 2 {
			continue
		}
		label := strings.TrimSpace(fields[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return RawHouses{}, fmt.Errorf("%w: non-finite value for %q", ErrUnusableValue, label)
		}

		switch {
		case strings.HasPrefix(label, "house "):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(label, "house ")))
			if err != nil || n < 1 || n > 12 {
				continue
			}
			houses.Cusps[n-1] = value
			seen[n-1] = true
		case label == "Ascendant":
			houses.Ascendant = value
			haveAsc = true
		case label == "MC":
			houses.Midheaven = value
			haveMC = true
		}
	}

	for i, ok := range seen {
		if !ok {
			return RawHouses{}, fmt.Errorf("%w: house %d missing from output", ErrUnusableValue, i+1)
		}
	}
	if !haveAsc || !haveMC {
		return RawHouses{}, fmt.Errorf("%w: Ascendant/MC missing from output", ErrUnusableValue)
	}
	return houses, nil
}

// firstDataLine returns the first non-empty line of engine output.
func firstDataLine(out string) string {
	for _, raw := range strings.Split(out, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			return line
		}
	}
	return ""
}
