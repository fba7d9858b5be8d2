// Package telemetry provides a JSONL event stream recording what each chart
// invocation did: how the instant was resolved, which engine calls ran, what
// warnings were attached. Runs become auditable after the fact — useful when
// a chart looks wrong and the question is "what instant did it actually
// compute?".
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindResolved      = "resolved"
	KindChartStart    = "chart_start"
	KindChartDone     = "chart_done"
	KindHousesCompare = "houses_compare"
	KindProgression   = "progression"
	KindMoonPhase     = "moon_phase"
	KindWarning       = "warning"
)

// Event is a single telemetry record: timestamp, kind tag, the invocation's
// run ID, and arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// NewRunID returns a fresh identifier tying one invocation's events together.
func NewRunID() string {
	return uuid.NewString()
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use. A nil *Emitter is a valid no-op emitter, so callers never need to
// guard emission behind a config check.
type Emitter struct {
	runID string
	file  *os.File
	enc   *json.Encoder
	mu    sync.Mutex
}

// NewEmitter creates an Emitter appending JSONL events to the file at path,
// creating it if needed. All events it emits carry the given run ID.
func NewEmitter(path, runID string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		runID: runID,
		file:  f,
		enc:   json.NewEncoder(f),
	}, nil
}

// Emit writes a single event. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(kind string, data any) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	evt := Event{Timestamp: time.Now().UTC(), Kind: kind, RunID: e.runID, Data: data}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
