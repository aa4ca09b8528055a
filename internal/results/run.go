package results

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/smukkama/lift-analyzer/internal/outlier"
	"github.com/smukkama/lift-analyzer/internal/protocol"
	"github.com/smukkama/lift-analyzer/internal/reps"
)

// Run collects everything one tool execution produced
type Run struct {
	ID         uuid.UUID
	Kind       protocol.RunKind
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Benchmark  []reps.BenchmarkRow
	Estimates  []reps.Estimate
	Outliers   []outlier.ColumnReport
}

// NewRun starts a run with a fresh id
func NewRun(kind protocol.RunKind, source string) *Run {
	return &Run{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the completion time
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Message converts the run to its published form
func (r *Run) Message() *protocol.RunMessage {
	msg := &protocol.RunMessage{
		RunID:      r.ID.String(),
		Kind:       r.Kind,
		Source:     r.Source,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}

	for _, b := range r.Benchmark {
		msg.Benchmark = append(msg.Benchmark, protocol.BenchmarkEntry{
			Label:    b.Label,
			Category: b.Category,
			Set:      b.Set,
			Reps:     b.Reps,
		})
	}
	for _, e := range r.Estimates {
		msg.Estimates = append(msg.Estimates, protocol.EstimateEntry{
			Label:         e.Label,
			Category:      e.Category,
			Set:           e.Set,
			Column:        e.Params.Column,
			Cutoff:        e.Params.Cutoff,
			Order:         e.Params.Order,
			Samples:       e.Samples,
			EstimatedReps: e.Reps,
		})
	}
	for _, o := range r.Outliers {
		msg.Outliers = append(msg.Outliers, protocol.OutlierEntry{
			Column:    o.Column,
			Mean:      finiteOrZero(o.Mean),
			Std:       finiteOrZero(o.Std),
			Threshold: o.Threshold,
			Replaced:  len(o.Replaced),
		})
	}

	return msg
}

// finiteOrZero maps NaN and infinities, which JSON cannot encode, to zero
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Sink persists or publishes a finished run
type Sink interface {
	Record(ctx context.Context, run *Run) error
}

// Recorder fans a run out to every configured sink
type Recorder struct {
	sinks map[string]Sink
	names []string
}

// NewRecorder creates a recorder with no sinks
func NewRecorder() *Recorder {
	return &Recorder{sinks: make(map[string]Sink)}
}

// Add registers a sink under name
func (r *Recorder) Add(name string, sink Sink) {
	if _, exists := r.sinks[name]; !exists {
		r.names = append(r.names, name)
	}
	r.sinks[name] = sink
}

// Len returns the number of registered sinks
func (r *Recorder) Len() int {
	return len(r.names)
}

// Record sends run to all sinks in registration order. A failing sink does
// not stop the others; all failures are returned joined.
func (r *Recorder) Record(ctx context.Context, run *Run) error {
	var errs []error
	for _, name := range r.names {
		if err := r.sinks[name].Record(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		fmt.Printf("Recorded run %s to %s\n", run.ID, name)
	}
	return errors.Join(errs...)
}
