package results

import (
	"context"
	"fmt"
	"math"

	"github.com/smukkama/lift-analyzer/internal/database"
	"github.com/smukkama/lift-analyzer/internal/protocol"
)

// RunStore persists a run together with its results
type RunStore interface {
	SaveRun(run *database.Run, results *database.RunResults) error
}

// DatabaseSink writes runs to PostgreSQL
type DatabaseSink struct {
	store RunStore
}

// NewDatabaseSink creates a sink backed by store
func NewDatabaseSink(store RunStore) *DatabaseSink {
	return &DatabaseSink{store: store}
}

func (s *DatabaseSink) Record(ctx context.Context, run *Run) error {
	id := run.ID.String()
	results := &database.RunResults{
		Benchmark: make([]*database.BenchmarkRecord, 0, len(run.Benchmark)),
		Estimates: make([]*database.EstimateRecord, 0, len(run.Estimates)),
		Outliers:  make([]*database.OutlierSummary, 0, len(run.Outliers)),
	}

	for _, b := range run.Benchmark {
		results.Benchmark = append(results.Benchmark, &database.BenchmarkRecord{
			RunID:    id,
			Label:    b.Label,
			Category: b.Category,
			SetID:    b.Set,
			Reps:     b.Reps,
		})
	}
	for _, e := range run.Estimates {
		results.Estimates = append(results.Estimates, &database.EstimateRecord{
			RunID:         id,
			Label:         e.Label,
			Category:      e.Category,
			SetID:         e.Set,
			ColumnName:    e.Params.Column,
			Cutoff:        e.Params.Cutoff,
			FilterOrder:   e.Params.Order,
			Samples:       e.Samples,
			EstimatedReps: e.Reps,
		})
	}
	for _, o := range run.Outliers {
		results.Outliers = append(results.Outliers, &database.OutlierSummary{
			RunID:         id,
			ColumnName:    o.Column,
			Mean:          nullable(o.Mean),
			Std:           nullable(o.Std),
			Threshold:     o.Threshold,
			ReplacedCount: len(o.Replaced),
		})
	}

	return s.store.SaveRun(&database.Run{
		ID:         id,
		Kind:       string(run.Kind),
		Source:     run.Source,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}, results)
}

// nullable stores undefined statistics as NULL
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Publisher sends a keyed message
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// QueueSink publishes runs as JSON events keyed by source file
type QueueSink struct {
	publisher Publisher
}

// NewQueueSink creates a sink backed by publisher
func NewQueueSink(publisher Publisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

func (s *QueueSink) Record(ctx context.Context, run *Run) error {
	data, err := protocol.EncodeRunMessage(run.Message())
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return s.publisher.Publish(ctx, run.Source, data)
}
