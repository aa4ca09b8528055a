package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// RunKind identifies which tool produced a run
type RunKind string

const (
	RunKindOutliers RunKind = "outliers"
	RunKindRepCount RunKind = "repcount"
)

// BenchmarkEntry is the assumed repetition count of one set
type BenchmarkEntry struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	Set      int    `json:"set"`
	Reps     int    `json:"reps"`
}

// EstimateEntry is a heuristic repetition count with the settings used
type EstimateEntry struct {
	Label         string  `json:"label"`
	Category      string  `json:"category"`
	Set           int     `json:"set"`
	Column        string  `json:"column"`
	Cutoff        float64 `json:"cutoff"`
	Order         int     `json:"order"`
	Samples       int     `json:"samples"`
	EstimatedReps int     `json:"estimated_reps"`
}

// OutlierEntry summarizes the replacements made in one column
type OutlierEntry struct {
	Column    string  `json:"column"`
	Mean      float64 `json:"mean"`
	Std       float64 `json:"std"`
	Threshold float64 `json:"threshold"`
	Replaced  int     `json:"replaced"`
}

// RunMessage is the event published for every completed run
type RunMessage struct {
	RunID      string           `json:"run_id"`
	Kind       RunKind          `json:"kind"`
	Source     string           `json:"source"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Benchmark  []BenchmarkEntry `json:"benchmark,omitempty"`
	Estimates  []EstimateEntry  `json:"estimates,omitempty"`
	Outliers   []OutlierEntry   `json:"outliers,omitempty"`
}

// EncodeRunMessage validates a RunMessage and encodes it to JSON
func EncodeRunMessage(msg *RunMessage) ([]byte, error) {
	if err := validateRun(msg); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

// validateRun validates a run message
func validateRun(msg *RunMessage) error {
	if msg.RunID == "" {
		return fmt.Errorf("run_id is required")
	}
	switch msg.Kind {
	case RunKindOutliers, RunKindRepCount:
	default:
		return fmt.Errorf("unknown run kind: %s", msg.Kind)
	}
	return nil
}
