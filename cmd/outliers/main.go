package main

import (
	"context"
	"fmt"
	"log"

	"github.com/smukkama/lift-analyzer/internal/dataset"
	"github.com/smukkama/lift-analyzer/internal/outlier"
	"github.com/smukkama/lift-analyzer/internal/protocol"
	"github.com/smukkama/lift-analyzer/internal/results"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	run := results.NewRun(protocol.RunKindOutliers, cfg.Input.Path)

	table, err := dataset.ReadFile(cfg.Input.Path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.Input.Path, err)
	}
	fmt.Printf("Loaded %d rows from %s\n", table.Len(), cfg.Input.Path)

	reports, err := outlier.ReplaceWithMean(table, cfg.Outlier.Columns, cfg.Outlier.Threshold)
	if err != nil {
		log.Fatalf("Failed to replace outliers: %v", err)
	}

	for _, r := range reports {
		if r.Degenerate {
			fmt.Printf("  %-6s skipped (standard deviation undefined or zero)\n", r.Column)
			continue
		}
		fmt.Printf("  %-6s mean=%.4f std=%.4f replaced=%d\n", r.Column, r.Mean, r.Std, len(r.Replaced))
	}

	if err := table.WriteFile(cfg.Input.OutlierOutputPath); err != nil {
		log.Fatalf("Failed to write %s: %v", cfg.Input.OutlierOutputPath, err)
	}
	fmt.Printf("Wrote %s\n", cfg.Input.OutlierOutputPath)

	run.Outliers = reports
	run.Finish()

	recorder, closeSinks, err := results.Open(cfg)
	defer closeSinks()
	if err != nil {
		log.Fatalf("Failed to open result sinks: %v", err)
	}
	if err := recorder.Record(context.Background(), run); err != nil {
		log.Printf("Failed to record run %s: %v", run.ID, err)
	}
}
