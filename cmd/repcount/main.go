package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/smukkama/lift-analyzer/internal/dataset"
	"github.com/smukkama/lift-analyzer/internal/profiles"
	"github.com/smukkama/lift-analyzer/internal/protocol"
	"github.com/smukkama/lift-analyzer/internal/reps"
	"github.com/smukkama/lift-analyzer/internal/results"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	run := results.NewRun(protocol.RunKindRepCount, cfg.Input.Path)

	table, err := dataset.ReadFile(cfg.Input.Path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", cfg.Input.Path, err)
	}

	table, err = reps.ExcludeLabel(table, cfg.Reps.ExcludeLabel)
	if err != nil {
		log.Fatalf("Failed to exclude %q rows: %v", cfg.Reps.ExcludeLabel, err)
	}

	table, err = dataset.AddMagnitudes(table)
	if err != nil {
		log.Fatalf("Failed to compute magnitudes: %v", err)
	}

	readings, err := dataset.ParseReadings(table)
	if err != nil {
		log.Fatalf("Failed to parse readings: %v", err)
	}
	fmt.Printf("Loaded %d readings from %s\n", len(readings), cfg.Input.Path)

	if dups := dataset.DuplicateEpochs(readings); len(dups) > 0 {
		fmt.Printf("Warning: %d duplicate timestamps (first %d)\n", len(dups), dups[0])
	}

	// Benchmark
	out := reps.NewPrintOptions(cfg.Display, os.Stdout)
	run.Benchmark = reps.BuildBenchmark(readings)
	if err := reps.PrintBenchmark(out, run.Benchmark); err != nil {
		log.Fatalf("Failed to print benchmark: %v", err)
	}

	if cfg.Reps.Estimate {
		spacing := cfg.Reps.SampleSpacing
		if spacing <= 0 {
			spacing = dataset.NominalSpacing(readings)
		}
		fs := reps.SamplingFrequency(spacing)
		if fs <= 0 {
			log.Fatalf("Cannot determine sampling frequency from spacing %v", spacing)
		}

		resolver := reps.ProfilesFromConfig(cfg.Reps)
		if cfg.Redis.Enabled {
			resolver = overlayStoredProfiles(ctx, cfg, resolver)
		}

		counter := reps.NewDefaultCounter(fs)
		fmt.Printf("\nEstimating repetitions at %.2f Hz\n", counter.SamplingFrequency())

		run.Estimates, err = reps.EstimateSets(counter, table, resolver)
		if err != nil {
			log.Fatalf("Failed to estimate repetitions: %v", err)
		}
		if err := reps.PrintEstimates(out, run.Estimates); err != nil {
			log.Fatalf("Failed to print estimates: %v", err)
		}
	}

	run.Finish()

	recorder, closeSinks, err := results.Open(cfg)
	defer closeSinks()
	if err != nil {
		log.Fatalf("Failed to open result sinks: %v", err)
	}
	if err := recorder.Record(ctx, run); err != nil {
		log.Printf("Failed to record run %s: %v", run.ID, err)
	}
}

// overlayStoredProfiles applies the profiles kept in Redis over the configured
// ones. Redis being unreachable is not fatal.
func overlayStoredProfiles(ctx context.Context, cfg *config.Config, base reps.Profiles) reps.Profiles {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis, using configured profiles: %v", err)
		return base
	}

	stored, err := profiles.NewStore(redisClient).All(ctx)
	if err != nil {
		log.Printf("Failed to load stored profiles: %v", err)
		return base
	}
	fmt.Printf("Loaded %d stored profiles\n", len(stored))

	return profiles.Overlay(base, stored)
}
