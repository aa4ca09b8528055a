package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/smukkama/lift-analyzer/internal/synth"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

// Writes a synthetic training session that exercises both tools
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	defaultSpacing := cfg.Reps.SampleSpacing
	if defaultSpacing <= 0 {
		defaultSpacing = 200 * time.Millisecond
	}

	out := flag.String("out", cfg.Input.Path, "output CSV path, defaults to INPUT_PATH")
	participant := flag.String("participant", "A", "participant id")
	spacing := flag.Duration("spacing", defaultSpacing, "sample spacing")
	noise := flag.Float64("noise", 0.15, "amplitude of the 2 Hz disturbance")
	flag.Parse()

	session := []synth.Recording{
		{Label: "bench", Category: "heavy", Set: 1, Reps: 5, RepDuration: 4 * time.Second},
		{Label: "rest", Category: "sitting", Set: 2, Reps: 1, RepDuration: 20 * time.Second},
		{Label: "bench", Category: "medium", Set: 3, Reps: 10, RepDuration: 3 * time.Second},
		{Label: "squat", Category: "heavy", Set: 4, Reps: 5, RepDuration: 4 * time.Second},
		{Label: "rest", Category: "standing", Set: 5, Reps: 1, RepDuration: 20 * time.Second},
		{Label: "squat", Category: "medium", Set: 6, Reps: 10, RepDuration: 3 * time.Second},
	}
	for i := range session {
		session[i].Participant = *participant
		session[i].NoiseAmplitude = *noise
		session[i].NoiseFrequency = 2
	}

	start := time.Date(2019, 1, 11, 15, 8, 5, 0, time.UTC).UnixMilli()
	table, err := synth.Generate(start, *spacing, session...)
	if err != nil {
		log.Fatalf("Failed to generate session: %v", err)
	}

	if err := table.WriteFile(*out); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	fmt.Printf("✓ Wrote %d rows (%d sets) to %s\n", table.Len(), len(session), *out)
}
