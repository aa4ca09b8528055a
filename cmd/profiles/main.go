package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/smukkama/lift-analyzer/internal/profiles"
	"github.com/smukkama/lift-analyzer/internal/reps"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

const usage = `usage: profiles <command> [flags]

commands:
  list                                   show stored profiles
  get    -label L                        show the profile for L
  set    -label L -cutoff C -order N [-column COL]
  delete -label L
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	label := fs.String("label", "", "exercise label")
	cutoff := fs.Float64("cutoff", cfg.Reps.Cutoff, "low-pass cutoff in Hz")
	order := fs.Int("order", cfg.Reps.Order, "filter order")
	column := fs.String("column", cfg.Reps.Column, "column to smooth")
	fs.Parse(os.Args[2:])

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	store := profiles.NewStore(redisClient)

	needLabel := func() {
		if *label == "" {
			log.Fatalf("%s requires -label", os.Args[1])
		}
	}

	switch os.Args[1] {
	case "list":
		all, err := store.All(ctx)
		if err != nil {
			log.Fatalf("Failed to list profiles: %v", err)
		}
		labels := make([]string, 0, len(all))
		for l := range all {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			printProfile(l, all[l])
		}
		fmt.Printf("%d profiles\n", len(all))

	case "get":
		needLabel()
		params, err := store.Get(ctx, *label)
		if err != nil {
			log.Fatalf("Failed to get profile: %v", err)
		}
		if params == nil {
			fmt.Printf("No profile stored for %s\n", *label)
			return
		}
		printProfile(*label, *params)

	case "set":
		needLabel()
		params := reps.Params{Cutoff: *cutoff, Order: *order, Column: *column}
		if err := store.Set(ctx, *label, params); err != nil {
			log.Fatalf("Failed to set profile: %v", err)
		}
		fmt.Print("✓ Stored ")
		printProfile(*label, params)

	case "delete":
		needLabel()
		if err := store.Delete(ctx, *label); err != nil {
			log.Fatalf("Failed to delete profile: %v", err)
		}
		fmt.Printf("✓ Deleted profile for %s\n", *label)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func printProfile(label string, p reps.Params) {
	fmt.Printf("%-10s cutoff=%.3f order=%d column=%s\n", label, p.Cutoff, p.Order, p.Column)
}
