package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/smukkama/lift-analyzer/internal/reps"
)

const keyPrefix = "rep_profile:"

// ErrInvalidProfile is returned when a stored value is not a valid profile
var ErrInvalidProfile = errors.New("invalid profile")

// Store keeps per-exercise counter settings in Redis, one JSON value per label
type Store struct {
	redis *redis.Client
}

// NewStore creates a profile store
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func profileKey(label string) string {
	return keyPrefix + label
}

func labelFromKey(key string) (string, bool) {
	return strings.CutPrefix(key, keyPrefix)
}

// Get returns the stored settings for label, or nil if none are stored
func (s *Store) Get(ctx context.Context, label string) (*reps.Params, error) {
	data, err := s.redis.Get(ctx, profileKey(label)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from Redis: %w", err)
	}
	return decodeProfile(label, data)
}

func decodeProfile(label, data string) (*reps.Params, error) {
	var params reps.Params
	if err := json.Unmarshal([]byte(data), &params); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidProfile, label, err)
	}
	return &params, nil
}

// Set stores the settings for label
func (s *Store) Set(ctx context.Context, label string, params reps.Params) error {
	if err := Validate(params); err != nil {
		return err
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.redis.Set(ctx, profileKey(label), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set profile in Redis: %w", err)
	}
	return nil
}

// Delete removes the settings for label
func (s *Store) Delete(ctx context.Context, label string) error {
	return s.redis.Del(ctx, profileKey(label)).Err()
}

// All returns every stored profile keyed by label. Entries that cannot be
// decoded are skipped; Redis errors are returned.
func (s *Store) All(ctx context.Context) (map[string]reps.Params, error) {
	var labels []string
	iter := s.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if label, ok := labelFromKey(iter.Val()); ok {
			labels = append(labels, label)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	return collect(ctx, labels, s.Get)
}

// collect loads each label with get, skipping undecodable and vanished entries
func collect(ctx context.Context, labels []string, get func(context.Context, string) (*reps.Params, error)) (map[string]reps.Params, error) {
	profiles := make(map[string]reps.Params, len(labels))
	for _, label := range labels {
		params, err := get(ctx, label)
		if errors.Is(err, ErrInvalidProfile) {
			fmt.Printf("Skipping profile %s: %v\n", label, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		if params != nil {
			profiles[label] = *params
		}
	}
	return profiles, nil
}

// Validate checks that params can drive a counter
func Validate(params reps.Params) error {
	if params.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be positive, got %v", params.Cutoff)
	}
	if params.Order < 1 {
		return fmt.Errorf("order must be at least 1, got %d", params.Order)
	}
	if params.Column == "" {
		return fmt.Errorf("column is required")
	}
	return nil
}

// Overlay returns base with stored profiles taking precedence per label
func Overlay(base reps.Profiles, stored map[string]reps.Params) reps.Profiles {
	merged := reps.Profiles{
		Default: base.Default,
		ByLabel: make(map[string]reps.Params, len(base.ByLabel)+len(stored)),
	}
	for label, p := range base.ByLabel {
		merged.ByLabel[label] = p
	}
	for label, p := range stored {
		merged.ByLabel[label] = p
	}
	return merged
}
