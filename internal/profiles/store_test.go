package profiles

import (
	"context"
	"errors"
	"testing"

	"github.com/smukkama/lift-analyzer/internal/reps"
)

func TestProfileKey(t *testing.T) {
	key := profileKey("squat")
	if key != "rep_profile:squat" {
		t.Errorf("Unexpected key %q", key)
	}

	label, ok := labelFromKey(key)
	if !ok || label != "squat" {
		t.Errorf("Expected squat, got %q (ok=%v)", label, ok)
	}
	if _, ok := labelFromKey("session:x"); ok {
		t.Error("Foreign key should not parse")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  reps.Params
		wantErr bool
	}{
		{name: "default", params: reps.DefaultParams()},
		{name: "zero cutoff", params: reps.Params{Order: 10, Column: "acc_r"}, wantErr: true},
		{name: "zero order", params: reps.Params{Cutoff: 0.4, Column: "acc_r"}, wantErr: true},
		{name: "no column", params: reps.Params{Cutoff: 0.4, Order: 10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.params, err, tt.wantErr)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	base := reps.Profiles{
		Default: reps.DefaultParams(),
		ByLabel: map[string]reps.Params{
			"squat": {Cutoff: 0.35, Order: 10, Column: "acc_r"},
			"ohp":   {Cutoff: 0.35, Order: 10, Column: "acc_r"},
		},
	}
	stored := map[string]reps.Params{
		"squat": {Cutoff: 0.3, Order: 6, Column: "acc_r"},
		"row":   {Cutoff: 0.65, Order: 10, Column: "gyr_x"},
	}

	merged := Overlay(base, stored)

	if got := merged.ParamsFor("squat"); got.Cutoff != 0.3 || got.Order != 6 {
		t.Errorf("Stored profile should win for squat, got %+v", got)
	}
	if got := merged.ParamsFor("ohp"); got.Cutoff != 0.35 {
		t.Errorf("Configured profile should remain for ohp, got %+v", got)
	}
	if got := merged.ParamsFor("row"); got.Column != "gyr_x" {
		t.Errorf("Stored profile missing for row, got %+v", got)
	}
	if got := merged.ParamsFor("bench"); got != reps.DefaultParams() {
		t.Errorf("Expected default for bench, got %+v", got)
	}
	if base.ByLabel["squat"].Cutoff != 0.35 {
		t.Error("Overlay mutated the base profiles")
	}
}

func TestDecodeProfile(t *testing.T) {
	params, err := decodeProfile("row", `{"cutoff":0.65,"order":10,"column":"gyr_x"}`)
	if err != nil {
		t.Fatalf("decodeProfile failed: %v", err)
	}
	if params.Cutoff != 0.65 || params.Column != "gyr_x" {
		t.Errorf("Unexpected params %+v", params)
	}

	if _, err := decodeProfile("row", "not json"); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}
}

func TestCollect(t *testing.T) {
	stored := map[string]string{
		"squat": `{"cutoff":0.35,"order":10,"column":"acc_r"}`,
		"ohp":   `{broken`,
	}
	get := func(ctx context.Context, label string) (*reps.Params, error) {
		data, ok := stored[label]
		if !ok {
			return nil, nil
		}
		return decodeProfile(label, data)
	}

	profiles, err := collect(context.Background(), []string{"squat", "ohp", "gone"}, get)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(profiles) != 1 || profiles["squat"].Cutoff != 0.35 {
		t.Errorf("Expected only squat, got %+v", profiles)
	}
}

func TestCollect_ReturnsRedisErrors(t *testing.T) {
	timeout := errors.New("i/o timeout")
	get := func(ctx context.Context, label string) (*reps.Params, error) {
		if label == "row" {
			return nil, timeout
		}
		return &reps.Params{Cutoff: 0.4, Order: 10, Column: "acc_r"}, nil
	}

	profiles, err := collect(context.Background(), []string{"squat", "row", "ohp"}, get)
	if !errors.Is(err, timeout) {
		t.Fatalf("Expected the Redis error, got %v", err)
	}
	if profiles != nil {
		t.Errorf("Expected no profiles on error, got %+v", profiles)
	}
}
