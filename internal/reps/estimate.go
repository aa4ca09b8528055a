package reps

import (
	"fmt"

	"github.com/smukkama/lift-analyzer/internal/dataset"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

// ProfileResolver picks counter settings for an exercise label
type ProfileResolver interface {
	ParamsFor(label string) Params
}

// Profiles maps exercise labels to counter settings, falling back to Default
type Profiles struct {
	Default Params
	ByLabel map[string]Params
}

func (p Profiles) ParamsFor(label string) Params {
	if params, ok := p.ByLabel[label]; ok {
		return params
	}
	return p.Default
}

// ProfilesFromConfig builds profiles from the repetition counter configuration.
// A profile without a column uses the default column.
func ProfilesFromConfig(cfg config.RepsConfig) Profiles {
	profiles := Profiles{
		Default: Params{Cutoff: cfg.Cutoff, Order: cfg.Order, Column: cfg.Column},
		ByLabel: make(map[string]Params, len(cfg.Profiles)),
	}

	for label, pc := range cfg.Profiles {
		params := Params{Cutoff: pc.Cutoff, Order: pc.Order, Column: pc.Column}
		if params.Column == "" {
			params.Column = cfg.Column
		}
		profiles.ByLabel[label] = params
	}

	return profiles
}

// Estimate is the heuristic repetition count of one set
type Estimate struct {
	SetKey
	Params  Params
	Samples int
	Reps    int
}

// EstimateSets counts repetitions for every set in t using the settings
// resolved for the set's label.
func EstimateSets(counter *Counter, t *dataset.Table, profiles ProfileResolver) ([]Estimate, error) {
	keys, sets, err := SplitSets(t)
	if err != nil {
		return nil, err
	}

	estimates := make([]Estimate, 0, len(keys))
	for _, k := range keys {
		params := profiles.ParamsFor(k.Label)
		set := sets[k]

		n, err := counter.Count(set, params)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}

		estimates = append(estimates, Estimate{
			SetKey:  k,
			Params:  params,
			Samples: set.Len(),
			Reps:    n,
		})
	}

	return estimates, nil
}
