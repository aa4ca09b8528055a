package reps

import (
	"fmt"
	"sort"

	"github.com/smukkama/lift-analyzer/internal/dataset"
)

// SetKey identifies one set within a session
type SetKey struct {
	Label    string
	Category string
	Set      int
}

func (k SetKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Label, k.Category, k.Set)
}

func (k SetKey) less(o SetKey) bool {
	if k.Label != o.Label {
		return k.Label < o.Label
	}
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	return k.Set < o.Set
}

// SortKeys orders keys by label, category and numeric set id
func SortKeys(keys []SetKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}

// ExcludeLabel returns the rows whose label differs from label
func ExcludeLabel(t *dataset.Table, label string) (*dataset.Table, error) {
	if !t.Has(dataset.ColLabel) {
		return nil, fmt.Errorf("%w: %q", dataset.ErrColumnNotFound, dataset.ColLabel)
	}

	return t.Select(func(i int) bool {
		v, _ := t.Value(i, dataset.ColLabel)
		return v != label
	}), nil
}

// SplitSets groups the rows of t by (label, category, set), keeping file
// order within each group. Keys are returned sorted.
func SplitSets(t *dataset.Table) ([]SetKey, map[SetKey]*dataset.Table, error) {
	readings, err := dataset.ParseReadings(t)
	if err != nil {
		return nil, nil, err
	}

	rowKeys := make([]SetKey, len(readings))
	seen := make(map[SetKey]bool)
	var keys []SetKey
	for i, r := range readings {
		k := SetKey{Label: r.Label, Category: r.Category, Set: r.Set}
		rowKeys[i] = k
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	SortKeys(keys)

	sets := make(map[SetKey]*dataset.Table, len(keys))
	for _, k := range keys {
		k := k
		sets[k] = t.Select(func(i int) bool { return rowKeys[i] == k })
	}

	return keys, sets, nil
}
