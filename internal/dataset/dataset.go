// Package dataset builds supervised training pairs from masked tables and
// partitions them into train/validation/test splits.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/oceankit/oceankit/internal/mask"
	"github.com/oceankit/oceankit/internal/table"
)

// Pair couples a masked input row with its unmasked ground truth.
type Pair struct {
	Input        table.Row `json:"input"`
	GroundTruth  table.Row `json:"groundTruth"`
	MaskIndex    int       `json:"maskIndex"`
	MissingRatio float64   `json:"missingRatio"`
}

// Build creates one pair per applied cloud mask, index-for-index with
// mask.Apply. Ground-truth rows beyond the cloud-mask count carry no
// induced gaps and therefore produce no pairs.
func Build(groundTruth *table.Table, set *mask.Set) ([]Pair, []string) {
	var warnings []string
	if groundTruth == nil || groundTruth.Empty() {
		return nil, []string{"Ground-truth table is empty, no pairs built"}
	}
	if set == nil || len(set.CloudMasks) == 0 {
		return nil, []string{"Mask set is empty, no pairs built"}
	}

	masked, applyWarnings := mask.Apply(groundTruth, set)
	warnings = append(warnings, applyWarnings...)

	n := len(set.CloudMasks)
	if groundTruth.Len() < n {
		n = groundTruth.Len()
	}

	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{
			Input:        masked.Rows[i],
			GroundTruth:  table.CloneRow(groundTruth.Rows[i]),
			MaskIndex:    set.CloudMasks[i].Index,
			MissingRatio: set.CloudMasks[i].MissingRatio,
		}
	}
	return pairs, warnings
}

// SplitParams configures a dataset partition.
type SplitParams struct {
	TrainRatio float64
	ValRatio   float64
	TestRatio  float64
	// Shuffle applies a uniform permutation before slicing. Default true.
	Shuffle bool
	// Rand supplies the permutation source; nil uses the global source.
	// Tests inject a seeded source for determinism.
	Rand *rand.Rand
}

// DefaultSplitParams is the conventional 70/15/15 shuffled split.
func DefaultSplitParams() SplitParams {
	return SplitParams{TrainRatio: 0.7, ValRatio: 0.15, TestRatio: 0.15, Shuffle: true}
}

// Split partitions pairs into train/val/test. Sizes are floored from the
// ratios; the remainder lands in test, so the three parts always cover
// every pair exactly, even when the ratios do not sum to 1.
func Split(pairs []Pair, p SplitParams) (train, val, test []Pair, err error) {
	if p.TrainRatio < 0 || p.ValRatio < 0 || p.TestRatio < 0 {
		return nil, nil, nil, fmt.Errorf("split ratios must be non-negative, got [%g, %g, %g]",
			p.TrainRatio, p.ValRatio, p.TestRatio)
	}
	if p.TrainRatio+p.ValRatio > 1 {
		return nil, nil, nil, fmt.Errorf("train+val ratio %g exceeds 1", p.TrainRatio+p.ValRatio)
	}

	ordered := append([]Pair(nil), pairs...)
	if p.Shuffle {
		shuffle := rand.Shuffle
		if p.Rand != nil {
			shuffle = p.Rand.Shuffle
		}
		shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	n := len(ordered)
	trainSize := int(float64(n) * p.TrainRatio)
	valSize := int(float64(n) * p.ValRatio)

	train = ordered[:trainSize]
	val = ordered[trainSize : trainSize+valSize]
	test = ordered[trainSize+valSize:]
	return train, val, test, nil
}

// Validation reports pair-set health.
type Validation struct {
	Valid        int     `json:"valid"`
	Invalid      int     `json:"invalid"`
	ValidPercent float64 `json:"valid_percent"`
}

// Validate checks that each pair's input and ground truth share the same
// field set and that the input demonstrably encodes an induced gap: at
// least one field nil in the input while non-missing in the ground truth.
func Validate(pairs []Pair) Validation {
	v := Validation{}
	for _, p := range pairs {
		if pairValid(p) {
			v.Valid++
		} else {
			v.Invalid++
		}
	}
	if len(pairs) > 0 {
		v.ValidPercent = 100 * float64(v.Valid) / float64(len(pairs))
	}
	return v
}

func pairValid(p Pair) bool {
	if len(p.Input) != len(p.GroundTruth) {
		return false
	}
	for f := range p.Input {
		if _, ok := p.GroundTruth[f]; !ok {
			return false
		}
	}
	for f, truth := range p.GroundTruth {
		if table.Missing(truth) {
			continue
		}
		if table.Missing(p.Input[f]) {
			return true
		}
	}
	return false
}
