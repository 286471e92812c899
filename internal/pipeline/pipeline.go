// Package pipeline chains preprocessing steps into named workflow
// presets. It only sequences the domain packages; each step's semantics
// live with the step.
package pipeline

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/oceankit/oceankit/internal/dataset"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/mask"
	"github.com/oceankit/oceankit/internal/qc"
	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/transform"
)

// Step names usable in a preset.
const (
	StepClean        = "clean"
	StepQualityCheck = "quality_check"
	StepNormalize    = "normalize"
	StepStandardize  = "standardize"
	StepInterpolate  = "interpolate"
	StepGenMasks     = "generate_masks"
	StepBuildPairs   = "build_training_pairs"
	StepSplit        = "split_dataset"
)

// Preset is a named sequence of steps.
type Preset struct {
	Name        string
	Description string
	Steps       []string
}

// Presets returns the built-in workflows keyed by name.
func Presets() map[string]Preset {
	return map[string]Preset{
		"standard": {
			Name:        "standard",
			Description: "Clean, quality-check and min-max normalize a table",
			Steps:       []string{StepClean, StepQualityCheck, StepNormalize},
		},
		"ml_training": {
			Name:        "ml_training",
			Description: "Clean, derive masks, build training pairs and split them",
			Steps:       []string{StepClean, StepGenMasks, StepBuildPairs, StepSplit},
		},
		"qc_only": {
			Name:        "qc_only",
			Description: "Quality-check without modifying the data",
			Steps:       []string{StepQualityCheck},
		},
		"gap_fill": {
			Name:        "gap_fill",
			Description: "Clean and linearly interpolate missing values",
			Steps:       []string{StepClean, StepInterpolate},
		},
	}
}

// PresetNames returns the preset names sorted for stable listings.
func PresetNames() []string {
	presets := Presets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params carries the per-step settings a preset run may need.
type Params struct {
	Aliases table.Aliases
	QC      qc.Params
	Mask    mask.Params
	Split   dataset.SplitParams
	Interp  transform.Method
	// OutputDir receives mask and split files for the ml_training preset.
	OutputDir string
}

// Result describes a finished preset run.
type Result struct {
	Table    *table.Table
	Steps    []string
	Warnings []string
	Files    []string
	QCReport *qc.Report
	Pairs    int
}

// Runner executes presets.
type Runner struct {
	logger log.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(logger log.Logger) (*Runner, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Runner{logger: logger}, nil
}

// Run executes the named preset over a table. Steps accumulate warnings;
// only genuinely fatal conditions (unknown preset, unwritable output)
// abort the run.
func (r *Runner) Run(name string, t *table.Table, p Params) (*Result, error) {
	preset, ok := Presets()[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline preset %q (have %v)", name, PresetNames())
	}
	if p.Aliases == nil {
		p.Aliases = table.DefaultAliases()
	}

	res := &Result{Table: t}
	var maskSet *mask.Set
	var pairs []dataset.Pair

	for _, step := range preset.Steps {
		r.logger.Info("Running pipeline step", "preset", name, "step", step, "rows", res.Table.Len())
		var warnings []string

		switch step {
		case StepClean:
			res.Table, warnings = transform.Clean(res.Table)

		case StepQualityCheck:
			resolver := table.NewResolver(res.Table, p.Aliases)
			res.Table, res.QCReport, warnings = qc.Check(res.Table, resolver, p.QC)

		case StepNormalize:
			res.Table, warnings = transform.Normalize(res.Table)

		case StepStandardize:
			res.Table, warnings = transform.Standardize(res.Table)

		case StepInterpolate:
			var err error
			res.Table, warnings, err = transform.Interpolate(res.Table, p.Interp)
			if err != nil {
				return nil, fmt.Errorf("step %s: %w", step, err)
			}

		case StepGenMasks:
			maskSet, warnings = mask.Generate(res.Table, orDefaultMask(p.Mask))
			if p.OutputDir != "" {
				path := filepath.Join(p.OutputDir, "masks.json")
				if err := mask.Save(maskSet, path); err != nil {
					return nil, fmt.Errorf("step %s: %w", step, err)
				}
				res.Files = append(res.Files, path)
			}

		case StepBuildPairs:
			if maskSet == nil {
				return nil, fmt.Errorf("step %s requires %s earlier in the preset", step, StepGenMasks)
			}
			pairs, warnings = dataset.Build(res.Table, maskSet)
			res.Pairs = len(pairs)

		case StepSplit:
			if pairs == nil {
				return nil, fmt.Errorf("step %s requires %s earlier in the preset", step, StepBuildPairs)
			}
			split := p.Split
			if split.TrainRatio == 0 && split.ValRatio == 0 && split.TestRatio == 0 {
				split = dataset.DefaultSplitParams()
			}
			train, val, test, err := dataset.Split(pairs, split)
			if err != nil {
				return nil, fmt.Errorf("step %s: %w", step, err)
			}
			if p.OutputDir != "" {
				paths, err := dataset.WriteSplits(p.OutputDir, train, val, test)
				if err != nil {
					return nil, fmt.Errorf("step %s: %w", step, err)
				}
				res.Files = append(res.Files, paths...)
			}

		default:
			return nil, fmt.Errorf("unknown pipeline step %q", step)
		}

		res.Steps = append(res.Steps, step)
		res.Warnings = append(res.Warnings, warnings...)
	}
	return res, nil
}

func orDefaultMask(p mask.Params) mask.Params {
	if p.Count == 0 && p.MinRatio == 0 && p.MaxRatio == 0 {
		return mask.DefaultParams()
	}
	return p
}
