package tools

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/dataset"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/mask"
)

// DatasetToolsetName is the registered name of the dataset toolset.
const DatasetToolsetName = "dataset"

// BuildPairsInput defines input for the build_training_pairs tool.
type BuildPairsInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the ground-truth CSV or JSON table"`
	MaskFile   string `json:"mask_file" jsonschema_description:"Path of a mask set written by generate_masks"`
	OutputPath string `json:"output_path" jsonschema_description:"Where to write the pairs (JSON)"`
}

// SplitDatasetInput defines input for the split_dataset tool.
type SplitDatasetInput struct {
	PairsFile  string  `json:"pairs_file" jsonschema_description:"Path of a pairs file written by build_training_pairs"`
	OutputDir  string  `json:"output_dir" jsonschema_description:"Directory for train.json, val.json and test.json"`
	TrainRatio float64 `json:"train_ratio,omitempty" jsonschema_description:"Training fraction, default 0.7"`
	ValRatio   float64 `json:"val_ratio,omitempty" jsonschema_description:"Validation fraction, default 0.15"`
	TestRatio  float64 `json:"test_ratio,omitempty" jsonschema_description:"Test fraction, default 0.15"`
	NoShuffle  bool    `json:"no_shuffle,omitempty" jsonschema_description:"Keep the original pair order instead of shuffling"`
}

// ValidatePairsInput defines input for the validate_pairs tool.
type ValidatePairsInput struct {
	PairsFile string `json:"pairs_file" jsonschema_description:"Path of a pairs file to validate"`
}

// DatasetToolset builds and partitions supervised training pairs.
type DatasetToolset struct {
	io           *IO
	defaultSplit dataset.SplitParams
	logger       log.Logger
}

// NewDatasetToolset creates the dataset toolset. defaultSplit supplies
// the ratios used when a request omits them.
func NewDatasetToolset(io *IO, defaultSplit dataset.SplitParams, logger log.Logger) (*DatasetToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if defaultSplit.TrainRatio == 0 && defaultSplit.ValRatio == 0 && defaultSplit.TestRatio == 0 {
		defaultSplit = dataset.DefaultSplitParams()
	}
	return &DatasetToolset{io: io, defaultSplit: defaultSplit, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*DatasetToolset) Name() string { return DatasetToolsetName }

// Tools returns the dataset tools.
func (ts *DatasetToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolBuildPairs,
			"Build {input, groundTruth} training pairs by applying a stored mask set "+
				"to a ground-truth table, one pair per cloud mask.",
			false,
			ts.BuildPairs,
		),
		NewTool(
			ToolSplitDataset,
			"Shuffle training pairs and partition them into train/val/test files by "+
				"ratio. Flooring remainders land in the test partition, so the three "+
				"files always cover every pair.",
			false,
			ts.SplitDataset,
		),
		NewTool(
			ToolValidatePairs,
			"Check that every pair's input and ground truth share the same fields and "+
				"that each input encodes at least one induced gap.",
			false,
			ts.ValidatePairs,
		),
	}
}

// BuildPairs constructs pairs from a ground truth and a mask set.
func (ts *DatasetToolset) BuildPairs(_ *ai.ToolContext, input BuildPairsInput) (Result, error) {
	ts.logger.Info("BuildPairs called", "path", input.FilePath, "masks", input.MaskFile)

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	safeMask, err := ts.io.pathVal.Validate(input.MaskFile)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}
	set, err := mask.Load(safeMask)
	if err != nil {
		return fail(&Error{Code: ErrCodeIO, Message: err.Error()}), nil
	}

	pairs, warnings := dataset.Build(t, set)

	written, terr := ts.writePairs(pairs, input.OutputPath)
	if terr != nil {
		return fail(terr), nil
	}
	return Result{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Built %d training pairs from %d rows", len(pairs), t.Len()),
		Rows:     len(pairs),
		Warnings: warnings,
		Files:    []string{written},
	}, nil
}

// SplitDataset partitions a pairs file.
func (ts *DatasetToolset) SplitDataset(_ *ai.ToolContext, input SplitDatasetInput) (Result, error) {
	ts.logger.Info("SplitDataset called", "pairs", input.PairsFile, "dir", input.OutputDir)

	if input.OutputDir == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "output_dir is required"}), nil
	}
	pairs, terr := ts.loadPairs(input.PairsFile)
	if terr != nil {
		return fail(terr), nil
	}

	params := ts.defaultSplit
	if input.TrainRatio > 0 || input.ValRatio > 0 || input.TestRatio > 0 {
		params = dataset.SplitParams{
			TrainRatio: input.TrainRatio,
			ValRatio:   input.ValRatio,
			TestRatio:  input.TestRatio,
			Shuffle:    true,
		}
	}
	params.Shuffle = !input.NoShuffle

	train, val, test, err := dataset.Split(pairs, params)
	if err != nil {
		return fail(&Error{Code: ErrCodeValidation, Message: err.Error()}), nil
	}

	safeDir, err := ts.io.pathVal.Validate(input.OutputDir)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}
	paths, err := dataset.WriteSplits(safeDir, train, val, test)
	if err != nil {
		return fail(&Error{Code: ErrCodeIO, Message: err.Error()}), nil
	}
	return Result{
		Status: StatusSuccess,
		Message: fmt.Sprintf("Split %d pairs into %d/%d/%d",
			len(pairs), len(train), len(val), len(test)),
		Rows:  len(pairs),
		Files: paths,
		Data: map[string]any{
			"train": len(train),
			"val":   len(val),
			"test":  len(test),
		},
	}, nil
}

// ValidatePairs checks pair-set health.
func (ts *DatasetToolset) ValidatePairs(_ *ai.ToolContext, input ValidatePairsInput) (Result, error) {
	ts.logger.Info("ValidatePairs called", "pairs", input.PairsFile)

	pairs, terr := ts.loadPairs(input.PairsFile)
	if terr != nil {
		return fail(terr), nil
	}
	v := dataset.Validate(pairs)
	return Result{
		Status: StatusSuccess,
		Message: fmt.Sprintf("%d of %d pairs valid (%.1f%%)",
			v.Valid, len(pairs), v.ValidPercent),
		Rows: len(pairs),
		Data: map[string]any{
			"valid":         v.Valid,
			"invalid":       v.Invalid,
			"valid_percent": v.ValidPercent,
		},
	}, nil
}

func (ts *DatasetToolset) loadPairs(path string) ([]dataset.Pair, *Error) {
	if path == "" {
		return nil, &Error{Code: ErrCodeValidation, Message: "pairs_file is required"}
	}
	safe, err := ts.io.pathVal.Validate(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeSecurity, Message: err.Error()}
	}
	data, err := os.ReadFile(safe) // #nosec G304 - validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("pairs file not found: %s", path)}
		}
		return nil, &Error{Code: ErrCodeIO, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	var pairs []dataset.Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, &Error{Code: ErrCodeIO, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	return pairs, nil
}

func (ts *DatasetToolset) writePairs(pairs []dataset.Pair, path string) (string, *Error) {
	if path == "" {
		return "", &Error{Code: ErrCodeValidation, Message: "output_path is required"}
	}
	safe, err := ts.io.pathVal.Validate(path)
	if err != nil {
		return "", &Error{Code: ErrCodeSecurity, Message: err.Error()}
	}
	if pairs == nil {
		pairs = []dataset.Pair{}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return "", &Error{Code: ErrCodeInternal, Message: fmt.Sprintf("encoding pairs: %v", err)}
	}
	if err := os.WriteFile(safe, data, 0o600); err != nil {
		return "", &Error{Code: ErrCodeIO, Message: fmt.Sprintf("writing %s: %v", path, err)}
	}
	return safe, nil
}
