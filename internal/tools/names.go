package tools

// Tool name constants. Single source of truth: toolsets, metadata, and
// tests all reference these.
const (
	ToolLoadData     = "load_data"
	ToolDescribeData = "describe_data"
	ToolConvert      = "convert_format"

	ToolCleanData       = "clean_data"
	ToolFilterData      = "filter_data"
	ToolNormalizeData   = "normalize_data"
	ToolInterpolateData = "interpolate_data"

	ToolQualityCheck = "quality_check"

	ToolGenerateMasks = "generate_masks"
	ToolApplyMasks    = "apply_masks"

	ToolBuildPairs    = "build_training_pairs"
	ToolSplitDataset  = "split_dataset"
	ToolValidatePairs = "validate_pairs"

	ToolRunPipeline = "run_pipeline"

	ToolCheckDependencies = "check_dependencies"
	ToolLoadMetadata      = "load_metadata"
	ToolMergeFiles        = "merge_files"
)

// Category groups tools for listings and documentation.
type Category string

const (
	CategoryIngest    Category = "Ingest"
	CategoryTransform Category = "Transform"
	CategoryQC        Category = "Quality Control"
	CategoryMask      Category = "Mask"
	CategoryDataset   Category = "Dataset"
	CategoryPipeline  Category = "Pipeline"
	CategoryDelegate  Category = "Delegate"
)

// Metadata describes a tool's classification. WritesFiles marks tools
// that produce output files, the only operations here with side effects.
type Metadata struct {
	Name        string
	Category    Category
	WritesFiles bool
}

// metadata is the central classification registry.
var metadata = map[string]Metadata{
	ToolLoadData:     {Name: ToolLoadData, Category: CategoryIngest},
	ToolDescribeData: {Name: ToolDescribeData, Category: CategoryIngest},
	ToolConvert:      {Name: ToolConvert, Category: CategoryIngest, WritesFiles: true},

	ToolCleanData:       {Name: ToolCleanData, Category: CategoryTransform, WritesFiles: true},
	ToolFilterData:      {Name: ToolFilterData, Category: CategoryTransform, WritesFiles: true},
	ToolNormalizeData:   {Name: ToolNormalizeData, Category: CategoryTransform, WritesFiles: true},
	ToolInterpolateData: {Name: ToolInterpolateData, Category: CategoryTransform, WritesFiles: true},

	ToolQualityCheck: {Name: ToolQualityCheck, Category: CategoryQC, WritesFiles: true},

	ToolGenerateMasks: {Name: ToolGenerateMasks, Category: CategoryMask, WritesFiles: true},
	ToolApplyMasks:    {Name: ToolApplyMasks, Category: CategoryMask, WritesFiles: true},

	ToolBuildPairs:    {Name: ToolBuildPairs, Category: CategoryDataset, WritesFiles: true},
	ToolSplitDataset:  {Name: ToolSplitDataset, Category: CategoryDataset, WritesFiles: true},
	ToolValidatePairs: {Name: ToolValidatePairs, Category: CategoryDataset},

	ToolRunPipeline: {Name: ToolRunPipeline, Category: CategoryPipeline, WritesFiles: true},

	ToolCheckDependencies: {Name: ToolCheckDependencies, Category: CategoryDelegate},
	ToolLoadMetadata:      {Name: ToolLoadMetadata, Category: CategoryDelegate},
	ToolMergeFiles:        {Name: ToolMergeFiles, Category: CategoryDelegate, WritesFiles: true},
}

// GetMetadata returns the classification of one tool.
func GetMetadata(name string) (Metadata, bool) {
	m, ok := metadata[name]
	return m, ok
}
