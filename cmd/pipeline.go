package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oceankit/oceankit/internal/app"
	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/pipeline"
	"github.com/oceankit/oceankit/internal/tools"
	"github.com/spf13/cobra"
)

var (
	pipelineFile      string
	pipelineOutput    string
	pipelineOutputDir string
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <preset>",
	Short: "Run a preprocessing workflow preset",
	Long: fmt.Sprintf(`Run a named workflow preset over a CSV or JSON table.

Available presets: %v

Example:
  oceankit pipeline standard --file argo.csv --output cleaned.csv
  oceankit pipeline ml_training --file sst_grid.csv --output-dir ./training`, pipeline.PresetNames()),
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineFile, "file", "", "input table (required)")
	pipelineCmd.Flags().StringVar(&pipelineOutput, "output", "", "path for the processed table")
	pipelineCmd.Flags().StringVar(&pipelineOutputDir, "output-dir", "", "directory for mask and split files")
	_ = pipelineCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	input := map[string]any{
		"file_path": pipelineFile,
		"preset":    args[0],
	}
	if pipelineOutput != "" {
		input["output_path"] = pipelineOutput
	}
	if pipelineOutputDir != "" {
		input["output_dir"] = pipelineOutputDir
	}

	res := a.Registry.Dispatch(cmd.Context(), tools.ToolRunPipeline, input)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if res.Status == tools.StatusError {
		return fmt.Errorf("preset %s failed: %s", args[0], res.Message)
	}
	return nil
}
