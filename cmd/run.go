package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oceankit/oceankit/internal/app"
	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/tools"
	"github.com/spf13/cobra"
)

var runParams string

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Run one tool directly, without a model",
	Long: `Run a registered tool by name with JSON parameters and print its
result as JSON. Use "oceankit tools" to list the available tools.

Example:
  oceankit run load_data --params '{"file_path": "argo_profiles.csv"}'
  oceankit run clean_data --params '{"file_path": "in.csv", "output_path": "out.csv"}'`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runParams, "params", "{}", "tool parameters as a JSON object")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	var input map[string]any
	if err := json.Unmarshal([]byte(runParams), &input); err != nil {
		return fmt.Errorf("parsing --params: %w", err)
	}

	res := a.Registry.Dispatch(cmd.Context(), args[0], input)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if res.Status == tools.StatusError {
		return fmt.Errorf("tool %s failed: %s", args[0], res.Message)
	}
	return nil
}
