package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/oceankit/oceankit/internal/app"
	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools by category",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	writesStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

func runTools(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	byCategory := make(map[tools.Category][]*tools.ExecutableTool)
	for _, t := range a.Registry.All() {
		meta, ok := tools.GetMetadata(t.Name())
		if !ok {
			continue
		}
		byCategory[meta.Category] = append(byCategory[meta.Category], t)
	}

	order := []tools.Category{
		tools.CategoryIngest,
		tools.CategoryTransform,
		tools.CategoryQC,
		tools.CategoryMask,
		tools.CategoryDataset,
		tools.CategoryPipeline,
		tools.CategoryDelegate,
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d tools registered\n", a.Registry.Count())
	for _, cat := range order {
		ts := byCategory[cat]
		if len(ts) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", categoryStyle.Render(string(cat)))
		for _, t := range ts {
			meta, _ := tools.GetMetadata(t.Name())
			line := "  " + nameStyle.Render(t.Name())
			if meta.WritesFiles {
				line += " " + writesStyle.Render("[writes files]")
			}
			fmt.Fprintln(out, line)
			fmt.Fprintf(out, "    %s\n", descStyle.Render(t.Description()))
		}
	}
	if a.Delegate == nil {
		fmt.Fprintf(out, "\n%s\n", descStyle.Render(
			"Delegate tools are hidden: no Python helper configured (delegate.python, delegate.script)."))
	}
	return nil
}
