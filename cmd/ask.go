package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/oceankit/oceankit/internal/app"
	"github.com/oceankit/oceankit/internal/config"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

const askSystemPrompt = `You are an oceanographic data preprocessing assistant.
You prepare observation data (Argo profiles, satellite SST fields, mooring
records) for analysis and machine learning using the registered tools.

Rules:
- Always inspect a file with load_data or describe_data before processing it.
- Tools report failures in their result payload; read the error field and
  adjust instead of repeating the same call.
- Tools never modify input files; pass output_path when the user wants the
  processed data written somewhere.
- Summarize warnings (dropped rows, filled gaps, outliers) for the user.`

const askMaxTurns = 10

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the model to run preprocessing steps for you",
	Long: `Send a natural-language request to Gemini with every oceankit tool
registered. The model decides which tools to call and in what order.

Requires GEMINI_API_KEY (or OCEANKIT_GEMINI_API_KEY) to be set.

Example:
  oceankit ask "clean argo_2024.csv and tell me which fields look suspicious"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the raw answer without markdown rendering")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return errors.New("initializing genkit with the googleai plugin")
	}
	a.Registry.Register(g)

	question := strings.Join(args, " ")
	response, err := genkit.Generate(ctx, g,
		ai.WithModelName("googleai/"+cfg.ModelName),
		ai.WithSystem(askSystemPrompt),
		ai.WithPrompt(question),
		ai.WithTools(a.Registry.Refs(g)...),
		ai.WithMaxTurns(askMaxTurns),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(cfg.Temperature),
		}),
	)
	if err != nil {
		return fmt.Errorf("generating response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderAnswer(response.Text()))
	return nil
}

// renderAnswer formats markdown for the terminal, falling back to plain
// text when the renderer is unavailable.
func renderAnswer(text string) string {
	if askPlain {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
