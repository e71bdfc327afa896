package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"snippetlens/internal/analysis"
	"snippetlens/internal/llm"
	llmclient "snippetlens/internal/llmClient"
	"snippetlens/internal/render"
)

const (
	formatPretty = "pretty"
	formatJSON   = "json"

	backendRules  = "rules"
	backendGemini = "gemini"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Explain a snippet read from a file or stdin",
	Long: `Analyze reads a snippet from the given file, or from stdin when the
argument is "-" or omitted, and prints its overview, line-by-line
explanation and suggestions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("language", "l", "", "language label (default: guessed from the file extension, else javascript)")
	analyzeCmd.Flags().String("format", formatPretty, "output format (pretty|json)")
	analyzeCmd.Flags().String("backend", backendRules, "analysis backend (rules|gemini)")
	analyzeCmd.Flags().String("model", llmclient.DefaultGeminiModel, "gemini model name")
	analyzeCmd.Flags().Duration("timeout", 60*time.Second, "overall timeout for the gemini backend")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != formatPretty && format != formatJSON {
		return fmt.Errorf("unknown format %q (want pretty|json)", format)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor, err := render.ColorMode(colorFlag)
	if err != nil {
		return err
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	source, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	language, _ := cmd.Flags().GetString("language")
	if strings.TrimSpace(language) == "" {
		language = languageForPath(path)
	}
	req := analysis.Request{SourceText: source, Language: analysis.NormalizeLanguage(language)}

	res, err := analyzeWith(cmd, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return render.JSON(out, res)
	}
	return render.Pretty(out, res, render.Options{Color: useColor})
}

func analyzeWith(cmd *cobra.Command, req analysis.Request) (analysis.Result, error) {
	backend, _ := cmd.Flags().GetString("backend")
	switch backend {
	case backendRules, "":
		return analysis.Analyze(req)
	case backendGemini:
	default:
		return analysis.Result{}, fmt.Errorf("unknown backend %q (want rules|gemini)", backend)
	}

	model, _ := cmd.Flags().GetString("model")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	gemini, err := llmclient.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), model)
	if err != nil {
		return analysis.Result{}, fmt.Errorf("gemini: %w", err)
	}
	client := llm.Wrap(gemini,
		llm.WithLogging(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)),
		llm.Retry(3, 500*time.Millisecond),
	)
	analyzer := llm.NewAnalyzer(client)
	defer analyzer.Close()
	return analyzer.Analyze(ctx, req)
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

var extLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".java": "java",
	".c":    "cpp",
	".cc":   "cpp",
	".cpp":  "cpp",
	".h":    "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".go":   "go",
	".rs":   "rust",
}

// languageForPath guesses a label from the file extension.
func languageForPath(path string) string {
	if path == "-" {
		return analysis.DefaultLanguage
	}
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return analysis.DefaultLanguage
}
