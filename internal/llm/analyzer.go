package llm

import (
	"context"
	"fmt"
	"strings"

	"snippetlens/internal/analysis"
	llmclient "snippetlens/internal/llmClient"
	"snippetlens/internal/util/jsonutil"
)

const analyzePrompt = `Analyze the %s code in [INPUT JSON] and respond in JSON format.

The JSON structure should be:
{
  "overview": "A brief summary of what the code does.",
  "line_by_line": [
    {"line_number": 1, "code": "code snippet", "explanation": "Explanation of this specific line."}
  ],
  "suggestions": [
    {"title": "Suggestion Title", "description": "Why this suggestion helps.", "example": "Code example of the improvement."}
  ]
}

Rules:
1. "line_by_line" should only include meaningful lines (skip empty lines or just brackets if they don't add context). Line numbers are 1-based positions in the input.
2. Provide at most 3 top "suggestions" for improvement. If code is perfect, suggest best practices or tests.
3. Ensure the response is VALID JSON. Do not include markdown formatting like ` + "```json ... ```" + `.`

type promptInput struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type wireLine struct {
	LineNumber  int    `json:"line_number"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

type wireSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

type wireResult struct {
	Overview    string           `json:"overview"`
	LineByLine  []wireLine       `json:"line_by_line"`
	Suggestions []wireSuggestion `json:"suggestions"`
}

// Analyzer produces an analysis.Result by asking a model instead of running
// the rule engine. Model output is normalized so callers see the same shape
// and invariants as the rule engine guarantees.
type Analyzer struct {
	client llmclient.LLMClient
}

func NewAnalyzer(client llmclient.LLMClient) *Analyzer {
	return &Analyzer{client: client}
}

func (a *Analyzer) Name() string { return a.client.Name() }

func (a *Analyzer) Close() error { return a.client.Close() }

func (a *Analyzer) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return analysis.Result{}, analysis.ErrInvalidInput
	}
	lang := analysis.NormalizeLanguage(req.Language)
	raw, err := a.client.GenerateJSON(ctx, fmt.Sprintf(analyzePrompt, lang), promptInput{Language: lang, Code: req.SourceText})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("llm analyze: %w", err)
	}
	var out wireResult
	if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
		return analysis.Result{}, fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
	}
	return normalizeResult(out, req.SourceText, lang), nil
}

// normalizeResult enforces line ordering, the suggestion cap and the
// non-empty suggestion list on a decoded model response.
func normalizeResult(w wireResult, source, language string) analysis.Result {
	lines := strings.Split(source, "\n")
	res := analysis.Result{
		Overview:   strings.TrimSpace(w.Overview),
		LineByLine: make([]analysis.LineExplanation, 0, len(w.LineByLine)),
	}
	if res.Overview == "" {
		res.Overview = analysis.Overview(source, language, countNonBlank(lines))
	}

	prev := 0
	for _, l := range w.LineByLine {
		if l.LineNumber <= prev || l.LineNumber > len(lines) {
			continue
		}
		expl := strings.TrimSpace(l.Explanation)
		if expl == "" {
			continue
		}
		code := l.Code
		if strings.TrimSpace(code) == "" {
			code = lines[l.LineNumber-1]
		}
		res.LineByLine = append(res.LineByLine, analysis.LineExplanation{
			LineNumber:  l.LineNumber,
			Code:        code,
			Explanation: expl,
		})
		prev = l.LineNumber
	}

	for _, s := range w.Suggestions {
		if len(res.Suggestions) == analysis.MaxSuggestions {
			break
		}
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		res.Suggestions = append(res.Suggestions, analysis.Suggestion{
			Title:       title,
			Description: strings.TrimSpace(s.Description),
			Example:     s.Example,
		})
	}
	if len(res.Suggestions) == 0 {
		res.Suggestions = analysis.FallbackSuggestions()
	}
	return res
}

func countNonBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
