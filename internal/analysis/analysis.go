// Package analysis annotates source snippets with plain-language explanations.
//
// The engine does not parse anything. Each physical line is matched against an
// ordered rule table, the snippet as a whole is scanned for a fixed list of
// code-smell signatures, and a short overview is assembled from keyword hits.
// Every rule degrades to generic phrasing when a capture is missing, so the only
// error the package reports is empty input.
package analysis

import (
	"errors"
	"strings"
)

// ErrInvalidInput is returned when the snippet is empty or whitespace only.
var ErrInvalidInput = errors.New("analysis: source text is empty")

// MaxSuggestions caps the suggestion list of every result.
const MaxSuggestions = 3

// Languages is the closed set of labels offered to callers.
var Languages = []string{
	"javascript",
	"python",
	"java",
	"cpp",
	"csharp",
	"go",
	"rust",
	"typescript",
	"other",
}

// DefaultLanguage is used when a caller leaves the label empty.
const DefaultLanguage = "javascript"

// Request is one analysis input.
type Request struct {
	SourceText string `json:"sourceText"`
	Language   string `json:"language"`
}

// LineExplanation explains one non-blank, non-comment physical line.
type LineExplanation struct {
	LineNumber  int    `json:"lineNumber"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Suggestion is a single improvement hint.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
}

// Result is the full annotation of a snippet.
type Result struct {
	Overview    string            `json:"overview"`
	LineByLine  []LineExplanation `json:"lineByLine"`
	Suggestions []Suggestion      `json:"suggestions"`
}

// NormalizeLanguage lower-cases and trims a label, defaulting to DefaultLanguage.
func NormalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return DefaultLanguage
	}
	return language
}

// IsKnownLanguage reports whether language is one of Languages.
func IsKnownLanguage(language string) bool {
	for _, l := range Languages {
		if l == language {
			return true
		}
	}
	return false
}
