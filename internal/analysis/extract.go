package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// capture returns submatch group of the leftmost match of re in s.
// ok is false when re does not match or the group did not take part.
func capture(re *regexp.Regexp, s string, group int) (string, bool) {
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil || 2*group+1 >= len(idx) || idx[2*group] < 0 {
		return "", false
	}
	return s[idx[2*group]:idx[2*group+1]], true
}

// captureNonEmpty is capture that also rejects an empty group.
func captureNonEmpty(re *regexp.Regexp, s string, group int) (string, bool) {
	v, ok := capture(re, s, group)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

var reStatementTail = regexp.MustCompile(`;.*$`)

// stripStatementTail drops everything from the first semicolon on.
func stripStatementTail(s string) string {
	return reStatementTail.ReplaceAllString(s, "")
}

func textLen(s string) int {
	return utf8.RuneCountInString(s)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

// analysisContext carries the per-call view of a snippet shared by all passes.
type analysisContext struct {
	source   string
	language string
	lines    []string
	nonBlank int
}

func newAnalysisContext(source, language string) *analysisContext {
	lines := strings.Split(source, "\n")
	nonBlank := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonBlank++
		}
	}
	return &analysisContext{
		source:   source,
		language: language,
		lines:    lines,
		nonBlank: nonBlank,
	}
}

func (c *analysisContext) has(sub string) bool {
	return strings.Contains(c.source, sub)
}

func (c *analysisContext) hasAny(subs ...string) bool {
	return containsAny(c.source, subs...)
}
