package analysis

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeFunctionScenario(t *testing.T) {
	res, err := Analyze(Request{SourceText: "function add(a, b) {\n  return a + b;\n}", Language: "javascript"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.LineByLine) != 3 {
		t.Fatalf("expected 3 explanations, got %d", len(res.LineByLine))
	}
	first := res.LineByLine[0]
	if first.LineNumber != 1 || !strings.Contains(first.Explanation, "'add'") || !strings.Contains(first.Explanation, "a, b") {
		t.Fatalf("unexpected first line: %+v", first)
	}
	second := res.LineByLine[1]
	if second.Code != "  return a + b;" {
		t.Fatalf("code should be the untrimmed line, got %q", second.Code)
	}
	if !strings.HasPrefix(second.Explanation, "Returns the value: a + b.") {
		t.Fatalf("unexpected return explanation %q", second.Explanation)
	}
	if got := res.LineByLine[2].Explanation; !strings.HasPrefix(got, "Closes the current code block") {
		t.Fatalf("unexpected closing explanation %q", got)
	}
	if !strings.HasPrefix(res.Overview, "This javascript code snippet contains 3 lines.") {
		t.Fatalf("unexpected overview %q", res.Overview)
	}
}

func TestAnalyzeSkipsBlankAndCommentLines(t *testing.T) {
	res, err := Analyze(Request{SourceText: "  // just a comment\n\nx = 5;", Language: "javascript"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.LineByLine) != 1 {
		t.Fatalf("expected one explanation, got %+v", res.LineByLine)
	}
	if res.LineByLine[0].LineNumber != 3 {
		t.Fatalf("line number = %d, want 3", res.LineByLine[0].LineNumber)
	}
}

func TestAnalyzeCommentMarkers(t *testing.T) {
	src := "# shell style\n/* block */\n * continued\n// line\n#include <stdio.h>\nint x = 1;"
	got := Explain(src, "cpp")
	if len(got) != 1 || got[0].LineNumber != 6 {
		t.Fatalf("expected only line 6, got %+v", got)
	}
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\t\n"} {
		if _, err := Analyze(Request{SourceText: src, Language: "javascript"}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Analyze(%q) err = %v, want ErrInvalidInput", src, err)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	req := Request{
		SourceText: "const api = require('axios');\nvar n = 10;\nfor (const x of xs) {\n  console.log(x == n);\n}",
		Language:   "javascript",
	}
	a, err := Analyze(req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	b, err := Analyze(req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatalf("results differ:\n%s\n%s", ja, jb)
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	samples := []string{
		"x",
		"\n\n\nreturn 1;\n\n",
		"// only comments\n# more\n",
		"def f(a):\n    return a\n",
		"class A extends B {\n  constructor() { super(); }\n}\n",
		strings.Repeat("function f(x) { return x * 1000; }\n", 30),
	}
	for _, src := range samples {
		res, err := Analyze(Request{SourceText: src, Language: "javascript"})
		if err != nil {
			t.Fatalf("analyze %q: %v", src, err)
		}
		lines := strings.Split(src, "\n")
		prev := 0
		for _, le := range res.LineByLine {
			if le.LineNumber <= prev {
				t.Fatalf("line numbers not increasing in %q: %+v", src, res.LineByLine)
			}
			prev = le.LineNumber
			trimmed := strings.TrimSpace(lines[le.LineNumber-1])
			if trimmed == "" || isCommentLine(trimmed) {
				t.Fatalf("line %d should have been skipped", le.LineNumber)
			}
			if le.Code != lines[le.LineNumber-1] || le.Explanation == "" {
				t.Fatalf("bad explanation %+v", le)
			}
		}
		if n := len(res.Suggestions); n < 1 || n > MaxSuggestions {
			t.Fatalf("suggestion count %d out of range for %q", n, src)
		}
	}
}

func TestAnalyzeEmptyExplanationsEncodeAsArray(t *testing.T) {
	res, err := Analyze(Request{SourceText: "// nothing but a comment", Language: "javascript"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"lineByLine":[]`) {
		t.Fatalf("expected empty array, got %s", raw)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":           DefaultLanguage,
		"  Python ":  "python",
		"JAVASCRIPT": "javascript",
		"brainfuck":  "brainfuck",
	}
	for in, want := range cases {
		if got := NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsKnownLanguage("rust") || IsKnownLanguage("cobol") {
		t.Fatalf("IsKnownLanguage mismatch")
	}
	if !reflect.DeepEqual(Languages[0], DefaultLanguage) {
		t.Fatalf("default language should lead the list")
	}
}
