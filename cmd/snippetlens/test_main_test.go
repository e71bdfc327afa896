package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snippetlens/internal/analysis"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromStdinAsJSON(t *testing.T) {
	out, err := execute(t, "function add(a, b) {\n  return a + b;\n}",
		"analyze", "-", "--format", "json", "--language", "javascript", "--backend", "rules", "--color", "off")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	var res analysis.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if len(res.LineByLine) != 3 || res.LineByLine[0].LineNumber != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalyzeFileGuessesLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.py")
	if err := os.WriteFile(path, []byte("def walk(p):\n    return p\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "", "analyze", path, "--format", "pretty", "--language", "", "--backend", "rules", "--color", "off")
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}
	if !strings.Contains(out, "This python code snippet contains 2 lines.") {
		t.Fatalf("language was not guessed from extension:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color should be off")
	}
}

func TestAnalyzeRejectsEmptyInput(t *testing.T) {
	if _, err := execute(t, "   \n", "analyze", "-", "--format", "json", "--backend", "rules", "--color", "off"); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "x = 1", "analyze", "-", "--format", "yaml", "--backend", "rules", "--color", "off"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLanguagesCommand(t *testing.T) {
	out, err := execute(t, "", "languages", "--color", "off")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "javascript (default)\n") || !strings.Contains(out, "\nrust\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestLanguageForPath(t *testing.T) {
	cases := map[string]string{
		"-":         analysis.DefaultLanguage,
		"main.go":   "go",
		"App.TSX":   "typescript",
		"README.md": analysis.DefaultLanguage,
	}
	for in, want := range cases {
		if got := languageForPath(in); got != want {
			t.Errorf("languageForPath(%q) = %q, want %q", in, got, want)
		}
	}
}
