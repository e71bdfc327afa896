package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func titles(ss []Suggestion) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.Title)
	}
	return out
}

func firedDetectors(source, language string) []string {
	c := newAnalysisContext(source, language)
	var out []string
	for _, d := range detectors {
		if _, ok := d.detect(c); ok {
			out = append(out, d.name)
		}
	}
	return out
}

func repeatLines(line string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = line
	}
	return strings.Join(parts, "\n")
}

func TestSuggestDetectors(t *testing.T) {
	cases := []struct {
		name     string
		source   string
		language string
		want     []string
	}{
		{
			name:     "nested loops",
			source:   "for (let i=0;i<n;i++) { for (let j=0;j<n;j++) {} }",
			language: "javascript",
			want:     []string{detectNestedLoops},
		},
		{
			name:     "network call without handling",
			source:   "fetch('/api/users').then(r => r.json());",
			language: "javascript",
			want:     []string{detectNetworkErrors},
		},
		{
			name:     "async without handling",
			source:   "async function load() {\n  const data = await db.query();\n  return data;\n}",
			language: "javascript",
			want:     []string{detectAsyncErrors, detectReturnDoc},
		},
		{
			name:     "async with fetch only reports the network rule",
			source:   "async function load() {\n  const res = await fetch(url);\n  return res;\n}",
			language: "javascript",
			want:     []string{detectNetworkErrors, detectReturnDoc},
		},
		{
			name:     "try block silences both error rules",
			source:   "async function load() {\n  try {\n    await fetch(url);\n  } catch (e) {}\n}",
			language: "python",
			want:     nil,
		},
		{
			name:     "var is javascript only",
			source:   "var x = 1;\nvar y = 2;",
			language: "python",
			want:     nil,
		},
		{
			name:     "magic numbers",
			source:   "total = 100 * 24 + 365 - 7",
			language: "python",
			want:     []string{detectMagicNumbers},
		},
		{
			name:     "named constant silences magic numbers",
			source:   "const MAX_DAYS = 365;\ntotal = 100 + 24 + 365",
			language: "python",
			want:     nil,
		},
		{
			name:     "input validation",
			source:   "function greet(name, greeting) {\n  return greeting + name;\n}",
			language: "javascript",
			want:     []string{detectInputValidation, detectReturnDoc},
		},
		{
			name:     "console log",
			source:   "console.log(a);\nconsole.log(b);",
			language: "python",
			want:     []string{detectConsoleLog},
		},
		{
			name:     "promise chain",
			source:   "promise.then(x => x.then(y => y));",
			language: "python",
			want:     []string{detectPromiseChain},
		},
		{
			name:     "dom lookup",
			source:   "const el = document.getElementById('app');\nel.textContent = 'hi';",
			language: "python",
			want:     []string{detectDOMLookup},
		},
		{
			name:     "guarded dom lookup",
			source:   "const el = document.getElementById('app');\nif (el) { el.textContent = 'hi'; }",
			language: "python",
			want:     nil,
		},
		{
			name:     "loose equality",
			source:   "if (a == b) {}",
			language: "python",
			want:     []string{detectLooseEquality},
		},
		{
			name:     "strict equality",
			source:   "if (a === b) {}",
			language: "python",
			want:     nil,
		},
		{
			name:     "documented return",
			source:   "/** @returns {number} */\nfunction one() {\n  return 1;\n}",
			language: "javascript",
			want:     nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := firedDetectors(tc.source, tc.language)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("fired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSuggestNestedLoopScenario(t *testing.T) {
	got := Suggest("for (let i=0;i<n;i++) { for (let j=0;j<n;j++) {} }", "javascript")
	if len(got) == 0 || got[0].Title != "Optimize Nested Loops" {
		t.Fatalf("expected nested loop suggestion first, got %v", titles(got))
	}
}

func TestSuggestVarCount(t *testing.T) {
	got := Suggest("var x = 1;\nvar y = 2;", "javascript")
	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %v", titles(got))
	}
	if got[0].Title != `Replace "var" with "const" or "let"` {
		t.Fatalf("unexpected title %q", got[0].Title)
	}
	if !strings.Contains(got[0].Description, `Found 2 use(s) of "var"`) {
		t.Fatalf("description does not report count: %q", got[0].Description)
	}
}

func TestSuggestFallbackWhenNothingFires(t *testing.T) {
	got := Suggest("x = 5;", "javascript")
	if !reflect.DeepEqual(got, FallbackSuggestions()) {
		t.Fatalf("expected fallback suggestions, got %v", titles(got))
	}
	want := []string{"Consider Adding Unit Tests", "Add Type Safety with TypeScript"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("fallback order = %v, want %v", titles(got), want)
	}
}

func TestSuggestCapsInDetectorOrder(t *testing.T) {
	src := "for (var i=0;i<10;i++) { for (var j=0;j<10;j++) { console.log(i == j) } }"
	fired := firedDetectors(src, "javascript")
	want := []string{detectNestedLoops, detectVarKeyword, detectConsoleLog, detectLooseEquality}
	if !reflect.DeepEqual(fired, want) {
		t.Fatalf("fired = %v, want %v", fired, want)
	}
	got := Suggest(src, "javascript")
	if len(got) != MaxSuggestions {
		t.Fatalf("len = %d, want %d", len(got), MaxSuggestions)
	}
	wantTitles := []string{"Optimize Nested Loops", `Replace "var" with "const" or "let"`, "Use Proper Logging Instead of console.log"}
	if !reflect.DeepEqual(titles(got), wantTitles) {
		t.Fatalf("titles = %v, want %v", titles(got), wantTitles)
	}
}

func TestSuggestMagicNumberExamples(t *testing.T) {
	got := Suggest("total = 100 * 24 + 365 - 7 + 4096", "python")
	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %v", titles(got))
	}
	if !strings.Contains(got[0].Description, "Hard-coded values like 100, 24, 365 make code") {
		t.Fatalf("description should list the first three literals: %q", got[0].Description)
	}
}

func TestMagicNumbersSkipIdentifierDigits(t *testing.T) {
	got := magicNumbers("v2 = item42 + 7 + 12.50 + x_99 + 1e10 + 300")
	want := []string{"12", "50", "300"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("magicNumbers = %v, want %v", got, want)
	}
}

func TestSuggestInputValidationExampleUsesSignature(t *testing.T) {
	got := Suggest("function greet(name, greeting) {\n  return greeting + name;\n}", "javascript")
	if len(got) == 0 || got[0].Title != "Add Input Validation" {
		t.Fatalf("expected input validation first, got %v", titles(got))
	}
	for _, want := range []string{"function greet(name, greeting) {", "if (!name) {", "'name is required'"} {
		if !strings.Contains(got[0].Example, want) {
			t.Fatalf("example missing %q:\n%s", want, got[0].Example)
		}
	}
}

func TestSuggestLengthThresholdsCountNonBlankLines(t *testing.T) {
	body := "function run() {\n" + repeatLines("  step();", 9) + "\n}"
	if got := firedDetectors(body, "python"); !reflect.DeepEqual(got, []string{detectDocComment}) {
		t.Fatalf("11 non-blank lines: fired = %v", got)
	}

	short := "function run() {\n\n\n\n\n" + repeatLines("  step();", 8) + "\n}"
	if got := firedDetectors(short, "python"); got != nil {
		t.Fatalf("10 non-blank lines padded with blanks should not fire, got %v", got)
	}

	long := "function run() {\n" + repeatLines("  step();", 25) + "\n}"
	got := firedDetectors(long, "python")
	if !reflect.DeepEqual(got, []string{detectDocComment, detectLargeFunction}) {
		t.Fatalf("27 non-blank lines: fired = %v", got)
	}
}
