package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Non-blank line counts above which a snippet counts as long.
const (
	docCommentMinLines = 10
	decomposeMinLines  = 25
)

var (
	reNestedFor      = regexp.MustCompile(`(?s)for\s*\([^)]*\)\s*\{[^}]*for\s*\(`)
	reVarKeyword     = regexp.MustCompile(`\bvar\b`)
	reWordRun        = regexp.MustCompile(`[A-Za-z0-9_]+`)
	reUpperConst     = regexp.MustCompile(`const\s+[A-Z_]+\s*=`)
	reFuncWithParams = regexp.MustCompile(`function\s+\w+\s*\([^)]+\)`)
	reFuncSignature  = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]+)\)`)
	reConsoleLog     = regexp.MustCompile(`console\.log\(`)
	reThenChain      = regexp.MustCompile(`\.then\([^)]*\.then\(`)
	reNamedFunc      = regexp.MustCompile(`function\s+\w+`)
)

// Detector names, in evaluation order.
const (
	detectNestedLoops     = "nested-loops"
	detectNetworkErrors   = "network-error-handling"
	detectAsyncErrors     = "async-error-handling"
	detectVarKeyword      = "var-keyword"
	detectMagicNumbers    = "magic-numbers"
	detectInputValidation = "input-validation"
	detectConsoleLog      = "console-log"
	detectPromiseChain    = "promise-chain"
	detectDocComment      = "doc-comment"
	detectDOMLookup       = "dom-lookup"
	detectLooseEquality   = "loose-equality"
	detectLargeFunction   = "large-function"
	detectReturnDoc       = "return-doc"
)

type detector struct {
	name   string
	detect func(c *analysisContext) (Suggestion, bool)
}

// detectors run independently over the whole snippet. Some carry explicit
// exclusions of each other (async vs network error handling) and those guards
// change which suggestions survive the cap, so they stay as written.
var detectors = []detector{
	{detectNestedLoops, detectNestedLoopsRule},
	{detectNetworkErrors, detectNetworkErrorsRule},
	{detectAsyncErrors, detectAsyncErrorsRule},
	{detectVarKeyword, detectVarKeywordRule},
	{detectMagicNumbers, detectMagicNumbersRule},
	{detectInputValidation, detectInputValidationRule},
	{detectConsoleLog, detectConsoleLogRule},
	{detectPromiseChain, detectPromiseChainRule},
	{detectDocComment, detectDocCommentRule},
	{detectDOMLookup, detectDOMLookupRule},
	{detectLooseEquality, detectLooseEqualityRule},
	{detectLargeFunction, detectLargeFunctionRule},
	{detectReturnDoc, detectReturnDocRule},
}

// Suggest returns at most MaxSuggestions hints for source, in detector order.
// When nothing fires it returns FallbackSuggestions.
func Suggest(source, language string) []Suggestion {
	return newAnalysisContext(source, language).suggest()
}

func (c *analysisContext) suggest() []Suggestion {
	var out []Suggestion
	for _, d := range detectors {
		if s, ok := d.detect(c); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = FallbackSuggestions()
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FallbackSuggestions is the fixed pair used when no detector fires.
func FallbackSuggestions() []Suggestion {
	return []Suggestion{
		{
			Title:       "Consider Adding Unit Tests",
			Description: "Well-tested code is more maintainable and reliable. Consider writing unit tests for your functions to catch bugs early.",
			Example:     "// Using Jest or similar:\ntest(\"should calculate total correctly\", () => {\n  expect(calculateTotal(10, 5)).toBe(15);\n});",
		},
		{
			Title:       "Add Type Safety with TypeScript",
			Description: "TypeScript catches type errors at compile time, improving code quality and developer experience with better autocomplete.",
			Example:     "// TypeScript version:\nfunction greet(name: string): string {\n  return `Hello, ${name}`;\n}\n// Editor will catch: greet(123) // Error: number not assignable to string",
		},
	}
}

func (c *analysisContext) hasErrorHandling() bool {
	return c.hasAny("catch", "try")
}

func detectNestedLoopsRule(c *analysisContext) (Suggestion, bool) {
	if !reNestedFor.MatchString(c.source) {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Optimize Nested Loops",
		Description: "Nested loops can have O(n²) complexity. Consider using hash maps, array methods like .find(), or refactoring to reduce iterations.",
		Example:     "// Instead of nested loops:\nconst item = array.find(x => x.id === targetId);\n// Or use a Map for O(1) lookups:\nconst map = new Map(items.map(i => [i.id, i]));",
	}, true
}

func detectNetworkErrorsRule(c *analysisContext) (Suggestion, bool) {
	if !c.hasAny("fetch(", "axios") || c.hasErrorHandling() {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Add Error Handling for Network Requests",
		Description: "Network requests can fail due to connectivity issues, server errors, or timeouts. Always handle errors to provide a better user experience.",
		Example:     "try {\n  const response = await fetch(url);\n  if (!response.ok) throw new Error(`HTTP ${response.status}`);\n  const data = await response.json();\n} catch (error) {\n  console.error(\"Failed to fetch:\", error);\n  // Show error message to user\n}",
	}, true
}

// detectAsyncErrorsRule skips snippets with fetch so it does not repeat the
// network rule.
func detectAsyncErrorsRule(c *analysisContext) (Suggestion, bool) {
	if !c.has("async ") || c.hasErrorHandling() || c.has("fetch") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Add Try-Catch for Async Operations",
		Description: "Async functions can reject/throw errors. Wrap await statements in try-catch to handle failures gracefully.",
		Example:     "async function getData() {\n  try {\n    const result = await someAsyncOperation();\n    return result;\n  } catch (error) {\n    console.error(\"Operation failed:\", error);\n    return null; // or throw with context\n  }\n}",
	}, true
}

func detectVarKeywordRule(c *analysisContext) (Suggestion, bool) {
	if c.language != "javascript" || !c.has("var ") {
		return Suggestion{}, false
	}
	count := len(reVarKeyword.FindAllStringIndex(c.source, -1))
	return Suggestion{
		Title:       `Replace "var" with "const" or "let"`,
		Description: fmt.Sprintf(`Found %d use(s) of "var". Use "const" for values that won't change, "let" for values that will. This provides better scoping (block vs function) and prevents hoisting issues.`, count),
		Example:     "const API_URL = \"https://api.example.com\"; // won't change\nlet counter = 0; // will change\n\n// \"var\" has function scope and hoisting issues:\nvar x = 1; // can leak outside blocks",
	}, true
}

// magicNumbers lists numeric literals of two or more digits that are not part
// of a longer identifier, in source order.
func magicNumbers(source string) []string {
	var out []string
	for _, tok := range reWordRun.FindAllString(source, -1) {
		if len(tok) >= 2 && reAllDigits.MatchString(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func detectMagicNumbersRule(c *analysisContext) (Suggestion, bool) {
	nums := magicNumbers(c.source)
	if len(nums) < 3 || reUpperConst.MatchString(c.source) {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Extract Magic Numbers to Named Constants",
		Description: "Hard-coded values like " + strings.Join(nums[:3], ", ") + " make code harder to understand and maintain. Use descriptive constant names.",
		Example:     "const MAX_RETRY_ATTEMPTS = 3;\nconst TIMEOUT_MILLISECONDS = 5000;\nconst MIN_PASSWORD_LENGTH = 8;\n\n// More readable:\nif (password.length < MIN_PASSWORD_LENGTH) { ... }",
	}, true
}

func detectInputValidationRule(c *analysisContext) (Suggestion, bool) {
	if !reFuncWithParams.MatchString(c.source) || c.hasAny("if", "throw", "assert") {
		return Suggestion{}, false
	}
	m := reFuncSignature.FindStringSubmatch(c.source)
	if m == nil {
		return Suggestion{}, false
	}
	name, params := m[1], m[2]
	first, _, _ := strings.Cut(params, ",")
	first = strings.TrimSpace(first)
	return Suggestion{
		Title:       "Add Input Validation",
		Description: "Functions should validate their inputs to fail fast with clear error messages rather than causing issues later in execution.",
		Example:     fmt.Sprintf("function %s(%s) {\n  if (!%s) {\n    throw new Error('%s is required');\n  }\n  // rest of function...\n}", name, params, first, first),
	}, true
}

func detectConsoleLogRule(c *analysisContext) (Suggestion, bool) {
	if !c.has("console.log(") {
		return Suggestion{}, false
	}
	count := len(reConsoleLog.FindAllStringIndex(c.source, -1))
	return Suggestion{
		Title:       "Use Proper Logging Instead of console.log",
		Description: fmt.Sprintf("Found %d console.log statement(s). Consider using a proper logging library or remove before production. For debugging, use console.debug() or a logger with levels.", count),
		Example:     "// Development:\nif (process.env.NODE_ENV === \"development\") {\n  console.debug(\"Debug info:\", data);\n}\n\n// Or use a logger:\nimport logger from \"./logger\";\nlogger.info(\"User logged in\", { userId });",
	}, true
}

func detectPromiseChainRule(c *analysisContext) (Suggestion, bool) {
	if !c.has(".then(") || !reThenChain.MatchString(c.source) {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Refactor Promise Chains to Async/Await",
		Description: "Long .then() chains are harder to read and debug. Use async/await for cleaner, more maintainable asynchronous code.",
		Example:     "// Instead of:\n// fetch().then(r => r.json()).then(data => process(data)).then(...)\n\n// Use:\nasync function fetchData() {\n  const response = await fetch(url);\n  const data = await response.json();\n  return processData(data);\n}",
	}, true
}

func detectDocCommentRule(c *analysisContext) (Suggestion, bool) {
	if c.nonBlank <= docCommentMinLines || !c.has("function") || c.has("/**") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Add JSDoc Documentation",
		Description: "This function is complex enough to warrant documentation. Use JSDoc to describe parameters, return values, and purpose.",
		Example:     "/**\n * Processes user data and saves to database\n * @param {Object} userData - The user data object\n * @param {string} userData.email - User email address\n * @param {string} userData.name - User full name\n * @returns {Promise<Object>} The saved user object\n * @throws {ValidationError} If user data is invalid\n */\nasync function processUser(userData) { ... }",
	}, true
}

func detectDOMLookupRule(c *analysisContext) (Suggestion, bool) {
	if !c.has("document.getElementById") || c.has("if (") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Check DOM Elements Before Manipulating",
		Description: `Always verify DOM elements exist before manipulating them to avoid "Cannot read property of null" errors.`,
		Example:     "const element = document.getElementById(\"myId\");\nif (element) {\n  element.textContent = \"Updated\";\n} else {\n  console.warn(\"Element not found: myId\");\n}",
	}, true
}

func detectLooseEqualityRule(c *analysisContext) (Suggestion, bool) {
	if !c.has("==") || c.has("===") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Use Strict Equality (===)",
		Description: "Use === instead of == to avoid type coercion bugs. Strict equality checks both value and type.",
		Example:     "// Bad: Uses type coercion\nif (value == \"5\") // true for both \"5\" and 5\n\n// Good: Strict comparison\nif (value === \"5\") // only true for string \"5\"",
	}, true
}

func detectLargeFunctionRule(c *analysisContext) (Suggestion, bool) {
	if c.nonBlank <= decomposeMinLines || !c.has("function") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Break Down Large Functions",
		Description: "This function is quite long. Consider breaking it into smaller, focused functions that each do one thing well. Aim for functions under 20-30 lines.",
		Example:     "// Instead of one large function:\nfunction processOrder(order) {\n  const validated = validateOrder(order);\n  const calculated = calculateTotal(validated);\n  const saved = saveOrder(calculated);\n  return notifyUser(saved);\n}",
	}, true
}

func detectReturnDocRule(c *analysisContext) (Suggestion, bool) {
	if c.language != "javascript" || !reNamedFunc.MatchString(c.source) || !c.has("return ") || c.hasAny("@returns", "@return") {
		return Suggestion{}, false
	}
	return Suggestion{
		Title:       "Document Return Values",
		Description: "Functions that return values should document what they return using JSDoc @returns tag for better IDE support and clarity.",
		Example:     "/**\n * @returns {number} The calculated total price\n */\nfunction calculateTotal() { ... }",
	}, true
}
