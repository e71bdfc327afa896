package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// Thresholds under which extracted text is quoted verbatim.
const (
	maxQuotedReturn    = 30
	maxQuotedCondition = 40
)

var (
	reFuncDecl     = regexp.MustCompile(`function\s+(\w+)`)
	reParenGroup   = regexp.MustCompile(`\((.*?)\)`)
	reDefKeyword   = regexp.MustCompile(`def\s+(\w+)`)
	reArrowAssign  = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*\([^)]*\)\s*=>`)
	reVarDecl      = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(.+)`)
	reAllDigits    = regexp.MustCompile(`^\d+$`)
	reQuoteStart   = regexp.MustCompile("^['\"`]")
	reNewType      = regexp.MustCompile(`new\s+(\w+)`)
	reIfOpen       = regexp.MustCompile(`if\s*\(`)
	reIfCondition  = regexp.MustCompile(`if\s*\((.*?)\)`)
	reElseIf       = regexp.MustCompile(`else\s+if\s*\(`)
	reForOpen      = regexp.MustCompile(`for\s*\(`)
	reWhileOpen    = regexp.MustCompile(`while\s*\(`)
	reImportFrom   = regexp.MustCompile(`import\s+.*\s+from`)
	reImportedList = regexp.MustCompile(`import\s+(.+?)\s+from`)
	reRequireArg   = regexp.MustCompile(`require\(['"](.+?)['"]\)`)
	reClassName    = regexp.MustCompile(`class\s+(\w+)`)
	reExtendsName  = regexp.MustCompile(`extends\s+(\w+)`)
	rePrintCall    = regexp.MustCompile(`print\s*\(`)
	reCatchOpen    = regexp.MustCompile(`catch\s*\(`)
	reMethodCall   = regexp.MustCompile(`\.(\w+)\(`)
)

// Rule names, in precedence order.
const (
	ruleFunctionDecl = "function-declaration"
	ruleDefKeyword   = "def-function"
	ruleArrowAssign  = "arrow-function"
	ruleReturn       = "return"
	ruleVarDecl      = "variable-declaration"
	ruleIf           = "if"
	ruleElseIf       = "else-if"
	ruleElse         = "else"
	ruleFor          = "for-loop"
	ruleWhile        = "while-loop"
	ruleMap          = "array-map"
	ruleFilter       = "array-filter"
	ruleReduce       = "array-reduce"
	ruleForEach      = "array-foreach"
	ruleFind         = "array-find"
	ruleAsyncFunc    = "async-function"
	ruleAwait        = "await"
	ruleImport       = "import"
	ruleRequire      = "require"
	ruleClass        = "class"
	ruleConsoleLog   = "console-log"
	ruleConsoleError = "console-error"
	rulePrint        = "print"
	ruleTry          = "try"
	ruleCatch        = "catch"
	ruleFinally      = "finally"
	rulePush         = "array-push"
	rulePop          = "array-pop"
	ruleMethodCall   = "method-call"
	ruleAssignment   = "assignment"
	ruleBlockOpen    = "block-open"
	ruleBlockClose   = "block-close"
	ruleStatement    = "statement"
)

const statementExplanation = "Executes a statement that performs an operation or calculation as part of the program logic."

// lineRule explains a trimmed line when it matches, reporting ok=false otherwise.
type lineRule struct {
	name    string
	explain func(line, language string) (string, bool)
}

// lineRules is evaluated top to bottom and the first match wins. Specific
// rules sit above generic ones so that, for example, a function declaration
// ending in "{" is never reported as a bare block opener.
var lineRules = []lineRule{
	{ruleFunctionDecl, explainFunctionDecl},
	{ruleDefKeyword, explainDefKeyword},
	{ruleArrowAssign, explainArrowAssign},
	{ruleReturn, explainReturn},
	{ruleVarDecl, explainVarDecl},
	{ruleIf, explainIf},
	{ruleElseIf, matchRegexp(reElseIf, "Checks an alternative condition if the previous 'if' was false. Allows testing multiple conditions sequentially.")},
	{ruleElse, explainElse},
	{ruleFor, explainFor},
	{ruleWhile, matchRegexp(reWhileOpen, "Creates a loop that continues executing as long as the condition remains true. Use caution to avoid infinite loops.")},
	{ruleMap, matchContains(".map(", "Transforms each element of an array using the provided function, creating a new array with the results.")},
	{ruleFilter, matchContains(".filter(", "Creates a new array containing only elements that pass the test implemented by the provided function.")},
	{ruleReduce, matchContains(".reduce(", "Reduces an array to a single value by executing a function on each element, accumulating the result.")},
	{ruleForEach, matchContains(".forEach(", "Executes a function once for each array element. Similar to a for loop but more functional in style.")},
	{ruleFind, matchContains(".find(", "Searches the array and returns the first element that satisfies the provided testing function.")},
	{ruleAsyncFunc, explainAsyncFunc},
	{ruleAwait, matchContains("await ", "Pauses execution until the promise resolves, then continues with the result. Makes async code read like synchronous code.")},
	{ruleImport, explainImport},
	{ruleRequire, explainRequire},
	{ruleClass, explainClass},
	{ruleConsoleLog, matchContains("console.log(", "Outputs information to the console for debugging or monitoring purposes. Useful for tracking code execution.")},
	{ruleConsoleError, matchContains("console.error(", "Outputs an error message to the console, typically used for error handling and debugging.")},
	{rulePrint, matchRegexp(rePrintCall, "Outputs text or values to the standard output (usually the screen or console).")},
	{ruleTry, matchPrefix("try {", "Begins a try block to execute code that might throw an error. Allows graceful error handling.")},
	{ruleCatch, matchRegexp(reCatchOpen, "Catches and handles any errors thrown in the try block, preventing the program from crashing.")},
	{ruleFinally, matchPrefix("finally {", "Executes code regardless of whether an error occurred, typically used for cleanup operations.")},
	{rulePush, matchContains("push(", "Adds one or more elements to the end of an array, modifying the original array.")},
	{rulePop, matchContains("pop(", "Removes and returns the last element from an array, modifying the original array.")},
	{ruleMethodCall, explainMethodCall},
	{ruleAssignment, explainAssignment},
	{ruleBlockOpen, explainBlockOpen},
	{ruleBlockClose, explainBlockClose},
	{ruleStatement, func(string, string) (string, bool) { return statementExplanation, true }},
}

// Classify returns a one-sentence explanation of line. It never returns an
// empty string: lines no rule recognizes get a generic statement sentence.
func Classify(line, language string) string {
	_, text := classify(line, language)
	return text
}

// classify also reports which rule produced the explanation.
func classify(line, language string) (string, string) {
	trimmed := strings.TrimSpace(line)
	for _, r := range lineRules {
		if text, ok := r.explain(trimmed, language); ok {
			return r.name, text
		}
	}
	return ruleStatement, statementExplanation
}

func matchContains(sub, text string) func(string, string) (string, bool) {
	return func(line, _ string) (string, bool) {
		return text, strings.Contains(line, sub)
	}
}

func matchRegexp(re *regexp.Regexp, text string) func(string, string) (string, bool) {
	return func(line, _ string) (string, bool) {
		return text, re.MatchString(line)
	}
}

func matchPrefix(prefix, text string) func(string, string) (string, bool) {
	return func(line, _ string) (string, bool) {
		return text, strings.HasPrefix(line, prefix)
	}
}

func explainFunctionDecl(line, _ string) (string, bool) {
	name, ok := capture(reFuncDecl, line, 1)
	if !ok {
		return "", false
	}
	if params, ok := captureNonEmpty(reParenGroup, line, 1); ok {
		return fmt.Sprintf("Declares a function named '%s' that accepts parameters: %s. This creates a reusable block of code.", name, params), true
	}
	return fmt.Sprintf("Declares a function named '%s' with no parameters. This creates a reusable block of code.", name), true
}

func explainDefKeyword(line, _ string) (string, bool) {
	name, ok := capture(reDefKeyword, line, 1)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Defines a Python function named '%s'. This creates a reusable code block that can be called later.", name), true
}

func explainArrowAssign(line, _ string) (string, bool) {
	name, ok := capture(reArrowAssign, line, 1)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Creates an arrow function assigned to '%s'. Arrow functions are a concise way to write functions in JavaScript.", name), true
}

func explainReturn(line, _ string) (string, bool) {
	if !strings.HasPrefix(line, "return ") {
		return "", false
	}
	value := stripStatementTail(strings.TrimPrefix(line, "return "))
	if textLen(value) < maxQuotedReturn {
		return fmt.Sprintf("Returns the value: %s. This exits the function and sends back the result to wherever it was called.", value), true
	}
	return "Returns a computed value back to the caller. This exits the current function and provides its result.", true
}

func explainVarDecl(line, _ string) (string, bool) {
	m := reVarDecl.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := m[1]
	value := stripStatementTail(m[2])
	kind := "variable"
	if strings.HasPrefix(line, "const") {
		kind = "constant"
	}

	switch {
	case containsAny(value, "require(", "import"):
		return fmt.Sprintf("Creates a %s '%s' that imports/requires an external module for use in this code.", kind, name), true
	case reAllDigits.MatchString(value):
		return fmt.Sprintf("Declares a %s '%s' and assigns it the numeric value %s.", kind, name, value), true
	case reQuoteStart.MatchString(value):
		return fmt.Sprintf("Declares a %s '%s' and assigns it a string value.", kind, name), true
	case strings.Contains(value, "new "):
		typeName, ok := capture(reNewType, value, 1)
		if !ok {
			typeName = "a class"
		}
		return fmt.Sprintf("Creates a new instance of %s and stores it in '%s'.", typeName, name), true
	case containsAny(value, "=>", "function"):
		return fmt.Sprintf("Assigns a function to the %s '%s', creating a callable reference.", kind, name), true
	}
	return fmt.Sprintf("Declares a %s '%s' and initializes it with a value.", kind, name), true
}

func explainIf(line, _ string) (string, bool) {
	if !reIfOpen.MatchString(line) {
		return "", false
	}
	if cond, ok := captureNonEmpty(reIfCondition, line, 1); ok && textLen(cond) < maxQuotedCondition {
		return fmt.Sprintf("Checks if the condition '%s' is true. If so, the following code block executes.", cond), true
	}
	return "Evaluates a conditional statement. If the condition is true, it executes the code inside the if block.", true
}

func explainElse(line, _ string) (string, bool) {
	if line != "else" && !strings.HasPrefix(line, "else {") {
		return "", false
	}
	return "Executes this code block if all previous 'if' and 'else if' conditions were false. Acts as a fallback option.", true
}

func explainFor(line, _ string) (string, bool) {
	if !reForOpen.MatchString(line) {
		return "", false
	}
	switch {
	case strings.Contains(line, " of "):
		return "Iterates over each element in a collection using a for...of loop. Simpler than traditional for loops.", true
	case strings.Contains(line, " in "):
		return "Iterates over object properties or array indices using a for...in loop.", true
	}
	return "Creates a loop that repeats code a specific number of times, typically using a counter variable.", true
}

func explainAsyncFunc(line, _ string) (string, bool) {
	if !strings.Contains(line, "async ") || !strings.Contains(line, "function") {
		return "", false
	}
	return "Declares an asynchronous function that can use 'await' to pause execution until promises resolve.", true
}

func explainImport(line, _ string) (string, bool) {
	if !reImportFrom.MatchString(line) {
		return "", false
	}
	if imported, ok := captureNonEmpty(reImportedList, line, 1); ok {
		return fmt.Sprintf("Imports %s from an external module, making it available for use in this file.", imported), true
	}
	return "Imports symbols from an external module, making them available for use in this file.", true
}

func explainRequire(line, _ string) (string, bool) {
	if !strings.Contains(line, "require(") {
		return "", false
	}
	if module, ok := capture(reRequireArg, line, 1); ok {
		return fmt.Sprintf("Loads the '%s' module using Node.js require system, making its exports available.", module), true
	}
	return "Loads an external module using the CommonJS require system.", true
}

func explainClass(line, _ string) (string, bool) {
	name, ok := capture(reClassName, line, 1)
	if !ok {
		return "", false
	}
	if parent, ok := capture(reExtendsName, line, 1); ok {
		return fmt.Sprintf("Defines a class '%s' that inherits from '%s', gaining its properties and methods.", name, parent), true
	}
	return fmt.Sprintf("Defines a class named '%s', which is a blueprint for creating objects with specific properties and methods.", name), true
}

func explainMethodCall(line, _ string) (string, bool) {
	method, ok := capture(reMethodCall, line, 1)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Calls the '%s' method on an object, executing its associated functionality.", method), true
}

func explainAssignment(line, _ string) (string, bool) {
	if !strings.Contains(line, "=") || strings.Contains(line, "==") {
		return "", false
	}
	target, _, _ := strings.Cut(line, "=")
	target = strings.TrimSpace(target)
	if target == "" {
		return "Assigns a new value to a variable, updating its stored data.", true
	}
	return fmt.Sprintf("Assigns a new value to '%s', updating its stored data.", target), true
}

func explainBlockOpen(line, _ string) (string, bool) {
	if !strings.HasSuffix(line, "{") {
		return "", false
	}
	return "Opens a code block that groups related statements together.", true
}

func explainBlockClose(line, _ string) (string, bool) {
	if line != "}" && line != "};" {
		return "", false
	}
	return "Closes the current code block, ending the scope of the previous statement (function, loop, conditional, etc.).", true
}
