package analysis

import (
	"fmt"
	"strings"
)

const generalPurpose = "general programming logic"

// purposeTable is scanned in order; the first entry with any keyword present wins.
var purposeTable = []struct {
	keywords []string
	purpose  string
}{
	{[]string{"fetch", "axios", "http", "api", "request"}, "performing HTTP requests or API calls"},
	{[]string{"addEventListener", "onClick", "DOM", "document"}, "handling DOM manipulation and events"},
	{[]string{"useState", "useEffect", "component"}, "building a React component"},
	{[]string{"class", "constructor", "extends"}, "implementing object-oriented programming concepts"},
	{[]string{"async", "await", "Promise"}, "handling asynchronous operations"},
	{[]string{"map", "filter", "reduce"}, "performing array transformations"},
}

// DetectPurpose guesses what a snippet is for from keyword presence.
func DetectPurpose(source string) string {
	for _, p := range purposeTable {
		if containsAny(source, p.keywords...) {
			return p.purpose
		}
	}
	return generalPurpose
}

// overviewClauses are appended independently; a snippet may trigger several.
var overviewClauses = []struct {
	markers []string
	clause  string
}{
	{[]string{"function", "def ", "void "}, "It defines one or more functions. "},
	{[]string{"class "}, "It includes class definitions. "},
	{[]string{"import ", "require(", "#include"}, "It imports external modules or libraries. "},
	{[]string{"for ", "while "}, "It contains loop structures for iteration. "},
	{[]string{"if ", "switch "}, "It uses conditional logic for decision-making. "},
}

// Overview summarizes a snippet of nonBlank non-blank lines.
func Overview(source, language string, nonBlank int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This %s code snippet contains %d lines. ", language, nonBlank)
	for _, c := range overviewClauses {
		if containsAny(source, c.markers...) {
			b.WriteString(c.clause)
		}
	}
	fmt.Fprintf(&b, "\n\nThe code appears to be %s based on its structure and keywords.", DetectPurpose(source))
	return b.String()
}
