// Package render prints analysis results for terminals and scripts.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"snippetlens/internal/analysis"
	"snippetlens/internal/util/jsonutil"
)

// Options control pretty output.
type Options struct {
	Color bool
}

// ColorMode resolves an auto|on|off flag value. Auto follows the terminal
// detection done by fatih/color, which also honours NO_COLOR.
func ColorMode(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return !color.NoColor, nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto|on|off)", mode)
	}
}

type palette struct {
	header  *color.Color
	lineNo  *color.Color
	code    *color.Color
	title   *color.Color
	example *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header:  color.New(color.FgCyan, color.Bold),
		lineNo:  color.New(color.FgYellow, color.Bold),
		code:    color.New(color.FgGreen),
		title:   color.New(color.FgMagenta, color.Bold),
		example: color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.header, p.lineNo, p.code, p.title, p.example} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes res as three titled sections.
func Pretty(w io.Writer, res analysis.Result, opts Options) error {
	p := newPalette(opts.Color)
	ew := &errWriter{w: w}

	p.header.Fprintln(ew, "What This Code Does")
	fmt.Fprintln(ew, res.Overview)
	fmt.Fprintln(ew)

	p.header.Fprintln(ew, "Line-by-Line Explanation")
	if len(res.LineByLine) == 0 {
		fmt.Fprintln(ew, "No detailed explanation returned.")
	}
	width := len(fmt.Sprint(lastLine(res.LineByLine)))
	for _, le := range res.LineByLine {
		p.lineNo.Fprintf(ew, "Line %*d", width, le.LineNumber)
		fmt.Fprint(ew, "  ")
		p.code.Fprintln(ew, strings.TrimSpace(le.Code))
		fmt.Fprintf(ew, "%s%s\n", strings.Repeat(" ", width+7), le.Explanation)
	}
	fmt.Fprintln(ew)

	p.header.Fprintln(ew, "Suggestions to Improve")
	if len(res.Suggestions) == 0 {
		fmt.Fprintln(ew, "No suggestions found.")
	}
	for i, s := range res.Suggestions {
		p.title.Fprintf(ew, "%d. %s\n", i+1, s.Title)
		fmt.Fprintf(ew, "   %s\n", s.Description)
		if s.Example != "" {
			for _, line := range strings.Split(s.Example, "\n") {
				p.example.Fprintf(ew, "     %s\n", line)
			}
		}
	}
	return ew.err
}

// JSON writes res as indented JSON without HTML escaping.
func JSON(w io.Writer, v any) error {
	b, err := jsonutil.MarshalNoEscapeIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func lastLine(les []analysis.LineExplanation) int {
	if len(les) == 0 {
		return 0
	}
	return les[len(les)-1].LineNumber
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}
