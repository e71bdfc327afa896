package analysis

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// Explain classifies every non-blank, non-comment line of source. Line numbers
// count all physical lines, so skipped lines still advance the numbering.
func Explain(source, language string) []LineExplanation {
	return newAnalysisContext(source, language).explain()
}

func (c *analysisContext) explain() []LineExplanation {
	out := make([]LineExplanation, 0, len(c.lines))
	for i, line := range c.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		out = append(out, LineExplanation{
			LineNumber:  i + 1,
			Code:        line,
			Explanation: Classify(trimmed, c.language),
		})
	}
	return out
}

// Analyze runs the overview, line and suggestion passes over req.
// The passes share no state and run concurrently; the result is returned only
// once all three have finished.
func Analyze(req Request) (Result, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return Result{}, ErrInvalidInput
	}
	c := newAnalysisContext(req.SourceText, req.Language)

	var (
		res Result
		g   errgroup.Group
	)
	g.Go(func() error {
		res.Overview = Overview(c.source, c.language, c.nonBlank)
		return nil
	})
	g.Go(func() error {
		res.LineByLine = c.explain()
		return nil
	})
	g.Go(func() error {
		res.Suggestions = c.suggest()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
