package rename

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// FileDiff is a unified diff of one file under a proposed rename.
type FileDiff struct {
	File string `json:"file" yaml:"file"`
	Diff string `json:"diff" yaml:"diff"`
}

// Diff renders, for every file in the preview, the unified diff Apply would
// produce against the file's current content.
func (e *Engine) Diff(p *Preview) ([]FileDiff, error) {
	if p.OldSymbol == "" {
		return nil, ErrEmptySymbol
	}

	var diffs []FileDiff
	for _, file := range p.FilesAffected {
		content, _, err := e.src.ReadFresh(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		updated, n := e.rewriteContent(content, p.OldSymbol, p.NewSymbol)
		if n == 0 {
			continue
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(content),
			B:        difflib.SplitLines(updated),
			FromFile: "a/" + file,
			ToFile:   "b/" + file,
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s: %w", file, err)
		}
		diffs = append(diffs, FileDiff{File: file, Diff: text})
	}
	return diffs, nil
}
