package rename

import (
	"log/slog"
	"sort"
)

// Change is the proposed rewrite of one occurrence's line.
type Change struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	OldLine string `json:"old_line" yaml:"old_line"`
	NewLine string `json:"new_line" yaml:"new_line"`
}

// Preview describes what a rename would change without touching any file.
type Preview struct {
	OldSymbol        string       `json:"old_symbol" yaml:"old_symbol"`
	NewSymbol        string       `json:"new_symbol" yaml:"new_symbol"`
	TotalOccurrences int          `json:"total_occurrences" yaml:"total_occurrences"`
	FilesAffected    []string     `json:"files_affected" yaml:"files_affected"`
	Changes          []Change     `json:"changes" yaml:"changes"`
	SkippedComments  int          `json:"skipped_comments" yaml:"skipped_comments"`
	Occurrences      []Occurrence `json:"-" yaml:"-"`
}

// Preview computes the occurrences of oldSym and the line each would become.
// SkippedComments counts comment mentions of oldSym; it scans once per
// reference record, so a file referenced by several records is counted again.
func (e *Engine) Preview(oldSym, newSym string) (*Preview, error) {
	if oldSym == "" {
		return nil, ErrEmptySymbol
	}

	occurrences := e.FindOccurrences(oldSym)
	p := &Preview{
		OldSymbol:        oldSym,
		NewSymbol:        newSym,
		TotalOccurrences: len(occurrences),
		FilesAffected:    []string{},
		Changes:          []Change{},
		Occurrences:      occurrences,
	}

	seen := make(map[string]bool)
	for _, occ := range occurrences {
		if !seen[occ.File] {
			seen[occ.File] = true
			p.FilesAffected = append(p.FilesAffected, occ.File)
		}
		newLine, _ := e.rewriteLine(occ.Context, oldSym, newSym)
		p.Changes = append(p.Changes, Change{
			File:    occ.File,
			Line:    occ.Line,
			Column:  occ.Column,
			OldLine: occ.Context,
			NewLine: newLine,
		})
	}
	sort.Strings(p.FilesAffected)

	p.SkippedComments = e.countCommentMentions(oldSym)
	return p, nil
}

func (e *Engine) countCommentMentions(symbol string) int {
	total := 0
	for _, r := range e.refs.FindReferences(symbol).Records {
		if !e.src.Exists(r.File) {
			continue
		}
		lines, err := e.src.Lines(r.File)
		if err != nil {
			slog.Warn("rename.read_failed", "file", r.File, "err", err)
			continue
		}
		for _, line := range lines {
			total += e.commentMentions(line, symbol)
		}
	}
	return total
}
