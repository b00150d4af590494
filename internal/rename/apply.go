package rename

import (
	"fmt"
	"log/slog"

	"tagnav/internal/source"
)

// FileFailure records why one file could not be rewritten.
type FileFailure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// ApplyResult summarises an executed rename.
type ApplyResult struct {
	Status       string        `json:"status" yaml:"status"`
	Message      string        `json:"message" yaml:"message"`
	FilesChanged []string      `json:"files_changed" yaml:"files_changed"`
	ChangesMade  int           `json:"changes_made" yaml:"changes_made"`
	Failures     []FileFailure `json:"failures" yaml:"failures"`
	Preview      *Preview      `json:"preview" yaml:"preview"`
}

// Apply recomputes the preview and rewrites each affected file in place.
// Files are handled independently: a failure is recorded and the remaining
// files are still processed. A file whose fresh content no longer yields the
// previewed occurrences is left untouched.
func (e *Engine) Apply(oldSym, newSym string) (*ApplyResult, error) {
	preview, err := e.Preview(oldSym, newSym)
	if err != nil {
		return nil, err
	}

	res := &ApplyResult{
		Status:       "completed",
		Message:      fmt.Sprintf("Symbol renamed: %s → %s", oldSym, newSym),
		FilesChanged: []string{},
		Failures:     []FileFailure{},
		Preview:      preview,
	}

	expected := make(map[string][]Occurrence)
	for _, occ := range preview.Occurrences {
		expected[occ.File] = append(expected[occ.File], occ)
	}

	for _, file := range preview.FilesAffected {
		n, err := e.applyFile(file, oldSym, newSym, expected[file])
		if err != nil {
			slog.Warn("rename.apply_failed", "file", file, "err", err)
			res.Failures = append(res.Failures, FileFailure{File: file, Error: err.Error()})
			continue
		}
		if n == 0 {
			continue
		}
		res.FilesChanged = append(res.FilesChanged, file)
		res.ChangesMade += n
	}

	slog.Info("rename.applied", "old", oldSym, "new", newSym,
		"files", len(res.FilesChanged), "changes", res.ChangesMade, "failures", len(res.Failures))
	return res, nil
}

func (e *Engine) applyFile(file, oldSym, newSym string, want []Occurrence) (int, error) {
	content, perm, err := e.src.ReadFresh(file)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", file, err)
	}

	got := e.scanLines(file, source.SplitLines(content), oldSym)
	if !samePositions(got, want) {
		return 0, fmt.Errorf("%s: %w", file, ErrStalePreview)
	}

	updated, n := e.rewriteContent(content, oldSym, newSym)
	if n == 0 {
		return 0, nil
	}
	if err := e.src.Write(file, updated, perm); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", file, err)
	}
	return n, nil
}

func samePositions(a, b []Occurrence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Line != b[i].Line || a[i].Column != b[i].Column {
			return false
		}
	}
	return true
}
