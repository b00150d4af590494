// Package rename previews and applies textual symbol renames across the files
// referenced by the tag index, leaving comment text untouched.
package rename

import (
	"errors"
	"log/slog"
	"strings"

	"tagnav/internal/comment"
	"tagnav/internal/index"
	"tagnav/internal/source"
)

var (
	// ErrEmptySymbol is returned when the symbol to rename is empty.
	ErrEmptySymbol = errors.New("symbol must not be empty")
	// ErrStalePreview marks a file whose content no longer matches the preview.
	ErrStalePreview = errors.New("file changed since preview")
)

// ReferenceFinder supplies the tag records whose files are scanned.
type ReferenceFinder interface {
	FindReferences(symbol string) index.Result
}

// Options tunes symbol matching.
type Options struct {
	// WholeWord restricts matches to identifier boundaries. By default any
	// substring matches, so renaming "foo" also rewrites "foobar".
	WholeWord bool
}

// Engine runs rename previews and applies them.
type Engine struct {
	refs ReferenceFinder
	src  *source.Reader
	opts Options
}

// NewEngine creates an engine reading files through src.
func NewEngine(refs ReferenceFinder, src *source.Reader, opts Options) *Engine {
	return &Engine{refs: refs, src: src, opts: opts}
}

// Occurrence is one non-comment appearance of a symbol in a source file.
type Occurrence struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`     // 1-based
	Column  int    `json:"column" yaml:"column"` // 1-based byte column
	Context string `json:"context" yaml:"context"`
	Match   string `json:"match" yaml:"match"`
}

// FindOccurrences scans every file referenced by symbol's tag records once and
// returns the code positions where symbol appears.
func (e *Engine) FindOccurrences(symbol string) []Occurrence {
	var occurrences []Occurrence
	for _, file := range e.referencedFiles(symbol) {
		if !e.src.Exists(file) {
			slog.Debug("rename.skip_missing", "file", file)
			continue
		}
		lines, err := e.src.Lines(file)
		if err != nil {
			slog.Warn("rename.read_failed", "file", file, "err", err)
			continue
		}
		occurrences = append(occurrences, e.scanLines(file, lines, symbol)...)
	}
	return occurrences
}

// referencedFiles returns the distinct files of symbol's references in
// reference order.
func (e *Engine) referencedFiles(symbol string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, r := range e.refs.FindReferences(symbol).Records {
		if seen[r.File] {
			continue
		}
		seen[r.File] = true
		files = append(files, r.File)
	}
	return files
}

func (e *Engine) scanLines(file string, lines []string, symbol string) []Occurrence {
	var out []Occurrence
	for i, line := range lines {
		if comment.IsCommentLine(line) || !strings.Contains(line, symbol) {
			continue
		}
		for _, pos := range e.codePositions(line, symbol) {
			out = append(out, Occurrence{
				File:    file,
				Line:    i + 1,
				Column:  pos + 1,
				Context: strings.TrimSpace(line),
				Match:   symbol,
			})
		}
	}
	return out
}

// codePositions returns every start offset of symbol in line that lies outside
// a comment. Overlapping matches are reported.
func (e *Engine) codePositions(line, symbol string) []int {
	var positions []int
	for start := 0; start <= len(line); {
		i := strings.Index(line[start:], symbol)
		if i == -1 {
			break
		}
		pos := start + i
		if !comment.InComment(line, pos) && e.boundaryOK(line, pos, len(symbol)) {
			positions = append(positions, pos)
		}
		start = pos + 1
	}
	return positions
}

// commentMentions counts the appearances of symbol on line that a rename
// leaves alone because they are comment text.
func (e *Engine) commentMentions(line, symbol string) int {
	if !strings.Contains(line, symbol) {
		return 0
	}
	if comment.IsCommentLine(line) {
		return 1
	}
	n := 0
	for start := 0; start <= len(line); {
		i := strings.Index(line[start:], symbol)
		if i == -1 {
			break
		}
		pos := start + i
		if comment.InComment(line, pos) && e.boundaryOK(line, pos, len(symbol)) {
			n++
		}
		start = pos + 1
	}
	return n
}

// rewriteLine replaces, left to right, every code-positioned match of oldSym.
// The scan resumes after each replacement; matches inside comments are skipped
// one byte at a time.
func (e *Engine) rewriteLine(line, oldSym, newSym string) (string, int) {
	n := 0
	for start := 0; start <= len(line); {
		i := strings.Index(line[start:], oldSym)
		if i == -1 {
			break
		}
		pos := start + i
		if !comment.InComment(line, pos) && e.boundaryOK(line, pos, len(oldSym)) {
			line = line[:pos] + newSym + line[pos+len(oldSym):]
			start = pos + len(newSym)
			n++
		} else {
			start = pos + 1
		}
	}
	return line, n
}

// rewriteContent applies rewriteLine to every non-comment line of content.
func (e *Engine) rewriteContent(content, oldSym, newSym string) (string, int) {
	lines := source.SplitLines(content)
	total := 0
	for i, line := range lines {
		if !strings.Contains(line, oldSym) || comment.IsCommentLine(line) {
			continue
		}
		var n int
		lines[i], n = e.rewriteLine(line, oldSym, newSym)
		total += n
	}
	return source.JoinLines(lines), total
}

func (e *Engine) boundaryOK(line string, pos, length int) bool {
	if !e.opts.WholeWord {
		return true
	}
	if pos > 0 && isIdentByte(line[pos-1]) {
		return false
	}
	end := pos + length
	return end >= len(line) || !isIdentByte(line[end])
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b >= 0x80
}
