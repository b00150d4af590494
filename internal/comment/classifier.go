// Package comment classifies C-family source text as comment or code.
//
// Classification is line local: a block comment opened on an earlier line is
// not tracked, so a line sitting inside it without its own comment token is
// reported as code.
package comment

import "strings"

var linePrefixes = []string{"//", "/*", "*", "///", "* @"}

// IsCommentLine reports whether the trimmed line starts with a comment marker,
// or holds an opening and closing block comment token.
func IsCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range linePrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return strings.Contains(trimmed, "/*") && strings.Contains(trimmed, "*/")
}

// InComment reports whether byte offset pos of line falls inside a line
// comment, or inside a block comment that is still open at pos.
func InComment(line string, pos int) bool {
	if i := strings.Index(line, "//"); i != -1 && i < pos {
		return true
	}

	start := strings.Index(line, "/*")
	if start == -1 || start >= pos {
		return false
	}
	end := strings.Index(line[start:], "*/")
	if end == -1 {
		return true
	}
	return start+end >= pos
}
