// Package tags reads the extended ctags table into Records.
package tags

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	// MetadataPrefix marks pseudo-tag lines written by the generator.
	MetadataPrefix = "!_TAG_"
	extTerminator  = `;"`
)

// LoadFile parses the tag table at path. A missing or unreadable table yields
// an empty result; malformed lines are dropped.
func LoadFile(path string) []Record {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("tags.open", "path", path, "err", err)
		}
		return nil
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		slog.Warn("tags.read", "path", path, "err", err, "parsed", len(records))
	}
	return records
}

// Parse reads tag lines from r. On a read error the records parsed so far are
// returned together with the error.
func Parse(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	var records []Record

	lineNum := 0
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			lineNum++
			if rec, ok := ParseLine(raw, lineNum); ok {
				records = append(records, rec)
			}
		}
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
	}
}

// ParseLine converts a single tag line. ok is false for metadata lines and
// lines with fewer than three tab separated fields.
func ParseLine(raw string, lineNum int) (Record, bool) {
	line := strings.TrimRight(raw, "\r\n")
	if strings.HasPrefix(line, MetadataPrefix) {
		return Record{}, false
	}

	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Record{}, false
	}

	rec := Record{
		Name:       parts[0],
		File:       parts[1],
		ExCommand:  parts[2],
		SourceLine: lineNum,
	}

	if len(parts) > 3 {
		applyExtensions(&rec, parseExtensions(strings.Join(parts[3:], "\t")))
	}
	return rec, true
}

func parseExtensions(ext string) map[string]string {
	ext = strings.TrimRight(ext, " \t")
	ext = strings.TrimSuffix(ext, extTerminator)

	fields := make(map[string]string)
	for _, field := range strings.Split(ext, "\t") {
		key, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}
	return fields
}

func applyExtensions(rec *Record, fields map[string]string) {
	rec.Kind = fields["kind"]
	rec.Line = parseLineNumber(fields["line"])
	rec.TypeRef = fields["typeref"]
	rec.Scope = fields["scope"]
	rec.Access = fields["access"]
	rec.Signature = fields["signature"]
}

// parseLineNumber accepts only all-digit values; anything else is 0.
func parseLineNumber(s string) int {
	if s == "" {
		return 0
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
