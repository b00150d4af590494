// Package index answers symbol queries over an immutable set of tag records.
package index

import (
	"sort"
	"strings"

	"tagnav/internal/tags"
)

// Default result caps.
const (
	DefaultSearchLimit     = 50
	DefaultDefinitionLimit = 10
	DefaultReferenceLimit  = 50
)

// Limits caps the size of query results. Zero values fall back to defaults.
type Limits struct {
	Search     int
	Definition int
	References int
}

func (l Limits) withDefaults() Limits {
	if l.Search <= 0 {
		l.Search = DefaultSearchLimit
	}
	if l.Definition <= 0 {
		l.Definition = DefaultDefinitionLimit
	}
	if l.References <= 0 {
		l.References = DefaultReferenceLimit
	}
	return l
}

// Index is a read-only view over tag records. It never mutates the records it
// was built from and is safe for concurrent readers.
type Index struct {
	records []tags.Record
	limits  Limits

	// Name -> positions in records, in tag table order.
	nameIndex map[string][]int
}

// New builds an index over records. The slice is copied.
func New(records []tags.Record, limits Limits) *Index {
	idx := &Index{
		records:   append([]tags.Record(nil), records...),
		limits:    limits.withDefaults(),
		nameIndex: make(map[string][]int),
	}
	for i, r := range idx.records {
		idx.nameIndex[r.Name] = append(idx.nameIndex[r.Name], i)
	}
	return idx
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Records returns a copy of all records in tag table order.
func (idx *Index) Records() []tags.Record {
	return append([]tags.Record(nil), idx.records...)
}

// Limits returns the effective result caps.
func (idx *Index) Limits() Limits {
	return idx.limits
}

// Result is a capped record list together with the uncapped match count.
type Result struct {
	Total   int
	Records []tags.Record
}

// FindByName performs a case-insensitive substring search on names. kind, when
// non-empty, must match exactly; file, when non-empty, must be a substring of
// the record path. Matches are ordered by (file, line).
func (idx *Index) FindByName(query, kind, file string) Result {
	matches := idx.findByName(query, kind, file)
	return Result{Total: len(matches), Records: capRecords(matches, idx.limits.Search)}
}

func (idx *Index) findByName(query, kind, file string) []tags.Record {
	q := strings.ToLower(query)

	var matches []tags.Record
	for _, r := range idx.records {
		if kind != "" && r.Kind != kind {
			continue
		}
		if file != "" && !strings.Contains(r.File, file) {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), q) {
			matches = append(matches, r)
		}
	}

	sortRecords(matches)
	return matches
}

// FindDefinition returns exact-name matches in tag table order. Only when there
// are none does it fall back to the FindByName substring search.
func (idx *Index) FindDefinition(symbol string) Result {
	var matches []tags.Record
	if positions, ok := idx.nameIndex[symbol]; ok {
		for _, p := range positions {
			matches = append(matches, idx.records[p])
		}
	} else {
		matches = idx.findByName(symbol, "", "")
	}
	return Result{Total: len(matches), Records: capRecords(matches, idx.limits.Definition)}
}

// FindReferences returns every record whose name or typeref contains symbol,
// ordered by (file, line) before the cap is applied.
func (idx *Index) FindReferences(symbol string) Result {
	matches := idx.AllReferences(symbol)
	return Result{Total: len(matches), Records: capRecords(matches, idx.limits.References)}
}

// AllReferences is FindReferences without the result cap.
func (idx *Index) AllReferences(symbol string) []tags.Record {
	var matches []tags.Record
	for _, r := range idx.records {
		if strings.Contains(r.Name, symbol) || strings.Contains(r.TypeRef, symbol) {
			matches = append(matches, r)
		}
	}
	sortRecords(matches)
	return matches
}

// FileSymbols groups the records of matching files by kind.
type FileSymbols struct {
	Total  int
	ByKind map[string][]tags.Record
}

// SymbolsInFile returns records whose file path contains filename, each kind
// group ordered by (file, line). Records with no kind are grouped under
// tags.UnknownKind.
func (idx *Index) SymbolsInFile(filename string) FileSymbols {
	fs := FileSymbols{ByKind: make(map[string][]tags.Record)}
	for _, r := range idx.records {
		if !strings.Contains(r.File, filename) {
			continue
		}
		kind := r.KindOrUnknown()
		fs.ByKind[kind] = append(fs.ByKind[kind], r)
		fs.Total++
	}
	for _, group := range fs.ByKind {
		sortRecords(group)
	}
	return fs
}

// KindSummary describes the kinds present in the index.
type KindSummary struct {
	Kinds  []string       // Distinct non-empty kinds, sorted
	Counts map[string]int // Per kind, empty kinds counted as tags.UnknownKind
	Total  int
}

// AvailableKinds summarises kinds over the full record set.
func (idx *Index) AvailableKinds() KindSummary {
	ks := KindSummary{Counts: make(map[string]int), Total: len(idx.records)}

	seen := make(map[string]bool)
	for _, r := range idx.records {
		ks.Counts[r.KindOrUnknown()]++
		if r.Kind != "" && !seen[r.Kind] {
			seen[r.Kind] = true
			ks.Kinds = append(ks.Kinds, r.Kind)
		}
	}
	sort.Strings(ks.Kinds)
	return ks
}

func capRecords(records []tags.Record, limit int) []tags.Record {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}

func sortRecords(records []tags.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return tags.Less(records[i], records[j])
	})
}
