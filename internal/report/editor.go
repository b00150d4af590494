package report

import (
	"fmt"
	"sort"

	"tagnav/internal/index"
	"tagnav/internal/tags"
)

// Tag tables carry no column information, so editor locations use column 1.
const editorColumn = 1

// Goto is a resolved definition location.
type Goto struct {
	Success   bool   `json:"success" yaml:"success"`
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	Symbol    string `json:"symbol" yaml:"symbol"`
	Kind      string `json:"kind" yaml:"kind"`
	Signature string `json:"signature" yaml:"signature"`
}

type NotFound struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}

func newGoto(symbol string, r tags.Record) Goto {
	return Goto{
		Success:   true,
		File:      r.File,
		Line:      r.Line,
		Column:    editorColumn,
		Symbol:    symbol,
		Kind:      r.Kind,
		Signature: r.Signature,
	}
}

// NewGoto returns a Goto for the first definition, or NotFound.
func NewGoto(symbol string, defs index.Result) any {
	if len(defs.Records) == 0 {
		return NotFound{Success: false, Message: fmt.Sprintf("No definition found for symbol: %s", symbol)}
	}
	return newGoto(symbol, defs.Records[0])
}

type EditorReference struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Kind    string `json:"kind" yaml:"kind"`
	Context string `json:"context" yaml:"context"`
}

type EditorReferences struct {
	Success    bool              `json:"success" yaml:"success"`
	Symbol     string            `json:"symbol" yaml:"symbol"`
	References []EditorReference `json:"references" yaml:"references"`
	Total      int               `json:"total" yaml:"total"`
}

func NewEditorReferences(symbol string, refs index.Result) EditorReferences {
	out := EditorReferences{Success: true, Symbol: symbol, References: []EditorReference{}}
	for _, r := range refs.Records {
		out.References = append(out.References, EditorReference{
			File:    r.File,
			Line:    r.Line,
			Column:  editorColumn,
			Kind:    r.Kind,
			Context: r.ExCommand,
		})
	}
	out.Total = len(out.References)
	return out
}

type EditorSymbol struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Line      int    `json:"line" yaml:"line"`
	Signature string `json:"signature" yaml:"signature"`
	Scope     string `json:"scope" yaml:"scope"`
}

type EditorFileSymbols struct {
	Success  bool           `json:"success" yaml:"success"`
	Filename string         `json:"filename" yaml:"filename"`
	Symbols  []EditorSymbol `json:"symbols" yaml:"symbols"`
	Total    int            `json:"total" yaml:"total"`
}

// NewEditorFileSymbols flattens the per-kind groups into one list ordered by
// line.
func NewEditorFileSymbols(filename string, fs index.FileSymbols) EditorFileSymbols {
	var records []tags.Record
	for _, group := range fs.ByKind {
		records = append(records, group...)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Line != records[j].Line {
			return records[i].Line < records[j].Line
		}
		return records[i].SourceLine < records[j].SourceLine
	})

	out := EditorFileSymbols{Success: true, Filename: filename, Symbols: []EditorSymbol{}}
	for _, r := range records {
		out.Symbols = append(out.Symbols, EditorSymbol{
			Name:      r.Name,
			Kind:      r.Kind,
			Line:      r.Line,
			Signature: r.Signature,
			Scope:     r.Scope,
		})
	}
	out.Total = len(out.Symbols)
	return out
}

type EditorSearch struct {
	Success bool           `json:"success" yaml:"success"`
	Query   string         `json:"query" yaml:"query"`
	Symbols []EditorSymbol `json:"symbols" yaml:"symbols"`
	Total   int            `json:"total" yaml:"total"`
}

// NewEditorSearch keeps at most limit symbols; Total stays the uncapped count.
func NewEditorSearch(query string, res index.Result, limit int) EditorSearch {
	records := res.Records
	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}

	out := EditorSearch{Success: true, Query: query, Symbols: []EditorSymbol{}, Total: res.Total}
	for _, r := range records {
		out.Symbols = append(out.Symbols, EditorSymbol{
			Name:      r.Name,
			Kind:      r.Kind,
			File:      r.File,
			Line:      r.Line,
			Signature: r.Signature,
			Scope:     r.Scope,
		})
	}
	return out
}

type WorkspaceInfo struct {
	Success          bool           `json:"success" yaml:"success"`
	WorkspaceRoot    string         `json:"workspace_root" yaml:"workspace_root"`
	TagsFileExists   bool           `json:"tags_file_exists" yaml:"tags_file_exists"`
	TotalSymbols     int            `json:"total_symbols" yaml:"total_symbols"`
	AvailableKinds   []string       `json:"available_kinds" yaml:"available_kinds"`
	KindDistribution map[string]int `json:"kind_distribution" yaml:"kind_distribution"`
}

func NewWorkspaceInfo(root string, tagsFileExists bool, ks index.KindSummary) WorkspaceInfo {
	k := NewKinds(ks)
	return WorkspaceInfo{
		Success:          true,
		WorkspaceRoot:    root,
		TagsFileExists:   tagsFileExists,
		TotalSymbols:     k.TotalTags,
		AvailableKinds:   k.AvailableKinds,
		KindDistribution: k.KindCounts,
	}
}
