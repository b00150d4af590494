package report

import (
	"tagnav/internal/index"
	"tagnav/internal/rename"
	"tagnav/internal/storage"
	"tagnav/internal/tags"
)

type Search struct {
	Query          string        `json:"query" yaml:"query"`
	KindFilter     *string       `json:"kind_filter" yaml:"kind_filter"`
	FilenameFilter *string       `json:"filename_filter" yaml:"filename_filter"`
	TotalResults   int           `json:"total_results" yaml:"total_results"`
	Symbols        []tags.Record `json:"symbols" yaml:"symbols"`
}

func NewSearch(query, kind, filename string, res index.Result) Search {
	return Search{
		Query:          query,
		KindFilter:     optional(kind),
		FilenameFilter: optional(filename),
		TotalResults:   res.Total,
		Symbols:        nonNil(res.Records),
	}
}

type Definition struct {
	Symbol      string        `json:"symbol" yaml:"symbol"`
	CurrentFile *string       `json:"current_file" yaml:"current_file"`
	Definitions []tags.Record `json:"definitions" yaml:"definitions"`
}

// NewDefinition echoes currentFile; it does not influence which definitions
// are returned.
func NewDefinition(symbol, currentFile string, res index.Result) Definition {
	return Definition{
		Symbol:      symbol,
		CurrentFile: optional(currentFile),
		Definitions: nonNil(res.Records),
	}
}

type References struct {
	Symbol     string        `json:"symbol" yaml:"symbol"`
	References []tags.Record `json:"references" yaml:"references"`
	Total      int           `json:"total" yaml:"total"`
}

func NewReferences(symbol string, res index.Result) References {
	return References{Symbol: symbol, References: nonNil(res.Records), Total: res.Total}
}

type FileSymbols struct {
	Filename      string                   `json:"filename" yaml:"filename"`
	TotalSymbols  int                      `json:"total_symbols" yaml:"total_symbols"`
	SymbolsByKind map[string][]tags.Record `json:"symbols_by_kind" yaml:"symbols_by_kind"`
}

func NewFileSymbols(filename string, fs index.FileSymbols) FileSymbols {
	return FileSymbols{Filename: filename, TotalSymbols: fs.Total, SymbolsByKind: fs.ByKind}
}

type Kinds struct {
	AvailableKinds []string       `json:"available_kinds" yaml:"available_kinds"`
	KindCounts     map[string]int `json:"kind_counts" yaml:"kind_counts"`
	TotalTags      int            `json:"total_tags" yaml:"total_tags"`
}

func NewKinds(ks index.KindSummary) Kinds {
	kinds := ks.Kinds
	if kinds == nil {
		kinds = []string{}
	}
	return Kinds{AvailableKinds: kinds, KindCounts: ks.Counts, TotalTags: ks.Total}
}

// Info combines a symbol's first definition with its references.
type Info struct {
	Symbol          string        `json:"symbol" yaml:"symbol"`
	Definition      *Goto         `json:"definition" yaml:"definition"`
	References      []tags.Record `json:"references" yaml:"references"`
	TotalReferences int           `json:"total_references" yaml:"total_references"`
}

func NewInfo(symbol string, defs, refs index.Result) Info {
	info := Info{
		Symbol:          symbol,
		References:      nonNil(refs.Records),
		TotalReferences: len(refs.Records),
	}
	if len(defs.Records) > 0 {
		g := newGoto(symbol, defs.Records[0])
		info.Definition = &g
	}
	return info
}

// Preview is a rename preview, optionally with per-file unified diffs.
type Preview struct {
	rename.Preview `yaml:",inline"`
	Diffs          []rename.FileDiff `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

func NewPreview(p *rename.Preview, diffs []rename.FileDiff) Preview {
	return Preview{Preview: *p, Diffs: diffs}
}

type RenamePreview struct {
	Status  string            `json:"status" yaml:"status"`
	Message string            `json:"message" yaml:"message"`
	Preview *rename.Preview   `json:"preview" yaml:"preview"`
	Diffs   []rename.FileDiff `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

func NewRenamePreview(p *rename.Preview, diffs []rename.FileDiff) RenamePreview {
	return RenamePreview{
		Status:  "preview",
		Message: "Dry-run mode: no files were changed",
		Preview: p,
		Diffs:   diffs,
	}
}

// RenameCompleted is an applied rename plus the files that already carried
// uncommitted changes before it ran.
type RenameCompleted struct {
	rename.ApplyResult `yaml:",inline"`
	UncommittedFiles   []string `json:"uncommitted_files,omitempty" yaml:"uncommitted_files,omitempty"`
}

func NewRenameCompleted(res *rename.ApplyResult, uncommitted []string) RenameCompleted {
	return RenameCompleted{ApplyResult: *res, UncommittedFiles: uncommitted}
}

type History struct {
	Renames []storage.RenameEntry `json:"renames" yaml:"renames"`
	Total   int                   `json:"total" yaml:"total"`
}

func NewHistory(entries []storage.RenameEntry) History {
	if entries == nil {
		entries = []storage.RenameEntry{}
	}
	return History{Renames: entries, Total: len(entries)}
}

type Indexed struct {
	Source  string `json:"source" yaml:"source"`
	DB      string `json:"db" yaml:"db"`
	Records int    `json:"records" yaml:"records"`
}

func nonNil(records []tags.Record) []tags.Record {
	if records == nil {
		return []tags.Record{}
	}
	return records
}
