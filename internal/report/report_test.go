package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"tagnav/internal/index"
	"tagnav/internal/rename"
	"tagnav/internal/tags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sample = []tags.Record{
	{Name: "foo", File: "src/a.c", ExCommand: "/^int foo()$/", Kind: "function", Line: 10, Signature: "(void)", SourceLine: 1},
	{Name: "foo_t", File: "src/a.h", ExCommand: "3", Kind: "typedef", Line: 3, SourceLine: 2},
	{Name: "bar", File: "src/a.c", ExCommand: "2", Kind: "", Line: 2, Scope: "struct:s", SourceLine: 3},
}

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, v))
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestWrite_Formats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Error{Error: "boom"}))
	assert.Equal(t, "{\n  \"error\": \"boom\"\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, Error{Error: "boom"}))
	assert.Equal(t, "error: boom\n", buf.String())

	assert.Error(t, Write(&buf, "xml", nil))
}

func TestNewError_Shapes(t *testing.T) {
	err := errors.New("bad")
	assert.Equal(t, map[string]any{"error": "bad"}, decode(t, NewError(err, false)))
	assert.Equal(t, map[string]any{"success": false, "error": "bad"}, decode(t, NewError(err, true)))
}

func TestNewSearch_NullFilters(t *testing.T) {
	idx := index.New(sample, index.Limits{Search: 1})
	m := decode(t, NewSearch("foo", "", "", idx.FindByName("foo", "", "")))

	assert.Nil(t, m["kind_filter"])
	assert.Nil(t, m["filename_filter"])
	assert.EqualValues(t, 2, m["total_results"])
	assert.Len(t, m["symbols"], 1)

	m = decode(t, NewSearch("zzz", "class", "", idx.FindByName("zzz", "class", "")))
	assert.Equal(t, "class", m["kind_filter"])
	assert.EqualValues(t, 0, m["total_results"])
	assert.Equal(t, []any{}, m["symbols"])
}

func TestNewGoto(t *testing.T) {
	idx := index.New(sample, index.Limits{})

	got := NewGoto("foo", idx.FindDefinition("foo"))
	assert.Equal(t, Goto{Success: true, File: "src/a.c", Line: 10, Column: 1, Symbol: "foo", Kind: "function", Signature: "(void)"}, got)

	missing := NewGoto("nope", idx.FindDefinition("nope"))
	assert.Equal(t, NotFound{Success: false, Message: "No definition found for symbol: nope"}, missing)
}

func TestNewInfo(t *testing.T) {
	idx := index.New(sample, index.Limits{})

	info := NewInfo("foo", idx.FindDefinition("foo"), idx.FindReferences("foo"))
	require.NotNil(t, info.Definition)
	assert.Equal(t, "src/a.c", info.Definition.File)
	assert.Equal(t, 2, info.TotalReferences)

	m := decode(t, NewInfo("nope", idx.FindDefinition("nope"), idx.FindReferences("nope")))
	assert.Nil(t, m["definition"])
	assert.Equal(t, []any{}, m["references"])
}

func TestNewEditorReferences(t *testing.T) {
	idx := index.New(sample, index.Limits{})
	refs := NewEditorReferences("foo", idx.FindReferences("foo"))

	assert.True(t, refs.Success)
	assert.Equal(t, 2, refs.Total)
	assert.Equal(t, EditorReference{File: "src/a.c", Line: 10, Column: 1, Kind: "function", Context: "/^int foo()$/"}, refs.References[0])
}

func TestNewEditorFileSymbols_SortedByLine(t *testing.T) {
	idx := index.New(sample, index.Limits{})
	fs := NewEditorFileSymbols("a.c", idx.SymbolsInFile("a.c"))

	require.Equal(t, 2, fs.Total)
	assert.Equal(t, "bar", fs.Symbols[0].Name)
	assert.Equal(t, "struct:s", fs.Symbols[0].Scope)
	assert.Equal(t, "foo", fs.Symbols[1].Name)

	m := decode(t, fs)
	first := m["symbols"].([]any)[0].(map[string]any)
	assert.NotContains(t, first, "file")
}

func TestNewEditorSearch_LimitKeepsTotal(t *testing.T) {
	idx := index.New(sample, index.Limits{})
	res := NewEditorSearch("o", idx.FindByName("o", "", ""), 1)

	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "src/a.c", res.Symbols[0].File)
}

func TestNewWorkspaceInfo(t *testing.T) {
	idx := index.New(sample, index.Limits{})
	info := NewWorkspaceInfo("/ws", true, idx.AvailableKinds())

	assert.Equal(t, 3, info.TotalSymbols)
	assert.Equal(t, []string{"function", "typedef"}, info.AvailableKinds)
	assert.Equal(t, map[string]int{"function": 1, "typedef": 1, tags.UnknownKind: 1}, info.KindDistribution)
}

func TestRenameEnvelopes(t *testing.T) {
	p := &rename.Preview{OldSymbol: "foo", NewSymbol: "bar", FilesAffected: []string{}, Changes: []rename.Change{}}

	m := decode(t, NewRenamePreview(p, nil))
	assert.Equal(t, "preview", m["status"])
	assert.NotContains(t, m, "diffs")
	assert.Equal(t, "foo", m["preview"].(map[string]any)["old_symbol"])

	res := &rename.ApplyResult{Status: "completed", Message: "done", FilesChanged: []string{"a.c"}, ChangesMade: 2, Failures: []rename.FileFailure{}, Preview: p}
	m = decode(t, NewRenameCompleted(res, []string{"a.c"}))
	assert.Equal(t, "completed", m["status"])
	assert.EqualValues(t, 2, m["changes_made"])
	assert.Equal(t, []any{"a.c"}, m["uncommitted_files"])

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, NewRenameCompleted(res, nil)))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "completed", y["status"])
	assert.NotContains(t, y, "uncommitted_files")
}

func TestNewPreview_InlinesFields(t *testing.T) {
	p := &rename.Preview{OldSymbol: "foo", NewSymbol: "bar", TotalOccurrences: 1, FilesAffected: []string{"a.c"}, Changes: []rename.Change{}}

	m := decode(t, NewPreview(p, nil))
	assert.Equal(t, "foo", m["old_symbol"])
	assert.EqualValues(t, 1, m["total_occurrences"])
	assert.NotContains(t, m, "diffs")

	m = decode(t, NewPreview(p, []rename.FileDiff{{File: "a.c", Diff: "-x\n+y\n"}}))
	assert.Len(t, m["diffs"], 1)
}
