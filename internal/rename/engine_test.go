package rename

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagnav/internal/index"
	"tagnav/internal/source"
	"tagnav/internal/tags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func newEngine(t *testing.T, root, table string, opts Options) *Engine {
	t.Helper()
	records, err := tags.Parse(strings.NewReader(table))
	require.NoError(t, err)
	src, err := source.NewReader(root, 8)
	require.NoError(t, err)
	return NewEngine(index.New(records, index.Limits{}), src, opts)
}

func TestPreview_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.c", "int foo() { return 1; } // calls foo")
	e := newEngine(t, root, "foo\tsrc/a.c\t10;\"\tkind:function\tline:10\n", Options{})

	p, err := e.Preview("foo", "bar")
	require.NoError(t, err)

	require.Equal(t, 1, p.TotalOccurrences)
	require.Len(t, p.Changes, 1)
	c := p.Changes[0]
	assert.Equal(t, "src/a.c", c.File)
	assert.Equal(t, 1, c.Line)
	assert.Equal(t, len("int ")+1, c.Column)
	assert.Equal(t, "int foo() { return 1; } // calls foo", c.OldLine)
	assert.Equal(t, "int bar() { return 1; } // calls foo", c.NewLine)
	assert.Equal(t, 1, p.SkippedComments)
	assert.Equal(t, []string{"src/a.c"}, p.FilesAffected)
}

func TestFindOccurrences_SkipsCommentLinesAndPositions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "m.c", strings.Join([]string{
		"// foo is documented here",
		"  foo(); foo(); /* foo */",
		" * @param foo",
		"int x = foo;",
	}, "\n"))
	e := newEngine(t, root, "foo\tm.c\t1\n", Options{})

	occ := e.FindOccurrences("foo")
	require.Len(t, occ, 1, "line 2 is a comment line because it holds /* and */")
	assert.Equal(t, 4, occ[0].Line)
	assert.Equal(t, 9, occ[0].Column)
	assert.Equal(t, "int x = foo;", occ[0].Context)
}

func TestFindOccurrences_ColumnCountsIndentation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "m.c", "int main() {\n\t  return foo();\n}\n")
	e := newEngine(t, root, "foo\tm.c\t1\n", Options{})

	occ := e.FindOccurrences("foo")
	require.Len(t, occ, 1)
	assert.Equal(t, 2, occ[0].Line)
	assert.Equal(t, len("\t  return ")+1, occ[0].Column)
	assert.Equal(t, "return foo();", occ[0].Context)
}

func TestFindOccurrences_DistinctFilesOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "foo();\n")
	table := "foo\ta.c\t1\nfoo_helper\ta.c\t2\n"
	e := newEngine(t, root, table, Options{})

	assert.Len(t, e.FindOccurrences("foo"), 1)
}

func TestPreview_SkippedCommentsCountedPerReference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "// foo\nfoo();\n")
	table := "foo\ta.c\t1\nfoo_helper\ta.c\t2\n"
	e := newEngine(t, root, table, Options{})

	p, err := e.Preview("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalOccurrences)
	assert.Equal(t, 2, p.SkippedComments)
}

func TestPreview_MissingFilesIgnored(t *testing.T) {
	root := t.TempDir()
	e := newEngine(t, root, "foo\tgone.c\t1\n", Options{})

	p, err := e.Preview("foo", "bar")
	require.NoError(t, err)
	assert.Zero(t, p.TotalOccurrences)
	assert.Empty(t, p.FilesAffected)
	assert.Empty(t, p.Changes)
}

func TestPreview_EmptySymbol(t *testing.T) {
	e := newEngine(t, t.TempDir(), "", Options{})
	_, err := e.Preview("", "x")
	assert.ErrorIs(t, err, ErrEmptySymbol)
	_, err = e.Apply("", "x")
	assert.ErrorIs(t, err, ErrEmptySymbol)
}

func TestSubstringMatchingByDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "int foo; int foobar;\n")
	table := "foo\ta.c\t1\n"

	p, err := newEngine(t, root, table, Options{}).Preview("foo", "baz")
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalOccurrences)
	assert.Equal(t, "int baz; int bazbar;", p.Changes[0].NewLine)

	p, err = newEngine(t, root, table, Options{WholeWord: true}).Preview("foo", "baz")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalOccurrences)
	assert.Equal(t, "int baz; int foobar;", p.Changes[0].NewLine)
}

func TestMultiLineBlockCommentNotTracked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "/*\n  foo in a block\n*/\n")
	e := newEngine(t, root, "foo\ta.c\t1\n", Options{})

	occ := e.FindOccurrences("foo")
	require.Len(t, occ, 1)
	assert.Equal(t, 2, occ[0].Line)
}

func TestApply_RewritesCodeOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.c", "int foo() { return 1; } // calls foo\n// foo\nx = foo + foo;\n")
	writeFile(t, root, "src/b.c", "/* foo only in comments */\n")
	table := "foo\tsrc/a.c\t1\nfoo\tsrc/b.c\t1\n"
	e := newEngine(t, root, table, Options{})

	preview, err := e.Preview("foo", "bar")
	require.NoError(t, err)

	res, err := e.Apply("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, []string{"src/a.c"}, res.FilesChanged)
	assert.Equal(t, 3, res.ChangesMade)
	assert.Empty(t, res.Failures)

	for _, f := range res.FilesChanged {
		assert.Contains(t, preview.FilesAffected, f)
	}

	assert.Equal(t, "int bar() { return 1; } // calls foo\n// foo\nx = bar + bar;\n", readFile(t, root, "src/a.c"))
	assert.Equal(t, "/* foo only in comments */\n", readFile(t, root, "src/b.c"))
}

func TestApply_SecondRunFindsNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "void foo(void);\nfoo();\n")
	e := newEngine(t, root, "foo\ta.c\t1\n", Options{})

	_, err := e.Apply("foo", "bar")
	require.NoError(t, err)

	res, err := e.Apply("foo", "bar")
	require.NoError(t, err)
	assert.Zero(t, res.Preview.TotalOccurrences)
	assert.Empty(t, res.FilesChanged)
	assert.Equal(t, "void bar(void);\nbar();\n", readFile(t, root, "a.c"))
}

func TestApply_NewSymbolContainingOld(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "foo(); foo();\n")
	table := "foo\ta.c\t1\nfoo\ta.c\t2\n"
	e := newEngine(t, root, table, Options{})

	res, err := e.Apply("foo", "foobar")
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChangesMade)
	assert.Equal(t, "foobar(); foobar();\n", readFile(t, root, "a.c"))
}

func TestApply_FailedFileDoesNotStopOthers(t *testing.T) {
	const unwritable = "/proc/version"
	data, err := os.ReadFile(unwritable)
	if err != nil || !strings.Contains(string(data), "Linux") {
		t.Skip("needs a readable, unwritable " + unwritable)
	}

	root := t.TempDir()
	writeFile(t, root, "a.c", "int Linux;\n")
	table := "Linux\t" + unwritable + "\t1\nLinux\ta.c\t1\n"
	e := newEngine(t, root, table, Options{})

	res, err := e.Apply("Linux", "Bsd")
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, []string{"a.c"}, res.FilesChanged)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, unwritable, res.Failures[0].File)
	assert.Contains(t, res.Failures[0].Error, "failed to write")
	assert.Equal(t, "int Bsd;\n", readFile(t, root, "a.c"))
}

func TestApplyFile_StalePreviewLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "foo();\n\nfoo();\n")
	e := newEngine(t, root, "foo\ta.c\t1\n", Options{})

	stale := []Occurrence{{File: "a.c", Line: 1, Column: 1}}
	_, err := e.applyFile("a.c", "foo", "bar", stale)
	assert.ErrorIs(t, err, ErrStalePreview)
	assert.Equal(t, "foo();\n\nfoo();\n", readFile(t, root, "a.c"))
}

func TestRewriteLine_SkipsCommentMatches(t *testing.T) {
	e := &Engine{}
	got, n := e.rewriteLine("a = foo; /* foo */ b = foo; // foo", "foo", "bar")
	assert.Equal(t, "a = bar; /* foo */ b = bar; // foo", got)
	assert.Equal(t, 2, n)
}

func TestDiff(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.c", "int foo;\nint other;\n")
	e := newEngine(t, root, "foo\ta.c\t1\n", Options{})

	p, err := e.Preview("foo", "bar")
	require.NoError(t, err)

	diffs, err := e.Diff(p)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Contains(t, diffs[0].Diff, "--- a/a.c")
	assert.Contains(t, diffs[0].Diff, "-int foo;")
	assert.Contains(t, diffs[0].Diff, "+int bar;")
	assert.Equal(t, "int foo;\nint other;\n", readFile(t, root, "a.c"), "diff must not write")
}
