package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TAGNAV_ROOT", "")
	t.Setenv("TAGNAV_TAGS_FILE", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)

	assert.Equal(t, "tags", cfg.TagsFile)
	assert.Equal(t, 50, cfg.Limits.Search)
	assert.Equal(t, 10, cfg.Limits.Definition)
	assert.Equal(t, 20, cfg.Limits.EditorSearch)
	assert.Equal(t, "json", cfg.Output)
	assert.NotEmpty(t, cfg.WorkspaceRoot)
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(`
workspace_root: /from/file
tags_file: .tags
exclude:
  - vendor/
limits:
  search: 5
whole_word: true
`), 0o644))

	t.Setenv("TAGNAV_ROOT", "")
	t.Setenv("TAGNAV_TAGS_FILE", "")
	t.Setenv("TAGNAV_DB", filepath.Join(dir, "tagnav.db"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.WorkspaceRoot)
	assert.Equal(t, ".tags", cfg.TagsFile)
	assert.Equal(t, []string{"vendor/"}, cfg.Exclude)
	assert.Equal(t, 5, cfg.Limits.Search)
	assert.Equal(t, 10, cfg.Limits.Definition, "unset keys keep their default")
	assert.True(t, cfg.WholeWord)
	assert.Equal(t, filepath.Join(dir, "tagnav.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/from/file", ".tags"), cfg.TagsPath())

	t.Setenv("TAGNAV_ROOT", "/from/env")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.WorkspaceRoot)
}

func TestLoadConfig_SchemaValidation(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "tagsfile: tags\n",
		"bad level":      "log_level: loud\n",
		"wrong type":     "limits:\n  search: many\n",
		"non-positive":   "cache_size: 0\n",
		"bad output":     "output: xml\n",
		"exclude string": "exclude: vendor\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFile)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation")
		})
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tags", cfg.TagsFile)
}

func TestTagsPath_Absolute(t *testing.T) {
	cfg := &Config{WorkspaceRoot: "/root", TagsFile: "/abs/tags"}
	assert.Equal(t, "/abs/tags", cfg.TagsPath())
}
