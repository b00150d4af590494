package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the workspace root.
const DefaultFile = ".tagnav.yaml"

//go:embed config.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

type Limits struct {
	Search       int `yaml:"search"`
	Definition   int `yaml:"definition"`
	References   int `yaml:"references"`
	EditorSearch int `yaml:"editor_search"`
}

type Config struct {
	WorkspaceRoot string   `yaml:"workspace_root"`
	TagsFile      string   `yaml:"tags_file"`
	DBPath        string   `yaml:"db_path"`
	Exclude       []string `yaml:"exclude"`
	Limits        Limits   `yaml:"limits"`
	CacheSize     int      `yaml:"cache_size"`
	WholeWord     bool     `yaml:"whole_word"`
	LogLevel      string   `yaml:"log_level"`
	Output        string   `yaml:"output"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		TagsFile: "tags",
		Limits: Limits{
			Search:       50,
			Definition:   10,
			References:   50,
			EditorSearch: 20,
		},
		CacheSize: 128,
		LogLevel:  "info",
		Output:    "json",
	}
}

// LoadConfig reads the YAML config at path on top of Default. A missing file
// is not an error. Environment variables (optionally from .env) override file
// values.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := validate(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if root := os.Getenv("TAGNAV_ROOT"); root != "" {
		cfg.WorkspaceRoot = root
	}
	if tagsFile := os.Getenv("TAGNAV_TAGS_FILE"); tagsFile != "" {
		cfg.TagsFile = tagsFile
	}
	if db := os.Getenv("TAGNAV_DB"); db != "" {
		cfg.DBPath = db
	}
	if level := os.Getenv("TAGNAV_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if cfg.WorkspaceRoot == "" {
		if cfg.WorkspaceRoot, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// TagsPath returns the tag table location, resolved against the workspace root.
func (c *Config) TagsPath() string {
	if filepath.IsAbs(c.TagsFile) {
		return c.TagsFile
	}
	return filepath.Join(c.WorkspaceRoot, c.TagsFile)
}

// validate checks a raw YAML document against the embedded JSON schema.
func validate(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees JSON-typed values.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(value); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("config.schema.json")
	})
	return schema, schemaErr
}
