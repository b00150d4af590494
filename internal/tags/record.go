package tags

// UnknownKind is the bucket used when a record carries no kind.
const UnknownKind = "unknown"

// Record is one parsed entry of the tag table.
type Record struct {
	Name       string `json:"name" yaml:"name"`             // Symbol identifier, not unique
	File       string `json:"file" yaml:"file"`             // Path as recorded by the generator
	ExCommand  string `json:"ex_command" yaml:"ex_command"` // Raw locator (pattern or line number)
	Kind       string `json:"kind" yaml:"kind"`             // e.g. "function", "variable", may be empty
	Line       int    `json:"line" yaml:"line"`             // 1-based, 0 when absent
	TypeRef    string `json:"typeref,omitempty" yaml:"typeref,omitempty"`
	Scope      string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Access     string `json:"access,omitempty" yaml:"access,omitempty"`
	Signature  string `json:"signature,omitempty" yaml:"signature,omitempty"`
	SourceLine int    `json:"source_line" yaml:"source_line"` // Line index inside the tag table
}

// KindOrUnknown returns the record kind, or UnknownKind when it is empty.
func (r Record) KindOrUnknown() string {
	if r.Kind == "" {
		return UnknownKind
	}
	return r.Kind
}

// Less orders records by (file, line), using the tag table position to break ties.
func Less(a, b Record) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.SourceLine < b.SourceLine
}
