// Package preset implements the CMake-preset resolution engine: it loads a
// CMakePresets.json-style document, flattens inheritance chains into a single
// effective configuration, and expands macro tokens against the host
// environment. The flow is Load -> Resolve -> Expand; each stage fails with a
// classed Error carrying the offending preset, field, or token.
package preset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind separates the three preset families a document may declare.
type Kind string

const (
	KindConfigure Kind = "configure"
	KindBuild     Kind = "build"
	KindRun       Kind = "run"
)

// Supported document schema versions.
const (
	MinVersion = 2
	MaxVersion = 10
)

// Document is the typed in-memory form of a presets file. It is produced by
// Load, owned by the loader for its lifetime, and read-only afterward.
type Document struct {
	Version          int      `json:"version"`
	ConfigurePresets []Preset `json:"configurePresets"`
	BuildPresets     []Preset `json:"buildPresets"`
	RunPresets       []Preset `json:"runPresets"`

	// LegacyPresets mirrors the pre-schema "presets" key some older files
	// still carry; Load folds it into ConfigurePresets.
	LegacyPresets []Preset `json:"presets"`
}

// Preset is one named configuration bundle. String-valued fields are
// tri-state (absent, explicit null, or a value) so that a null in a child can
// delete a key an ancestor contributed.
type Preset struct {
	Name             string           `json:"name"`
	Inherits         StringList       `json:"inherits"`
	Hidden           bool             `json:"hidden"`
	Condition        *Condition       `json:"condition"`
	Generator        Value            `json:"generator"`
	BinaryDir        Value            `json:"binaryDir"`
	TargetExecutable Value            `json:"targetExecutable"`
	CacheVariables   map[string]Value `json:"cacheVariables"`
	Environment      map[string]Value `json:"environment"`
}

// Value is a tri-state string: absent, explicitly null, or present.
type Value struct {
	set  bool
	null bool
	str  string
}

// String returns a present Value.
func String(s string) Value { return Value{set: true, str: s} }

// Null returns an explicitly null Value.
func Null() Value { return Value{set: true, null: true} }

// IsSet reports whether the field appeared in the document at all.
func (v Value) IsSet() bool { return v.set }

// IsNull reports whether the field was an explicit JSON null.
func (v Value) IsNull() bool { return v.set && v.null }

// Str returns the string payload; empty for absent or null values.
func (v Value) Str() string { return v.str }

func (v *Value) UnmarshalJSON(data []byte) error {
	v.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.null = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &Error{Class: ClassSchemaViolation, Detail: "expected string or null", Err: err}
	}
	v.str = s
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.str)
}

// StringList accepts either a single JSON string or an array of strings; the
// inherits field allows both spellings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return &Error{Class: ClassSchemaViolation, Detail: "expected string or string array", Err: err}
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return &Error{Class: ClassSchemaViolation, Detail: "expected string or string array", Err: err}
	}
	*l = items
	return nil
}

// Condition gates a preset on the host environment. Operand strings are
// macro-expanded before evaluation.
type Condition struct {
	Type      string `json:"type"`
	ConstVal  *bool  `json:"value"`
	Lhs       string `json:"lhs"`
	Rhs       string `json:"rhs"`
	MatchText string `json:"string"`
	Regex     string `json:"regex"`
}

// presetsOf returns the preset slice for a kind. Legacy "presets" entries are
// already folded into the configure slice by Load.
func (d *Document) presetsOf(kind Kind) []Preset {
	switch kind {
	case KindConfigure:
		return d.ConfigurePresets
	case KindBuild:
		return d.BuildPresets
	case KindRun:
		return d.RunPresets
	default:
		return nil
	}
}

// lookup finds a preset by name within its kind.
func (d *Document) lookup(kind Kind, name string) (*Preset, error) {
	ps := d.presetsOf(kind)
	for i := range ps {
		if ps[i].Name == name {
			return &ps[i], nil
		}
	}
	return nil, &Error{
		Class:  ClassPresetNotFound,
		Preset: name,
		Detail: fmt.Sprintf("no %s preset with that name", kind),
	}
}
