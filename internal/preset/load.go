package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads and parses the presets file at path. It has no side effects
// beyond the read.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Class: ClassMalformedDocument, Detail: fmt.Sprintf("read %s", path), Err: err}
	}
	return Parse(data)
}

// Parse builds a Document from raw file bytes, validating the schema version
// and per-kind name uniqueness.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			return nil, err
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &Error{
				Class:  ClassSchemaViolation,
				Field:  typeErr.Field,
				Detail: fmt.Sprintf("expected %s", typeErr.Type),
				Err:    err,
			}
		}
		return nil, &Error{Class: ClassMalformedDocument, Err: err}
	}

	if doc.Version == 0 {
		return nil, &Error{Class: ClassSchemaViolation, Field: "version", Detail: "required"}
	}
	if doc.Version < MinVersion || doc.Version > MaxVersion {
		return nil, &Error{
			Class:  ClassUnsupportedVersion,
			Field:  "version",
			Detail: fmt.Sprintf("version %d outside supported range %d..%d", doc.Version, MinVersion, MaxVersion),
		}
	}

	// Older files list configure presets under a bare "presets" key.
	if len(doc.LegacyPresets) > 0 {
		doc.ConfigurePresets = append(doc.ConfigurePresets, doc.LegacyPresets...)
		doc.LegacyPresets = nil
	}

	for _, kind := range []Kind{KindConfigure, KindBuild, KindRun} {
		if err := validateNames(kind, doc.presetsOf(kind)); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validateNames(kind Kind, presets []Preset) error {
	seen := make(map[string]struct{}, len(presets))
	for i := range presets {
		p := &presets[i]
		if p.Name == "" {
			return &Error{
				Class:  ClassSchemaViolation,
				Field:  "name",
				Detail: fmt.Sprintf("%s preset at index %d has no name", kind, i),
			}
		}
		if _, dup := seen[p.Name]; dup {
			return &Error{
				Class:  ClassSchemaViolation,
				Preset: p.Name,
				Field:  "name",
				Detail: fmt.Sprintf("duplicate %s preset name", kind),
			}
		}
		seen[p.Name] = struct{}{}
		if cond := p.Condition; cond != nil {
			if err := validateCondition(p.Name, cond); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCondition(presetName string, cond *Condition) error {
	switch cond.Type {
	case "const":
		if cond.ConstVal == nil {
			return &Error{Class: ClassSchemaViolation, Preset: presetName, Field: "condition.value", Detail: "const condition requires a boolean value"}
		}
	case "equals", "notEquals", "matches", "notMatches":
		// Operand emptiness is legal; operands are macro-expanded at
		// resolution time.
	case "":
		return &Error{Class: ClassSchemaViolation, Preset: presetName, Field: "condition.type", Detail: "required"}
	default:
		return &Error{Class: ClassSchemaViolation, Preset: presetName, Field: "condition.type", Detail: fmt.Sprintf("unknown condition type %q", cond.Type)}
	}
	return nil
}
