// load_test.go verifies document parsing, version gating, and schema checks.
package preset

import (
	"strings"
	"testing"
)

func TestParseValidDocument(t *testing.T) {
	doc, err := Parse([]byte(`{
		"version": 6,
		"configurePresets": [
			{"name": "debug", "generator": "Ninja", "binaryDir": "build/debug"}
		],
		"buildPresets": [
			{"name": "debug-build"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != 6 {
		t.Fatalf("version mismatch, got %d", doc.Version)
	}
	if len(doc.ConfigurePresets) != 1 || doc.ConfigurePresets[0].Name != "debug" {
		t.Fatalf("unexpected configure presets: %+v", doc.ConfigurePresets)
	}
	if got := doc.ConfigurePresets[0].Generator.Str(); got != "Ninja" {
		t.Fatalf("generator mismatch, got %q", got)
	}
	if len(doc.BuildPresets) != 1 {
		t.Fatalf("expected one build preset")
	}
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte(`{"version": 6,`))
	if ClassOf(err) != ClassMalformedDocument {
		t.Fatalf("expected MalformedDocument, got %v", err)
	}
}

func TestParseVersionOutsideRange(t *testing.T) {
	for _, version := range []string{"1", "99"} {
		_, err := Parse([]byte(`{"version": ` + version + `, "configurePresets": []}`))
		if ClassOf(err) != ClassUnsupportedVersion {
			t.Fatalf("version %s: expected UnsupportedVersion, got %v", version, err)
		}
	}
}

func TestParseMissingVersion(t *testing.T) {
	_, err := Parse([]byte(`{"configurePresets": [{"name": "a"}]}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation, got %v", err)
	}
}

func TestParseDuplicateNames(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": 6,
		"configurePresets": [{"name": "a"}, {"name": "a"}]
	}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate detail, got %v", err)
	}
}

func TestParseUnnamedPreset(t *testing.T) {
	_, err := Parse([]byte(`{"version": 6, "configurePresets": [{"generator": "Ninja"}]}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation, got %v", err)
	}
}

func TestParseWrongFieldType(t *testing.T) {
	_, err := Parse([]byte(`{"version": 6, "configurePresets": [{"name": "a", "generator": 5}]}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation, got %v", err)
	}
}

func TestParseInheritsScalar(t *testing.T) {
	doc, err := Parse([]byte(`{
		"version": 6,
		"configurePresets": [
			{"name": "base"},
			{"name": "child", "inherits": "base"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	child := doc.ConfigurePresets[1]
	if len(child.Inherits) != 1 || child.Inherits[0] != "base" {
		t.Fatalf("scalar inherits not normalized: %v", child.Inherits)
	}
}

func TestParseLegacyPresetsKey(t *testing.T) {
	doc, err := Parse([]byte(`{"version": 3, "presets": [{"name": "old"}]}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.ConfigurePresets) != 1 || doc.ConfigurePresets[0].Name != "old" {
		t.Fatalf("legacy presets not folded into configure presets: %+v", doc.ConfigurePresets)
	}
}

func TestParseNullFieldTriState(t *testing.T) {
	doc, err := Parse([]byte(`{
		"version": 6,
		"configurePresets": [
			{"name": "a", "generator": null, "cacheVariables": {"X": null, "Y": "1"}}
		]
	}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	p := doc.ConfigurePresets[0]
	if !p.Generator.IsNull() {
		t.Fatalf("expected generator to be explicit null")
	}
	if p.BinaryDir.IsSet() {
		t.Fatalf("expected binaryDir to be absent")
	}
	if !p.CacheVariables["X"].IsNull() {
		t.Fatalf("expected X to be explicit null")
	}
	if p.CacheVariables["Y"].Str() != "1" {
		t.Fatalf("expected Y to carry its value")
	}
}

func TestParseConditionValidation(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": 6,
		"configurePresets": [{"name": "a", "condition": {"type": "sometimes"}}]
	}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation for unknown condition type, got %v", err)
	}
	_, err = Parse([]byte(`{
		"version": 6,
		"configurePresets": [{"name": "a", "condition": {"type": "const"}}]
	}`))
	if ClassOf(err) != ClassSchemaViolation {
		t.Fatalf("expected SchemaViolation for const without value, got %v", err)
	}
}
