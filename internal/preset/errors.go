package preset

import (
	"errors"
	"fmt"
	"strings"
)

// Class identifies the failure category of a preset engine error.
type Class string

const (
	ClassMalformedDocument    Class = "MalformedDocument"
	ClassUnsupportedVersion   Class = "UnsupportedVersion"
	ClassSchemaViolation      Class = "SchemaViolation"
	ClassPresetNotFound       Class = "PresetNotFound"
	ClassInheritanceCycle     Class = "InheritanceCycle"
	ClassConditionUnsatisfied Class = "ConditionUnsatisfied"
	ClassUnresolvedVariable   Class = "UnresolvedVariable"
	ClassExpansionCycle       Class = "ExpansionCycle"
)

// Error carries the failure class plus the preset, field, and token that
// triggered it, so the CLI can report exactly what went wrong and where.
type Error struct {
	Class  Class
	Preset string
	Field  string
	Token  string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Class))
	if e.Preset != "" {
		fmt.Fprintf(&b, ": preset %q", e.Preset)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, ": token %q", e.Token)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ClassOf reports the class of err, or an empty Class when err did not
// originate in this package.
func ClassOf(err error) Class {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Class
	}
	return ""
}
