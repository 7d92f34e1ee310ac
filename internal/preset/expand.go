package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
)

// maxExpandPasses bounds the fixed-point iteration so that self-feeding
// expansions fail deterministically instead of looping.
const maxExpandPasses = 16

// ExpandContext supplies the host-side inputs macro expansion draws from.
type ExpandContext struct {
	// SourceDir is the project source directory macros resolve against.
	SourceDir string
	// LookupEnv reads the process environment; nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (c ExpandContext) lookupEnv(name string) (string, bool) {
	if c.LookupEnv != nil {
		return c.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// Resolved is the fully merged and expanded configuration for one preset.
// It is immutable once produced; the pipeline owns it for the duration of a
// single command invocation.
type Resolved struct {
	Name             string
	Kind             Kind
	Generator        string
	BinaryDir        string
	TargetExecutable string
	CacheVariables   map[string]string
	Environment      map[string]string
}

// Select resolves, condition-checks, and expands the named preset in one
// shot. Hidden presets are resolvable as parents but not selectable here.
func Select(doc *Document, kind Kind, name string, ctx ExpandContext) (*Resolved, error) {
	m, err := Resolve(doc, kind, name)
	if err != nil {
		return nil, err
	}
	if m.Hidden {
		return nil, &Error{
			Class:  ClassPresetNotFound,
			Preset: name,
			Detail: "preset is hidden and cannot be selected directly",
		}
	}
	if err := evalCondition(m, ctx); err != nil {
		return nil, err
	}
	return m.Expand(ctx)
}

// Expand substitutes every macro token throughout the merged configuration.
// Environment entries are resolved first so fields may reference them with
// $env{}; expansion is idempotent on already-literal values.
func (m *Merged) Expand(ctx ExpandContext) (*Resolved, error) {
	ex := newExpander(m, ctx)
	if err := ex.resolveEnvironment(); err != nil {
		return nil, err
	}

	res := &Resolved{
		Name:           m.Name,
		Kind:           m.Kind,
		CacheVariables: make(map[string]string, len(m.CacheVariables)),
		Environment:    ex.env,
	}
	var err error
	if res.Generator, err = ex.expand("generator", m.Generator.Str()); err != nil {
		return nil, err
	}
	if res.BinaryDir, err = ex.expand("binaryDir", m.BinaryDir.Str()); err != nil {
		return nil, err
	}
	if res.TargetExecutable, err = ex.expand("targetExecutable", m.TargetExecutable.Str()); err != nil {
		return nil, err
	}
	for _, k := range sortedKeys(m.CacheVariables) {
		v, err := ex.expand("cacheVariables."+k, m.CacheVariables[k])
		if err != nil {
			return nil, err
		}
		res.CacheVariables[k] = v
	}
	return res, nil
}

type expander struct {
	m   *Merged
	ctx ExpandContext

	env       map[string]string // fully resolved preset environment
	resolving map[string]bool   // env keys on the resolution stack
}

func newExpander(m *Merged, ctx ExpandContext) *expander {
	return &expander{
		m:         m,
		ctx:       ctx,
		env:       make(map[string]string, len(m.Environment)),
		resolving: make(map[string]bool),
	}
}

// resolveEnvironment expands the preset-defined environment entries, which
// may reference each other through $env{}. A reference back to a key already
// being resolved is an expansion cycle.
func (ex *expander) resolveEnvironment() error {
	for _, k := range sortedKeys(ex.m.Environment) {
		if _, err := ex.resolveEnvKey(k); err != nil {
			return err
		}
	}
	return nil
}

func (ex *expander) resolveEnvKey(key string) (string, error) {
	if v, ok := ex.env[key]; ok {
		return v, nil
	}
	raw, ok := ex.m.Environment[key]
	if !ok {
		v, _ := ex.ctx.lookupEnv(key)
		return v, nil
	}
	if ex.resolving[key] {
		return "", &Error{
			Class:  ClassExpansionCycle,
			Preset: ex.m.Name,
			Field:  "environment." + key,
			Token:  "$env{" + key + "}",
		}
	}
	ex.resolving[key] = true
	v, err := ex.expand("environment."+key, raw)
	delete(ex.resolving, key)
	if err != nil {
		return "", err
	}
	ex.env[key] = v
	return v, nil
}

// expand iterates single left-to-right passes until the value stops changing
// or the pass cap is hit.
func (ex *expander) expand(field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	cur := value
	for pass := 0; pass < maxExpandPasses; pass++ {
		next, err := ex.expandOnce(field, cur)
		if err != nil {
			return "", err
		}
		if next == cur {
			return cur, nil
		}
		cur = next
	}
	return "", &Error{
		Class:  ClassExpansionCycle,
		Preset: ex.m.Name,
		Field:  field,
		Detail: fmt.Sprintf("no fixed point after %d passes", maxExpandPasses),
	}
}

func (ex *expander) expandOnce(field, value string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(value) {
		c := value[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}
		rest := value[i:]
		switch {
		case strings.HasPrefix(rest, "${"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				b.WriteString(rest)
				return b.String(), nil
			}
			name := rest[2:end]
			repl, err := ex.macro(field, name)
			if err != nil {
				return "", err
			}
			b.WriteString(repl)
			i += end + 1
		case strings.HasPrefix(rest, "$env{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				b.WriteString(rest)
				return b.String(), nil
			}
			v, err := ex.resolveEnvKey(rest[len("$env{"):end])
			if err != nil {
				return "", err
			}
			b.WriteString(v)
			i += end + 1
		case strings.HasPrefix(rest, "$penv{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				b.WriteString(rest)
				return b.String(), nil
			}
			v, _ := ex.ctx.lookupEnv(rest[len("$penv{"):end])
			b.WriteString(v)
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func (ex *expander) macro(field, name string) (string, error) {
	switch name {
	case "sourceDir":
		return ex.ctx.SourceDir, nil
	case "sourceParentDir":
		return filepath.Dir(ex.ctx.SourceDir), nil
	case "sourceDirName":
		return filepath.Base(ex.ctx.SourceDir), nil
	case "presetName":
		return ex.m.Name, nil
	case "generator":
		return ex.m.Generator.Str(), nil
	case "hostSystemName":
		return hostSystemName(), nil
	case "pathListSep":
		return string(os.PathListSeparator), nil
	case "dollar":
		return "$", nil
	default:
		return "", &Error{
			Class:  ClassUnresolvedVariable,
			Preset: ex.m.Name,
			Field:  field,
			Token:  "${" + name + "}",
		}
	}
}

func hostSystemName() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	default:
		return runtime.GOOS
	}
}

// evalCondition evaluates the requested preset's own condition against the
// host environment. Ancestors' conditions are deliberately ignored; a hidden
// base preset is often condition-free.
func evalCondition(m *Merged, ctx ExpandContext) error {
	cond := m.Condition
	if cond == nil {
		return nil
	}
	ex := newExpander(m, ctx)
	if err := ex.resolveEnvironment(); err != nil {
		return err
	}

	fail := func(detail string) error {
		return &Error{Class: ClassConditionUnsatisfied, Preset: m.Name, Detail: detail}
	}
	switch cond.Type {
	case "const":
		if cond.ConstVal == nil || !*cond.ConstVal {
			return fail("condition is const false")
		}
		return nil
	case "equals", "notEquals":
		lhs, err := ex.expand("condition.lhs", cond.Lhs)
		if err != nil {
			return err
		}
		rhs, err := ex.expand("condition.rhs", cond.Rhs)
		if err != nil {
			return err
		}
		equal := lhs == rhs
		if cond.Type == "notEquals" {
			equal = !equal
		}
		if !equal {
			return fail(fmt.Sprintf("%s: %q vs %q", cond.Type, lhs, rhs))
		}
		return nil
	case "matches", "notMatches":
		text, err := ex.expand("condition.string", cond.MatchText)
		if err != nil {
			return err
		}
		pattern, err := ex.expand("condition.regex", cond.Regex)
		if err != nil {
			return err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return &Error{Class: ClassSchemaViolation, Preset: m.Name, Field: "condition.regex", Err: err}
		}
		matched := re.MatchString(text)
		if cond.Type == "notMatches" {
			matched = !matched
		}
		if !matched {
			return fail(fmt.Sprintf("%s: %q against %q", cond.Type, text, pattern))
		}
		return nil
	default:
		return &Error{Class: ClassSchemaViolation, Preset: m.Name, Field: "condition.type", Detail: fmt.Sprintf("unknown condition type %q", cond.Type)}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
