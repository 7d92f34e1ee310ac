package preset

import (
	"fmt"
	"strings"
)

// Merged is the flattened, not-yet-expanded result of walking a preset's
// inheritance chain. Cache variables and environment entries hold concrete
// strings only; null-valued keys have already been deleted.
type Merged struct {
	Name             string
	Kind             Kind
	Hidden           bool
	Condition        *Condition
	Generator        Value
	BinaryDir        Value
	TargetExecutable Value
	CacheVariables   map[string]string
	Environment      map[string]string
}

// Resolve flattens the inheritance chain of the named preset. Parents listed
// in inherits merge in declaration order with first-declared priority; the
// child's own explicit fields always win, and an explicit null deletes the
// inherited key. The condition of the requested preset is carried on the
// result but not evaluated here; ancestors' conditions are never consulted.
func Resolve(doc *Document, kind Kind, name string) (*Merged, error) {
	root, err := doc.lookup(kind, name)
	if err != nil {
		return nil, err
	}
	m, err := resolvePreset(doc, kind, root, nil)
	if err != nil {
		return nil, err
	}
	m.Name = root.Name
	m.Kind = kind
	m.Hidden = root.Hidden
	m.Condition = root.Condition
	return m, nil
}

// resolvePreset merges p's ancestors (depth-first, declaration order) and
// then applies p's own fields on top. path holds the names currently on the
// recursion stack; revisiting one of them is the cycle signal.
func resolvePreset(doc *Document, kind Kind, p *Preset, path []string) (*Merged, error) {
	for _, onPath := range path {
		if onPath == p.Name {
			chain := append(append([]string(nil), path...), p.Name)
			return nil, &Error{
				Class:  ClassInheritanceCycle,
				Preset: p.Name,
				Detail: strings.Join(chain, " -> "),
			}
		}
	}
	path = append(path, p.Name)

	acc := &Merged{
		CacheVariables: map[string]string{},
		Environment:    map[string]string{},
	}
	for _, parentName := range p.Inherits {
		parent, err := doc.lookup(kind, parentName)
		if err != nil {
			return nil, &Error{
				Class:  ClassPresetNotFound,
				Preset: p.Name,
				Detail: fmt.Sprintf("inherits unknown %s preset %q", kind, parentName),
			}
		}
		pm, err := resolvePreset(doc, kind, parent, path)
		if err != nil {
			return nil, err
		}
		mergeMissing(acc, pm)
	}
	applyOwn(acc, p)
	return acc, nil
}

// mergeMissing copies src fields into acc only where acc has nothing yet,
// which gives earlier-listed parents priority over later ones.
func mergeMissing(acc, src *Merged) {
	if !acc.Generator.IsSet() {
		acc.Generator = src.Generator
	}
	if !acc.BinaryDir.IsSet() {
		acc.BinaryDir = src.BinaryDir
	}
	if !acc.TargetExecutable.IsSet() {
		acc.TargetExecutable = src.TargetExecutable
	}
	for k, v := range src.CacheVariables {
		if _, ok := acc.CacheVariables[k]; !ok {
			acc.CacheVariables[k] = v
		}
	}
	for k, v := range src.Environment {
		if _, ok := acc.Environment[k]; !ok {
			acc.Environment[k] = v
		}
	}
}

// applyOwn lays the preset's explicit fields over the accumulated ancestors:
// a value overrides, a null deletes.
func applyOwn(acc *Merged, p *Preset) {
	applyScalar(&acc.Generator, p.Generator)
	applyScalar(&acc.BinaryDir, p.BinaryDir)
	applyScalar(&acc.TargetExecutable, p.TargetExecutable)
	applyMap(acc.CacheVariables, p.CacheVariables)
	applyMap(acc.Environment, p.Environment)
}

func applyScalar(dst *Value, src Value) {
	if !src.IsSet() {
		return
	}
	if src.IsNull() {
		*dst = Value{}
		return
	}
	*dst = src
}

func applyMap(dst map[string]string, src map[string]Value) {
	for k, v := range src {
		if v.IsNull() {
			delete(dst, k)
			continue
		}
		dst[k] = v.Str()
	}
}
