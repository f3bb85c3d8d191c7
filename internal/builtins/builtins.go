// Package builtins holds the static Ifj.* registry the semantic
// analyzer checks calls against (spec.md §4.7), reproducing
// original_source's builtin_table (builtin.c) but loaded from an
// embedded YAML file via goccy/go-yaml instead of a C array literal.
package builtins

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/ifj25lang/ifj25c/internal/symtable"
)

//go:embed builtins.yaml
var builtinsYAML []byte

type rawEntry struct {
	Name     string   `yaml:"name"`
	Arity    int      `yaml:"arity"`
	RetType  string   `yaml:"ret_type"`
	ArgTypes []string `yaml:"arg_types"`
}

type rawFile struct {
	Builtins []rawEntry `yaml:"builtins"`
}

// Info describes one builtin's signature. Arity is -1 for variadic
// builtins (only Ifj.write), in which case ArgTypeMasks has exactly
// one entry applied to every call argument.
type Info struct {
	Name         string
	Arity        int
	RetTypeMask  symtable.TypeMask
	ArgTypeMasks []symtable.TypeMask
	IsVariadic   bool
}

// Registry is the loaded, queryable set of builtins.
type Registry struct {
	byName map[string]*Info
}

func maskFromString(s string) (symtable.TypeMask, error) {
	switch s {
	case "num":
		return symtable.MaskNum, nil
	case "string":
		return symtable.MaskString, nil
	case "null_", "null":
		return symtable.MaskNull, nil
	case "all":
		return symtable.MaskAll, nil
	default:
		return 0, fmt.Errorf("builtins: unknown type mask %q", s)
	}
}

// Load parses the embedded builtin table. It panics on malformed YAML,
// since that table is a compile-time asset of this binary, not
// user-supplied input.
func Load() *Registry {
	var file rawFile
	if err := yaml.Unmarshal(builtinsYAML, &file); err != nil {
		panic(fmt.Sprintf("builtins: failed to parse embedded table: %v", err))
	}

	reg := &Registry{byName: make(map[string]*Info, len(file.Builtins))}
	for _, e := range file.Builtins {
		retMask, err := maskFromString(e.RetType)
		if err != nil {
			panic(err)
		}
		argMasks := make([]symtable.TypeMask, len(e.ArgTypes))
		for i, a := range e.ArgTypes {
			m, err := maskFromString(a)
			if err != nil {
				panic(err)
			}
			argMasks[i] = m
		}
		reg.byName[e.Name] = &Info{
			Name:         e.Name,
			Arity:        e.Arity,
			RetTypeMask:  retMask,
			ArgTypeMasks: argMasks,
			IsVariadic:   e.Arity < 0,
		}
	}
	return reg
}

// Lookup finds a builtin by fully-qualified name (e.g. "Ifj.write") and
// call-site argument count, mirroring original_source's
// builtin_lookup: a name match with the wrong arity returns ok=false
// even though the name exists (Exists still reports true for it).
func (r *Registry) Lookup(name string, argc int) (*Info, bool) {
	info, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	if info.IsVariadic || info.Arity == argc {
		return info, true
	}
	return nil, false
}

// Exists reports whether name is a known builtin, regardless of arity.
func (r *Registry) Exists(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ValidArity reports whether name accepts argc arguments.
func (r *Registry) ValidArity(name string, argc int) bool {
	_, ok := r.Lookup(name, argc)
	return ok
}

// ArgTypeMaskAt returns the type mask that applies to argument index i
// of a call to name (clamped to the last entry for variadic builtins,
// where ArgTypeMasks has a single shared entry).
func (info *Info) ArgTypeMaskAt(i int) symtable.TypeMask {
	if len(info.ArgTypeMasks) == 0 {
		return symtable.MaskAll
	}
	if info.IsVariadic || i >= len(info.ArgTypeMasks) {
		return info.ArgTypeMasks[len(info.ArgTypeMasks)-1]
	}
	return info.ArgTypeMasks[i]
}
