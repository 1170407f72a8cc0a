package factory

import (
	"path"
	"reflect"
	"strings"
	"sync"
)

// Resolver resolves type names written in property declarations to types.
//
// Go cannot look a type up by name at runtime, so the Resolver only knows
// types it has been told about. The Container feeds it every type that
// passes through a registration or resolution call; Known adds more.
//
// A name is resolved relative to a scope type, the type declaring the
// property. Resolution tries, in order:
//
//   - a type alias declared for the scope's package with Alias
//   - the name as a fully-qualified "pkg/path.Type"
//   - "Type" in the scope's own package
//   - "alias.Type" where alias was declared for the scope's package with Import
//   - "pkg.Type" where pkg is the default import name (last path element) of
//     exactly one known package
//
// Names are compared case-insensitively and leading '*' are ignored.
type Resolver struct {
	mu      sync.RWMutex
	types   map[TypeKey]reflect.Type
	imports map[string]map[string]string
	aliases map[string]map[string]reflect.Type
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		types:   make(map[TypeKey]reflect.Type),
		imports: make(map[string]map[string]string),
		aliases: make(map[string]map[string]reflect.Type),
	}
}

// Known records types as resolvable. Pointers are recorded as their base
// type.
func (r *Resolver) Known(ts ...reflect.Type) {
	if r.known(ts...) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range ts {
		if t == nil {
			continue
		}

		t = indirect(t)
		k := KeyOf(t)
		if _, ok := r.types[k]; !ok {
			r.types[k] = t
		}
	}
}

// known reports whether all of ts are already recorded.
func (r *Resolver) known(ts ...reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range ts {
		if t == nil {
			continue
		}
		if _, ok := r.types[KeyOf(t)]; !ok {
			return false
		}
	}

	return true
}

// Import declares that, inside scopePkg, the qualifier alias refers to the
// package at pkgPath. This mirrors a Go import with a name.
func (r *Resolver) Import(scopePkg, alias, pkgPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.imports[scopePkg]
	if !ok {
		m = make(map[string]string)
		r.imports[scopePkg] = m
	}

	m[strings.ToLower(alias)] = pkgPath
}

// Alias declares that, inside scopePkg, the bare name alias refers to t.
// The type is also recorded as known.
func (r *Resolver) Alias(scopePkg, alias string, t reflect.Type) {
	r.Known(t)

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.aliases[scopePkg]
	if !ok {
		m = make(map[string]reflect.Type)
		r.aliases[scopePkg] = m
	}

	m[strings.ToLower(alias)] = indirect(t)
}

// Resolve returns the type that name refers to from within scope. The
// second result is false when nothing matches; deciding whether that is an
// error is up to the caller.
func (r *Resolver) Resolve(name string, scope reflect.Type) (reflect.Type, bool) {
	name = strings.TrimLeft(strings.TrimSpace(name), "*")
	if name == "" {
		return nil, false
	}

	var scopePkg string
	if scope != nil {
		scopePkg = indirect(scope).PkgPath()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(name)
	if t, ok := r.aliases[scopePkg][lower]; ok {
		return t, true
	}

	if t, ok := r.types[Normalize(name)]; ok && strings.ContainsAny(name, "./") {
		return t, true
	}

	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		if scope == nil {
			return nil, false
		}

		t, ok := r.types[Normalize(scopePkg+"."+name)]
		return t, ok
	}

	qual, short := lower[:idx], lower[idx+1:]
	if pkgPath, ok := r.imports[scopePkg][qual]; ok {
		t, ok := r.types[Normalize(pkgPath+"."+short)]
		return t, ok
	}

	return r.byDefaultImport(qual, short)
}

// byDefaultImport finds the type named short in a known package whose last
// path element is qual. It fails if more than one package matches.
func (r *Resolver) byDefaultImport(qual, short string) (reflect.Type, bool) {
	var found reflect.Type
	for _, t := range r.types {
		if t.PkgPath() == "" || strings.ToLower(t.Name()) != short {
			continue
		}
		if strings.ToLower(path.Base(t.PkgPath())) != qual {
			continue
		}

		if found != nil && found != t {
			return nil, false
		}
		found = t
	}

	return found, found != nil
}
