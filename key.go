package factory

import (
	"reflect"
	"strings"
)

// TypeKey is the canonical identity of a type used for singleton and
// provider registration. Two types with the same TypeKey are the same
// registration target.
type TypeKey string

// WildcardKey is the key of the default provider.
const WildcardKey TypeKey = ""

// Normalize canonicalizes a type name. It is total and idempotent:
// Normalize(string(Normalize(s))) == Normalize(s).
func Normalize(name string) TypeKey {
	name = strings.ToLower(strings.TrimSpace(name))
	return TypeKey(strings.Trim(name, "*./\\ \t"))
}

// KeyOf returns the TypeKey for t. Pointer indirections are ignored so *T
// and T share a key. A nil type is the wildcard key.
func KeyOf(t reflect.Type) TypeKey {
	if t == nil {
		return WildcardKey
	}

	t = indirect(t)
	return Normalize(typeName(t))
}

// typeName returns the fully-qualified name of t: the package path and the
// type name for named types, the type string otherwise.
func typeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}

	return t.String()
}

// indirect strips all pointer indirections from t.
func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

func (k TypeKey) String() string {
	if k == WildcardKey {
		return "<default>"
	}

	return string(k)
}
