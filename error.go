package factory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoConstructor is returned when a type has no registered
	// constructor and no zero value can stand in for one (interfaces).
	ErrNoConstructor = errors.New("no constructor")

	// ErrNilInstance is returned when a provider or constructor yields nil.
	ErrNilInstance = errors.New("nil instance")

	// ErrInvalidInstance is returned when a provider yields a value that
	// is not of the requested type.
	ErrInvalidInstance = errors.New("invalid instance")

	// ErrDepthExceeded is returned when too many constructions of one type
	// are in progress at once, which happens when providers resolve a cycle
	// without passing on their context.
	ErrDepthExceeded = errors.New("construction depth exceeded")

	// ErrUnknownProperty is returned when a declared property has neither a
	// field nor a setter method on the target type.
	ErrUnknownProperty = errors.New("unknown property")
)

// NotFoundError is returned by GetSingleton when no singleton was ever
// registered for the type.
type NotFoundError struct {
	Type reflect.Type
	Key  TypeKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Instance of [%s] does not exist.", typeLabel(e.Type, e.Key))
}

// MissingArgumentError is returned when a constructor parameter has no
// supplied argument, no default, and no injectable type.
type MissingArgumentError struct {
	// Param is the parameter that could not be satisfied.
	Param *Param

	// Supplied lists the argument keys that were supplied to the call.
	Supplied []string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Cannot inject parameter [%s]. No class or value given in [%s]",
		e.Param.label(), strings.Join(e.Supplied, ", "))
}

// ResolutionError is returned when a declared property names a type that
// the Resolver cannot locate.
type ResolutionError struct {
	// Property is the name of the property being injected.
	Property string

	// Owner is the type declaring the property.
	Owner reflect.Type

	// TypeName is the unresolved type name as written in the declaration.
	TypeName string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("Error while loading dependency [%s] of [%s]: Could not find class [%s].",
		e.Property, typeLabel(e.Owner, ""), e.TypeName)
}

// ConstructionError wraps any failure while instantiating a type. Nested
// failures form a chain from the outermost requested type down to the root
// cause; use errors.As / errors.Unwrap to inspect it.
type ConstructionError struct {
	Type  reflect.Type
	Key   TypeKey
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("Error while constructing %s: %v", typeLabel(e.Type, e.Key), e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Chain returns the types under construction from the outermost one down
// to the innermost, as recorded by nested ConstructionErrors.
func (e *ConstructionError) Chain() []TypeKey {
	var result []TypeKey
	var err error = e
	for err != nil {
		var ce *ConstructionError
		if !errors.As(err, &ce) {
			break
		}

		result = append(result, ce.Key)
		err = ce.Cause
	}

	return result
}

// CyclicDependencyError is returned when a type is requested while its own
// construction is already in progress on the current resolution chain.
type CyclicDependencyError struct {
	Path []TypeKey
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "cyclic dependency detected"
	}

	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = k.String()
	}

	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(parts, " -> "))
}

func typeLabel(t reflect.Type, k TypeKey) string {
	if t != nil {
		return t.String()
	}

	return k.String()
}

var (
	_ error = (*NotFoundError)(nil)
	_ error = (*MissingArgumentError)(nil)
	_ error = (*ResolutionError)(nil)
	_ error = (*ConstructionError)(nil)
	_ error = (*CyclicDependencyError)(nil)
)
