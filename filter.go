package factory

import "strings"

// InjectionMarker is the token that marks a property declaration as
// injectable for the default filter.
const InjectionMarker = "<-"

// FilterFunc decides whether a property declaration is eligible for
// injection. It receives the declaration text: the `inject` tag value for
// struct fields, or the full declaration for type-level properties.
type FilterFunc func(annotation string) bool

// Marked returns a FilterFunc that passes declarations containing marker.
func Marked(marker string) FilterFunc {
	return func(annotation string) bool {
		return strings.Contains(annotation, marker)
	}
}

// FilterAll passes every declaration.
func FilterAll() FilterFunc {
	return func(string) bool { return true }
}

// FilterOr returns a FilterFunc that returns true if any of the given
// filter functions return true.
func FilterOr(fs ...FilterFunc) FilterFunc {
	return func(v string) bool {
		for _, f := range fs {
			if f(v) {
				return true
			}
		}

		return false
	}
}

// FilterAnd returns a FilterFunc that returns true if all of the given
// filter functions return true.
func FilterAnd(fs ...FilterFunc) FilterFunc {
	return func(v string) bool {
		for _, f := range fs {
			if !f(v) {
				return false
			}
		}

		return true
	}
}

// FilterNot inverts f.
func FilterNot(f FilterFunc) FilterFunc {
	return func(v string) bool {
		return !f(v)
	}
}
