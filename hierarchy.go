package factory

import "reflect"

// parent returns the ancestor of t: the type of the first embedded struct
// field of t, with pointers stripped. Types that are not structs and
// structs without an embedded struct have no ancestor.
//
// The In marker is never an ancestor.
func parent(t reflect.Type) (reflect.Type, bool) {
	t = indirect(t)
	if t.Kind() != reflect.Struct {
		return nil, false
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || f.Type == inType {
			continue
		}

		if ft := indirect(f.Type); ft.Kind() == reflect.Struct {
			return ft, true
		}
	}

	return nil, false
}

// Ancestors returns t followed by its chain of ancestors, from the most to
// the least specific. Implemented interfaces are not part of the chain.
func Ancestors(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}

	result := []reflect.Type{t}
	seen := map[reflect.Type]struct{}{indirect(t): {}}
	for {
		p, ok := parent(t)
		if !ok {
			return result
		}

		// Recursive embedding through pointers can loop.
		if _, ok := seen[p]; ok {
			return result
		}

		seen[p] = struct{}{}
		result = append(result, p)
		t = p
	}
}
