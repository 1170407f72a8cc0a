package factory

import "reflect"

// result holds the outputs of a constructor call.
type result struct {
	out []reflect.Value
}

// Err returns the error result of the call, if any. A final output of type
// error that is non-nil is treated as the call error.
func (r *result) Err() error {
	if len(r.out) > 0 {
		final := r.out[len(r.out)-1]
		if final.IsValid() && final.Type() == errType {
			if err := final.Interface(); err != nil {
				return err.(error)
			}
		}
	}

	return nil
}

// Instance returns the constructed value, which is always the first output.
func (r *result) Instance() reflect.Value {
	return r.out[0]
}

// isNil reports whether v holds a nil pointer, interface, or other
// nillable value.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan:
		return v.IsNil()
	}

	return false
}

// errType is used for comparison in constructor signatures
var errType = reflect.TypeOf((*error)(nil)).Elem()
