package factory

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
)

// FieldArg turns one struct field into zero or more Args. It is used with
// FromStruct.
type FieldArg func(reflect.StructField, reflect.Value) []Arg

// NamedFields supplies each exported field as a named argument using the
// field name. If tag is non-empty and the field carries that tag, the tag
// value is used as the name instead; a tag value of "-" skips the field.
func NamedFields(tag string) FieldArg {
	return func(f reflect.StructField, v reflect.Value) []Arg {
		name := f.Name
		if tag != "" {
			if tv, ok := f.Tag.Lookup(tag); ok {
				if tv == "-" {
					return nil
				}
				if tv != "" {
					name = tv
				}
			}
		}

		return []Arg{Named(name, v.Interface())}
	}
}

// PositionalFields supplies each exported field as a positional argument
// using the field's declaration index.
func PositionalFields() FieldArg {
	return func(f reflect.StructField, v reflect.Value) []Arg {
		return []Arg{Positional(f.Index[0], v.Interface())}
	}
}

// FromStruct supplies arguments taken from the exported fields of v, which
// must be a struct or a pointer to a struct. With no FieldArg given,
// NamedFields("inject") is used.
func FromStruct(v interface{}, opts ...FieldArg) Arg {
	return func(a *argBuilder) error {
		sv := structValueOf(reflect.ValueOf(v))
		if sv.Kind() == reflect.Invalid {
			return fmt.Errorf("only struct or pointer to struct types are supported in FromStruct, got %T", v)
		}

		if len(opts) == 0 {
			opts = []FieldArg{NamedFields("inject")}
		}

		var err error
		st := sv.Type()
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.PkgPath != "" {
				continue
			}

			for _, opt := range opts {
				for _, arg := range opt(f, sv.Field(i)) {
					if e := arg(a); e != nil {
						err = multierror.Append(err, e)
					}
				}
			}
		}

		return err
	}
}

func structValueOf(rv reflect.Value) reflect.Value {
	if k := rv.Kind(); k != reflect.Struct && k != reflect.Ptr {
		return reflect.Value{}
	}

	sv := rv
	if sv.Kind() == reflect.Ptr {
		if sv.IsNil() {
			return reflect.Value{}
		}

		// unwrap ptr
		sv = sv.Elem()
		if sv.Kind() != reflect.Struct {
			return reflect.Value{}
		}
	}

	return sv
}
