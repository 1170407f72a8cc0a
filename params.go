package factory

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// In can be embedded in a struct that is the single argument of a
// constructor. The exported fields of that struct then become the
// constructor's parameters, in declaration order, named after the field.
//
//	func NewEngine(in struct {
//		factory.In
//
//		Front *Wheel `inject:"w1"`
//		Spare *Wheel `inject:"w2"`
//		Cylinders int `default:"4"`
//	}) *Engine
//
// Go reflection doesn't expose function parameter names, so this is the
// way to get named parameters without the Params option.
type In struct{}

var inType = reflect.TypeOf(In{})

// Param describes one constructor parameter.
type Param struct {
	// Name is the parameter name. It may be empty for parameters of a
	// plain function that were not named with Params.
	Name string

	// Index is the zero-based position of the parameter.
	Index int

	// Type is the declared type of the parameter.
	Type reflect.Type

	// HasDefault is true when Default holds a value to use when no
	// argument was supplied.
	HasDefault bool
	Default    reflect.Value

	// field is the struct field index for struct-input constructors.
	field int
}

// Injectable reports whether the container can resolve this parameter by
// its type: pointers to structs, structs, and interfaces qualify, scalars
// and collections do not.
func (p *Param) Injectable() bool {
	return isInjectable(p.Type)
}

func isInjectable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Struct:
		return true
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct
	}

	return false
}

func (p *Param) label() string {
	if p.Name != "" {
		return p.Name
	}

	return "#" + strconv.Itoa(p.Index)
}

func (p *Param) String() string {
	return fmt.Sprintf("%s %s", p.label(), p.Type)
}

// isStruct returns true if the given type is a struct that embeds In.
func isStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		if isStructField(t.Field(i)) {
			return true
		}
	}

	return false
}

// isStructField returns true if the given field is the embedded In marker.
func isStructField(f reflect.StructField) bool {
	return f.Anonymous && f.Type == inType
}

// paramsFromFunc lifts the flat argument list of a function into params.
// A variadic parameter is lifted as its slice type and defaults to nil.
func paramsFromFunc(ft reflect.Type) []*Param {
	result := make([]*Param, ft.NumIn())
	for i := range result {
		result[i] = &Param{
			Index: i,
			Type:  ft.In(i),
			field: -1,
		}
	}

	if ft.IsVariadic() {
		last := result[len(result)-1]
		last.HasDefault = true
		last.Default = reflect.Zero(last.Type)
	}

	return result
}

// paramsFromStruct turns the exported fields of a struct embedding In into
// params. The field name can be overridden with `inject:"name"` and a
// scalar default given with `default:"value"`.
func paramsFromStruct(st reflect.Type) ([]*Param, error) {
	var result []*Param
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)

		// Ignore unexported fields and our struct marker
		if sf.PkgPath != "" || isStructField(sf) {
			continue
		}

		name := sf.Name
		if tag, ok := sf.Tag.Lookup("inject"); ok {
			if tag == "-" {
				continue
			}

			if n := strings.TrimSpace(strings.Split(tag, ",")[0]); n != "" {
				name = n
			}
		}

		p := &Param{
			Name:  name,
			Index: len(result),
			Type:  sf.Type,
			field: i,
		}

		if raw, ok := sf.Tag.Lookup("default"); ok {
			v, err := parseDefault(raw, sf.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", sf.Name, err)
			}

			p.HasDefault = true
			p.Default = v
		}

		result = append(result, p)
	}

	return result, nil
}

// parseDefault parses a `default` tag value into a value of type t. Only
// scalar kinds are supported.
func parseDefault(raw string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(n)

	default:
		return reflect.Value{}, fmt.Errorf("default tag not supported for %s", t)
	}

	return v, nil
}
