package factory

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
	"unsafe"
)

// TagName is the struct tag read for field-level property declarations.
//
//	type Car struct {
//		Engine *Engine `inject:"<-"`          // field type
//		Spare  Part    `inject:"*Wheel <-"`   // named type, resolved
//		Radio  *Radio  `inject:""`            // candidate, rejected by Marked
//	}
const TagName = "inject"

// Property is one injectable property declaration.
type Property struct {
	// Name is the field name, or the setter suffix (SetName).
	Name string

	// TypeName is the declared type name. It is resolved with the
	// Resolver relative to the declaring type. Empty means the field's
	// own type.
	TypeName string

	// Annotation is the declaration text handed to the FilterFunc.
	Annotation string

	// fieldType is the Go type of the field for field-level declarations.
	fieldType reflect.Type
}

// ParseDeclaration parses a type-level property declaration of the form
//
//	TypeName propertyName [anything else]
//
// A leading "@property" and a "$" before the property name are accepted
// and ignored.
func ParseDeclaration(text string) (Property, error) {
	fields := strings.Fields(text)
	if len(fields) > 0 && fields[0] == "@property" {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return Property{}, fmt.Errorf("invalid property declaration %q: expected \"Type name\"", text)
	}

	name := strings.TrimPrefix(fields[1], "$")
	if name == "" {
		return Property{}, fmt.Errorf("invalid property declaration %q: empty name", text)
	}

	return Property{
		Name:       name,
		TypeName:   fields[0],
		Annotation: strings.TrimSpace(text),
	}, nil
}

// parseFieldTag parses an `inject` tag value. The first token is the type
// name unless it is the injection marker.
func parseFieldTag(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) == 0 || strings.HasPrefix(fields[0], InjectionMarker) {
		return ""
	}

	return fields[0]
}

// fieldCache caches the tagged fields of struct types.
type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]Property
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]Property)}
}

// get returns the field-level declarations of the struct type t, computing
// them on first use.
func (fc *fieldCache) get(t reflect.Type) []Property {
	fc.mu.RLock()
	props, ok := fc.fields[t]
	fc.mu.RUnlock()
	if ok {
		return props
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check after acquiring write lock
	if props, ok := fc.fields[t]; ok {
		return props
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" || sf.Anonymous {
			continue
		}

		props = append(props, Property{
			Name:       sf.Name,
			TypeName:   parseFieldTag(tag),
			Annotation: tag,
			fieldType:  sf.Type,
		})
	}

	fc.fields[t] = props
	return props
}

// hasProperty reports whether values of the pointer type pt can receive the
// named property, through a field or a setter.
func hasProperty(pt reflect.Type, name string) bool {
	_, ok := propertyType(pt, name)
	return ok
}

// propertyType returns the type a property of pt accepts: the field type,
// or the argument type of the setter.
func propertyType(pt reflect.Type, name string) (reflect.Type, bool) {
	if sf, ok := pt.Elem().FieldByName(name); ok {
		return sf.Type, true
	}

	if m, ok := setter(pt, name); ok {
		return m.Type.In(1), true
	}

	return nil, false
}

func setter(pt reflect.Type, name string) (reflect.Method, bool) {
	m, ok := pt.MethodByName("Set" + upperFirst(name))
	if !ok || m.Type.NumIn() != 2 {
		return reflect.Method{}, false
	}

	return m, true
}

// assign sets the named property on the struct pointed to by ptr. A field
// is set directly, unexported or not. Without a field, a SetName method
// taking one argument is called.
func assign(ptr reflect.Value, name string, v interface{}) error {
	pt := ptr.Type()
	if sf, ok := pt.Elem().FieldByName(name); ok {
		f, err := ptr.Elem().FieldByIndexErr(sf.Index)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}

		val, err := argValue(v, f.Type())
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}

		if !f.CanSet() {
			f = reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
		}

		f.Set(val)
		return nil
	}

	m, ok := setter(pt, name)
	if !ok {
		return fmt.Errorf("%w: %s has no field or setter for %q", ErrUnknownProperty, pt.Elem(), name)
	}

	val, err := argValue(v, m.Type.In(1))
	if err != nil {
		return fmt.Errorf("setter %s: %w", m.Name, err)
	}

	out := ptr.Method(m.Index).Call([]reflect.Value{val})
	r := result{out: out}
	return r.Err()
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[n:]
}
