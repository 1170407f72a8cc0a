package factory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
)

// Injector resolves constructor parameters and properties by asking its
// Container for instances of the missing dependency types.
type Injector struct {
	c *Container

	mu       sync.RWMutex
	ctors    map[TypeKey]*Constructor
	declared map[TypeKey][]Property

	fields *fieldCache
}

func newInjector(c *Container) *Injector {
	return &Injector{
		c:        c,
		ctors:    make(map[TypeKey]*Constructor),
		declared: make(map[TypeKey][]Property),
		fields:   newFieldCache(),
	}
}

// Argument is one resolved constructor argument.
type Argument struct {
	Param *Param
	Value reflect.Value

	// Source is where the value came from: "named", "positional",
	// "default" or "container".
	Source string
}

// Arguments is the ordered result of InjectMethodArguments.
type Arguments []Argument

// Values returns the argument values in declaration order.
func (a Arguments) Values() []reflect.Value {
	result := make([]reflect.Value, len(a))
	for i, arg := range a {
		result[i] = arg.Value
	}

	return result
}

// Map returns the arguments keyed by parameter name. Unnamed parameters
// are keyed by their index.
func (a Arguments) Map() map[string]interface{} {
	result := make(map[string]interface{}, len(a))
	for _, arg := range a {
		k := arg.Param.Name
		if k == "" {
			k = strconv.Itoa(arg.Param.Index)
		}

		result[k] = arg.Value.Interface()
	}

	return result
}

// define registers ctor, replacing any constructor with the same key.
func (i *Injector) define(ctor *Constructor) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ctors[ctor.Key()] = ctor
}

// Constructor returns the constructor registered for t.
func (i *Injector) Constructor(t reflect.Type) (*Constructor, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	ctor, ok := i.ctors[KeyOf(t)]
	return ctor, ok
}

// constructors returns all registered constructors sorted by key.
func (i *Injector) constructors() []*Constructor {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result := make([]*Constructor, 0, len(i.ctors))
	for _, c := range i.ctors {
		result = append(result, c)
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].Key() < result[b].Key()
	})

	return result
}

// Declare registers type-level property declarations for t, which must be
// a struct or a pointer to a struct. Each declaration has the form
// "TypeName propertyName [marker]" (see ParseDeclaration). A property
// without a matching field or SetName method is rejected here rather than
// at resolution time.
func (i *Injector) Declare(t reflect.Type, decls ...string) error {
	if t == nil || indirect(t).Kind() != reflect.Struct {
		return fmt.Errorf("property declarations require a struct type, got %v", t)
	}

	pt := reflect.PtrTo(indirect(t))
	props := make([]Property, 0, len(decls))
	for _, d := range decls {
		p, err := ParseDeclaration(d)
		if err != nil {
			return err
		}

		if !hasProperty(pt, p.Name) {
			return fmt.Errorf("%w: %s has no field or setter for %q", ErrUnknownProperty, pt.Elem(), p.Name)
		}

		props = append(props, p)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	k := KeyOf(t)
	i.declared[k] = append(i.declared[k], props...)
	return nil
}

func (i *Injector) declarations(t reflect.Type) []Property {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.declared[KeyOf(t)]
}

// InjectConstructor builds an instance of t. If t has a registered
// constructor, its parameters are resolved with InjectMethodArguments and
// it is called. Otherwise t is built with no arguments: a new zero value,
// or a pointer to one for pointer types. Interfaces cannot be built without
// a constructor.
//
// Any failure is returned as a *ConstructionError for t.
func (i *Injector) InjectConstructor(ctx context.Context, t reflect.Type, args Args) (interface{}, error) {
	ctor, ok := i.Constructor(t)
	if !ok {
		v, err := zeroInstance(t)
		if err != nil {
			return nil, i.constructionError(t, err)
		}

		return v.Interface(), nil
	}

	log := i.c.logger.Named(string(KeyOf(t)))
	log.Trace("injecting constructor", "constructor", ctor.Name())

	in, err := i.InjectMethodArguments(ctx, ctor.Params(), args)
	if err != nil {
		return nil, i.constructionError(t, err)
	}

	v, err := ctor.Call(in.Values())
	if err != nil {
		return nil, i.constructionError(t, err)
	}

	return v.Interface(), nil
}

// InjectMethodArguments resolves a value for each parameter, in
// declaration order, trying:
//
//  1. an argument supplied under the parameter's name
//  2. an argument supplied at the parameter's index
//  3. the parameter's default value
//  4. for injectable parameter types, an instance from the Container
//
// A parameter that none of these satisfy fails the call with a
// *MissingArgumentError.
func (i *Injector) InjectMethodArguments(ctx context.Context, params []*Param, args Args) (Arguments, error) {
	log := i.c.logger
	result := make(Arguments, 0, len(params))
	for _, p := range params {
		arg := Argument{Param: p}

		var raw interface{}
		var supplied bool
		if p.Name != "" {
			raw, supplied = args.Lookup(p.Name)
			arg.Source = "named"
		}
		if !supplied {
			raw, supplied = args.At(p.Index)
			arg.Source = "positional"
		}

		switch {
		case supplied:
			v, err := argValue(raw, p.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.label(), err)
			}
			arg.Value = v

		case p.HasDefault:
			arg.Value = p.Default
			arg.Source = "default"

		case p.Injectable():
			inst, err := i.c.GetInstanceContext(ctx, p.Type)
			if err != nil {
				return nil, err
			}

			v, err := argValue(inst, p.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", p.label(), err)
			}
			arg.Value = v
			arg.Source = "container"

		default:
			return nil, &MissingArgumentError{Param: p, Supplied: args.Keys()}
		}

		log.Trace("argument", "idx", p.Index, "name", p.Name, "source", arg.Source)
		result = append(result, arg)
	}

	return result, nil
}

// InjectProperties injects the struct fields of obj that carry an `inject`
// tag accepted by filter. obj must be a non-nil pointer to a struct. The
// field is set to an instance of the tag's type name, resolved relative to
// the struct type, or of the field type when the tag names no type.
func (i *Injector) InjectProperties(ctx context.Context, obj interface{}, filter FilterFunc) error {
	ptr, err := structPtr(obj)
	if err != nil {
		return err
	}

	owner := ptr.Type().Elem()
	for _, prop := range i.fields.get(owner) {
		if filter != nil && !filter(prop.Annotation) {
			continue
		}

		if err := i.injectProperty(ctx, ptr, owner, prop); err != nil {
			return err
		}
	}

	return nil
}

// InjectPropertyAnnotations injects the type-level property declarations
// registered for the type of obj with Declare, for those accepted by
// filter. obj must be a non-nil pointer to a struct.
func (i *Injector) InjectPropertyAnnotations(ctx context.Context, obj interface{}, filter FilterFunc) error {
	ptr, err := structPtr(obj)
	if err != nil {
		return err
	}

	owner := ptr.Type().Elem()
	for _, prop := range i.declarations(owner) {
		if filter != nil && !filter(prop.Annotation) {
			continue
		}

		if err := i.injectProperty(ctx, ptr, owner, prop); err != nil {
			return err
		}
	}

	return nil
}

func (i *Injector) injectProperty(ctx context.Context, ptr reflect.Value, owner reflect.Type, prop Property) error {
	dst := prop.fieldType
	if dst == nil {
		var ok bool
		dst, ok = propertyType(ptr.Type(), prop.Name)
		if !ok {
			return fmt.Errorf("%w: %s has no field or setter for %q", ErrUnknownProperty, owner, prop.Name)
		}
	}

	target := dst
	if prop.TypeName != "" {
		i.c.resolver.Known(dst)

		t, ok := i.c.resolver.Resolve(prop.TypeName, owner)
		if !ok {
			return &ResolutionError{
				Property: prop.Name,
				Owner:    owner,
				TypeName: prop.TypeName,
			}
		}

		// The Resolver knows base types; build a pointer when only the
		// pointer fits the property.
		target = t
		if t.Kind() == reflect.Struct && !t.AssignableTo(dst) && reflect.PtrTo(t).AssignableTo(dst) {
			target = reflect.PtrTo(t)
		}
	}

	i.c.logger.Trace("injecting property",
		"owner", KeyOf(owner), "property", prop.Name, "type", KeyOf(target))

	inst, err := i.c.GetInstanceContext(ctx, target)
	if err != nil {
		return err
	}

	return assign(ptr, prop.Name, inst)
}

func (i *Injector) constructionError(t reflect.Type, err error) error {
	return &ConstructionError{Type: t, Key: KeyOf(t), Cause: err}
}

// zeroInstance builds t without a constructor.
func zeroInstance(t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Interface:
		return reflect.Value{}, fmt.Errorf("%w for interface %s", ErrNoConstructor, t)

	case reflect.Ptr:
		base := indirect(t)
		if base.Kind() == reflect.Interface {
			return reflect.Value{}, fmt.Errorf("%w for interface %s", ErrNoConstructor, base)
		}

		// Build the chain of pointers down to a new zero value.
		v := reflect.New(base)
		for v.Type() != t {
			p := reflect.New(v.Type())
			p.Elem().Set(v)
			v = p
		}

		return v, nil
	}

	return reflect.New(t).Elem(), nil
}

func structPtr(obj interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("property injection requires a non-nil pointer to a struct, got %T", obj)
	}

	return v, nil
}
