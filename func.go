package factory

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/hashicorp/go-multierror"
)

// Constructor wraps a function that builds instances of one type.
//
// The function may take any number of parameters and must return either
// the instance alone or the instance followed by an error:
//
//	func(...) T
//	func(...) (T, error)
//
// Parameters are positional. A variadic parameter takes a slice argument
// and defaults to nil. Use the Params option to name them, or take a
// single struct argument that embeds In to get names from the struct
// fields (see In). Default values are attached with Default or
// DefaultIndex, or with a `default` tag on struct fields.
//
// Constructors are registered on a Container with Define. The instance
// type is the first return type unless overridden with As, which is how a
// constructor of a concrete type is registered for an interface.
type Constructor struct {
	fn           reflect.Value
	typ          reflect.Type
	params       []*Param
	structIn     reflect.Type
	returnsError bool
	name         string
}

// ConstructorOption configures a Constructor.
type ConstructorOption func(*Constructor) error

// NewConstructor creates a Constructor from the function f.
func NewConstructor(f interface{}, opts ...ConstructorOption) (*Constructor, error) {
	if f == nil {
		return nil, fmt.Errorf("constructor cannot be nil")
	}

	fv := reflect.ValueOf(f)
	ft := fv.Type()
	if k := ft.Kind(); k != reflect.Func {
		return nil, fmt.Errorf("constructor should be a function, got %s", k)
	}

	numOut := ft.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, fmt.Errorf("constructor must return (T) or (T, error), got %d return values", numOut)
	}
	if numOut == 2 && ft.Out(1) != errType {
		return nil, fmt.Errorf("constructor's second return value must be error, got %s", ft.Out(1))
	}

	c := &Constructor{
		fn:           fv,
		typ:          ft.Out(0),
		returnsError: numOut == 2,
	}

	// A single struct argument embedding In is treated as a set of
	// named parameters. Anything else is lifted into positional params.
	if ft.NumIn() == 1 && isStruct(ft.In(0)) {
		params, err := paramsFromStruct(ft.In(0))
		if err != nil {
			return nil, err
		}

		c.params = params
		c.structIn = ft.In(0)
	} else {
		c.params = paramsFromFunc(ft)
	}

	var buildErr error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			buildErr = multierror.Append(buildErr, err)
		}
	}
	if buildErr != nil {
		return nil, buildErr
	}

	return c, nil
}

// Params names the parameters of a plain constructor function, in order.
// Fewer names than parameters is allowed; the remaining parameters stay
// positional only.
func Params(names ...string) ConstructorOption {
	return func(c *Constructor) error {
		if c.structIn != nil {
			return fmt.Errorf("parameter names cannot be set for a struct argument, name the fields instead")
		}
		if len(names) > len(c.params) {
			return fmt.Errorf("%d names given for %d parameters", len(names), len(c.params))
		}

		for i, n := range names {
			c.params[i].Name = n
		}

		return nil
	}
}

// Default sets the default value of the named parameter.
func Default(name string, v interface{}) ConstructorOption {
	return func(c *Constructor) error {
		p := c.param(name)
		if p == nil {
			return fmt.Errorf("unknown parameter %q", name)
		}

		return p.setDefault(v)
	}
}

// DefaultIndex sets the default value of the parameter at index i.
func DefaultIndex(i int, v interface{}) ConstructorOption {
	return func(c *Constructor) error {
		if i < 0 || i >= len(c.params) {
			return fmt.Errorf("parameter index %d out of range", i)
		}

		return c.params[i].setDefault(v)
	}
}

// As registers the constructor under t instead of its return type. The
// return type must be assignable to t.
func As(t reflect.Type) ConstructorOption {
	return func(c *Constructor) error {
		if t == nil {
			return fmt.Errorf("As type cannot be nil")
		}
		if !c.fn.Type().Out(0).AssignableTo(t) {
			return fmt.Errorf("%s is not assignable to %s", c.fn.Type().Out(0), t)
		}

		c.typ = t
		return nil
	}
}

// FuncName sets the name reported for the constructor in logs and errors.
func FuncName(n string) ConstructorOption {
	return func(c *Constructor) error {
		c.name = n
		return nil
	}
}

func (p *Param) setDefault(v interface{}) error {
	rv, err := argValue(v, p.Type)
	if err != nil {
		return fmt.Errorf("default for parameter %s: %w", p.label(), err)
	}

	p.HasDefault = true
	p.Default = rv
	return nil
}

func (c *Constructor) param(name string) *Param {
	for _, p := range c.params {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// Type returns the type this constructor is registered for.
func (c *Constructor) Type() reflect.Type { return c.typ }

// Key returns the TypeKey this constructor is registered under.
func (c *Constructor) Key() TypeKey { return KeyOf(c.typ) }

// Params returns the parameter specs in declaration order.
func (c *Constructor) Params() []*Param { return c.params }

// Name returns the name of the constructor function.
//
// This will return the name given with FuncName, if any. If not, this will
// attempt to look up the function name using the pointer. If no friendly
// name can be found, then this will default to the function type signature.
func (c *Constructor) Name() string {
	// Use our set name first, if we have one
	name := c.name

	// Fall back to inspecting the program counter
	if name == "" {
		if rfunc := runtime.FuncForPC(c.fn.Pointer()); rfunc != nil {
			name = rfunc.Name()
		}

		// Final fallback is our type signature
		if name == "" {
			name = c.fn.Type().String()
		}
	}

	return name
}

// String returns the name for this constructor. See Name.
func (c *Constructor) String() string {
	return c.Name()
}

// Call calls the constructor with the given argument values, one per
// parameter in declaration order.
func (c *Constructor) Call(in []reflect.Value) (reflect.Value, error) {
	if len(in) != len(c.params) {
		return reflect.Value{}, fmt.Errorf("%s expects %d arguments, got %d", c.Name(), len(c.params), len(in))
	}

	callIn := in
	if c.structIn != nil {
		sv := reflect.New(c.structIn).Elem()
		for i, p := range c.params {
			sv.Field(p.field).Set(in[i])
		}

		callIn = []reflect.Value{sv}
	}

	var r result
	if c.structIn == nil && c.fn.Type().IsVariadic() {
		r.out = c.fn.CallSlice(callIn)
	} else {
		r.out = c.fn.Call(callIn)
	}
	if err := r.Err(); err != nil {
		return reflect.Value{}, err
	}

	instance := r.Instance()
	if isNil(instance) {
		return reflect.Value{}, fmt.Errorf("%s returned %w", c.Name(), ErrNilInstance)
	}

	return instance, nil
}
