package factory

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// Arg is an option to GetInstance that supplies a constructor argument the
// container cannot (or should not) provide on its own.
type Arg func(*argBuilder) error

type argBuilder struct {
	named      map[string]interface{}
	positional map[int]interface{}
}

func newArgBuilder(opts ...Arg) (*argBuilder, error) {
	builder := &argBuilder{
		named:      make(map[string]interface{}),
		positional: make(map[int]interface{}),
	}

	var buildErr error
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(builder); err != nil {
			buildErr = multierror.Append(buildErr, err)
		}
	}

	return builder, buildErr
}

// Named supplies the argument for the parameter with exactly this name.
// A named argument takes precedence over a positional one.
func Named(n string, v interface{}) Arg {
	return func(a *argBuilder) error {
		if n == "" {
			return fmt.Errorf("argument name cannot be empty")
		}

		a.named[n] = v
		return nil
	}
}

// Positional supplies the argument for the parameter at index i
// (zero-indexed, in declaration order).
func Positional(i int, v interface{}) Arg {
	return func(a *argBuilder) error {
		if i < 0 {
			return fmt.Errorf("argument index cannot be negative: %d", i)
		}

		a.positional[i] = v
		return nil
	}
}

// FromMap supplies one named argument per map entry.
func FromMap(m map[string]interface{}) Arg {
	return func(a *argBuilder) error {
		var err error
		for k, v := range m {
			if e := Named(k, v)(a); e != nil {
				err = multierror.Append(err, e)
			}
		}

		return err
	}
}

// Args is the immutable bag of caller-supplied arguments for a single
// construction call. It is indexable both by parameter name and by
// positional index.
type Args struct {
	named      map[string]interface{}
	positional map[int]interface{}
}

// NewArgs builds an Args value from the given options.
func NewArgs(opts ...Arg) (Args, error) {
	b, err := newArgBuilder(opts...)
	if err != nil {
		return Args{}, err
	}

	return b.args(), nil
}

func (b *argBuilder) args() Args {
	return Args{named: b.named, positional: b.positional}
}

// Lookup returns the argument supplied under the given name.
func (a Args) Lookup(name string) (interface{}, bool) {
	v, ok := a.named[name]
	return v, ok
}

// At returns the argument supplied for the given positional index.
func (a Args) At(i int) (interface{}, bool) {
	v, ok := a.positional[i]
	return v, ok
}

// Len returns the number of supplied arguments.
func (a Args) Len() int {
	return len(a.named) + len(a.positional)
}

// Keys returns the supplied keys: names sorted alphabetically followed by
// positional indexes in ascending order.
func (a Args) Keys() []string {
	names := make([]string, 0, len(a.named))
	for k := range a.named {
		names = append(names, k)
	}
	sort.Strings(names)

	idx := make([]int, 0, len(a.positional))
	for i := range a.positional {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	result := names
	for _, i := range idx {
		result = append(result, strconv.Itoa(i))
	}

	return result
}

// With returns a copy of a with the given options applied on top. The
// receiver is never modified.
func (a Args) With(opts ...Arg) (Args, error) {
	b, err := newArgBuilder(opts...)
	if err != nil {
		return Args{}, err
	}

	for k, v := range a.named {
		if _, ok := b.named[k]; !ok {
			b.named[k] = v
		}
	}
	for k, v := range a.positional {
		if _, ok := b.positional[k]; !ok {
			b.positional[k] = v
		}
	}

	return b.args(), nil
}

// Under returns a copy of a where any key already present in a wins over
// the given options. It is the inverse precedence of With.
func (a Args) Under(opts ...Arg) (Args, error) {
	b, err := newArgBuilder(opts...)
	if err != nil {
		return Args{}, err
	}

	for k, v := range a.named {
		b.named[k] = v
	}
	for k, v := range a.positional {
		b.positional[k] = v
	}

	return b.args(), nil
}

// Options returns the supplied arguments as Arg options, so they can be
// forwarded to another GetInstance call.
func (a Args) Options() []Arg {
	result := make([]Arg, 0, a.Len())
	for k, v := range a.named {
		result = append(result, Named(k, v))
	}
	for i, v := range a.positional {
		result = append(result, Positional(i, v))
	}

	return result
}

// argValue converts a supplied argument into a value assignable to t. A nil
// argument becomes the zero value of t when t can hold nil.
func argValue(v interface{}, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}

		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	// A pointer can satisfy a value parameter of its element type.
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Type().AssignableTo(t) {
		return rv.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
}
