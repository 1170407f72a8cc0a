package factory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInjectConstructor_engine(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.NoError(c.Define(NewEngine,
		Params("front", "rear", "cylinders"),
		Default("cylinders", 4),
	))

	custom := &Wheel{Size: 19}
	e, err := Get[*Engine](c, Positional(0, custom))
	require.NoError(err)
	require.Same(custom, e.Front)
	require.NotNil(e.Rear)
	require.NotSame(custom, e.Rear)
	require.Equal(4, e.Cylinders)

	e, err = Get[*Engine](c, Named("rear", custom), Named("cylinders", 8))
	require.NoError(err)
	require.Same(custom, e.Rear)
	require.NotSame(custom, e.Front)
	require.Equal(8, e.Cylinders)
}

func TestInjectConstructor_defaultWheel(t *testing.T) {
	require := require.New(t)

	defaultWheel := &Wheel{Size: 14}

	c := mustNew()
	require.NoError(c.Define(
		func(w1, w2 *Wheel) *Engine { return &Engine{Front: w1, Rear: w2} },
		Params("w1", "w2"),
		Default("w2", defaultWheel),
	))

	e, err := Get[*Engine](c)
	require.NoError(err)
	require.NotNil(e.Front)
	require.NotSame(defaultWheel, e.Front)
	require.Same(defaultWheel, e.Rear)

	custom := &Wheel{Size: 20}
	e, err = Get[*Engine](c, Positional(0, custom))
	require.NoError(err)
	require.Same(custom, e.Front)
	require.Same(defaultWheel, e.Rear)
}

func TestInjectMethodArguments(t *testing.T) {
	wheel := &Wheel{Size: 16}

	cases := []struct {
		Name    string
		Args    []Arg
		Value   int
		Sources []string
		Err     string
	}{
		{
			"named beats positional",
			[]Arg{Named("a", 5), Positional(0, 6)},
			5,
			[]string{"named", "container"},
			"",
		},

		{
			"positional",
			[]Arg{Positional(0, 6)},
			6,
			[]string{"positional", "container"},
			"",
		},

		{
			"default",
			nil,
			1,
			[]string{"default", "container"},
			"",
		},

		{
			"supplied injectable",
			[]Arg{Named("w", wheel)},
			1,
			[]string{"default", "named"},
			"",
		},

		{
			"name is case sensitive",
			[]Arg{Named("A", 5)},
			1,
			[]string{"default", "container"},
			"",
		},

		{
			"type mismatch",
			[]Arg{Named("a", "five")},
			0,
			nil,
			"parameter a: string is not assignable to int",
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			c := mustNew()
			ctor, err := NewConstructor(
				func(a int, w *Wheel) *Counter { return &Counter{N: a} },
				Params("a", "w"),
				Default("a", 1),
			)
			require.NoError(err)

			args, err := NewArgs(tt.Args...)
			require.NoError(err)

			result, err := c.Injector().InjectMethodArguments(context.Background(), ctor.Params(), args)
			if tt.Err != "" {
				require.Error(err)
				require.Contains(err.Error(), tt.Err)
				return
			}
			require.NoError(err)

			var sources []string
			for _, arg := range result {
				sources = append(sources, arg.Source)
			}
			require.Equal(tt.Sources, sources)
			require.Equal(tt.Value, result.Map()["a"])
			require.NotNil(result.Map()["w"])
		})
	}
}

func TestInjectMethodArguments_missing(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.NoError(c.Define(func(n int) *Counter { return &Counter{N: n} }, Params("n")))

	_, err := Get[*Counter](c, Named("x", 1), Positional(3, 2))
	require.Error(err)

	var me *MissingArgumentError
	require.ErrorAs(err, &me)
	require.Equal("n", me.Param.Name)
	require.Equal("Cannot inject parameter [n]. No class or value given in [x, 3]", me.Error())

	// Unnamed parameters are reported by index.
	require.NoError(c.Define(func(n int) *Counter { return &Counter{N: n} }))
	_, err = Get[*Counter](c)
	require.ErrorAs(err, &me)
	require.Equal("Cannot inject parameter [#0]. No class or value given in []", me.Error())

	c2 := mustNew()
	require.NoError(c2.Define(func(n int) *Counter { return &Counter{N: n} }))
	counter, err := Get[*Counter](c2, Positional(0, 3))
	require.NoError(err)
	require.Equal(3, counter.N)
}

func TestInjectConstructor_structArgument(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.NoError(c.Define(func(in struct {
		In

		Front     *Wheel `inject:"front"`
		Rear      *Wheel
		Cylinders int `default:"8"`
	}) *Engine {
		return &Engine{Front: in.Front, Rear: in.Rear, Cylinders: in.Cylinders}
	}))

	front := &Wheel{Size: 18}
	e, err := Get[*Engine](c, Named("front", front))
	require.NoError(err)
	require.Same(front, e.Front)
	require.NotNil(e.Rear)
	require.Equal(8, e.Cylinders)

	e, err = Get[*Engine](c, Positional(2, 6))
	require.NoError(err)
	require.Equal(6, e.Cylinders)
}

func TestInjectConstructor_noConstructor(t *testing.T) {
	cases := []struct {
		Name     string
		Type     reflect.Type
		Expected interface{}
		Err      error
	}{
		{
			"pointer to struct",
			reflect.TypeOf(&Wheel{}),
			&Wheel{},
			nil,
		},

		{
			"struct value",
			reflect.TypeOf(Wheel{}),
			Wheel{},
			nil,
		},

		{
			"interface",
			reflect.TypeOf((*Vehicle)(nil)).Elem(),
			nil,
			ErrNoConstructor,
		},

		{
			"pointer to interface",
			reflect.TypeOf((*Vehicle)(nil)),
			nil,
			ErrNoConstructor,
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			c := mustNew()
			actual, err := c.Injector().InjectConstructor(context.Background(), tt.Type, Args{})
			if tt.Err != nil {
				require.ErrorIs(err, tt.Err)

				var ce *ConstructionError
				require.ErrorAs(err, &ce)
				require.Equal(KeyOf(tt.Type), ce.Key)
				return
			}

			require.NoError(err)
			require.Equal(tt.Expected, actual)
		})
	}
}

func TestInjectConstructor_errorChain(t *testing.T) {
	require := require.New(t)

	errSentinel := errors.New("no fuel")

	c := mustNew(WithoutPropertyInjection())
	require.NoError(c.Define(func(e *Engine) *Car { return &Car{Engine: e} }))
	require.NoError(c.Define(func() (*Engine, error) { return nil, errSentinel }))

	_, err := Get[*Car](c)
	require.Error(err)
	require.ErrorIs(err, errSentinel)

	var ce *ConstructionError
	require.ErrorAs(err, &ce)
	require.Equal([]TypeKey{
		KeyOf(reflect.TypeOf(Car{})),
		KeyOf(reflect.TypeOf(Engine{})),
	}, ce.Chain())
	require.Equal(
		"Error while constructing *factory.Car: Error while constructing *factory.Engine: no fuel",
		err.Error())
}

func TestInjectConstructor_variadic(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.NoError(c.Define(func(ns ...int) *Counter {
		sum := 0
		for _, n := range ns {
			sum += n
		}
		return &Counter{N: sum}
	}, Params("ns")))

	counter, err := Get[*Counter](c, Positional(0, []int{1, 2}))
	require.NoError(err)
	require.Equal(3, counter.N)

	counter, err = Get[*Counter](c, Named("ns", []int{4}))
	require.NoError(err)
	require.Equal(4, counter.N)

	counter, err = Get[*Counter](c)
	require.NoError(err)
	require.Equal(0, counter.N)
}

func TestInjectConstructor_as(t *testing.T) {
	require := require.New(t)

	vehicle := reflect.TypeOf((*Vehicle)(nil)).Elem()

	c := mustNew()
	require.NoError(c.Define(func() *Car { return &Car{} }, As(vehicle)))

	v, err := Get[Vehicle](c)
	require.NoError(err)
	require.Equal(4, v.Wheels())

	// The default provider injects the tagged properties of the result.
	car, ok := v.(*Car)
	require.True(ok)
	require.NotNil(car.Engine)
}

func TestDefine_invalid(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.Error(c.Define(42))

	ctor, err := NewConstructor(NewEngine)
	require.NoError(err)
	require.Error(c.Define(ctor, Params("a")))
	require.NoError(c.Define(ctor))

	actual, ok := c.Injector().Constructor(reflect.TypeOf(Engine{}))
	require.True(ok)
	require.Same(ctor, actual)
}
