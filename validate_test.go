package factory

import (
	"context"
	"reflect"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	vehicle := reflect.TypeOf((*Vehicle)(nil)).Elem()
	needsVehicle := func(v Vehicle) *Counter { return &Counter{N: v.Wheels()} }

	cases := []struct {
		Name   string
		Setup  func(*Container) error
		Errors int
	}{
		{
			"empty",
			func(*Container) error { return nil },
			0,
		},

		{
			"zero constructible dependencies",
			func(c *Container) error {
				return c.Define(NewEngine)
			},
			0,
		},

		{
			"interface without constructor",
			func(c *Container) error {
				return c.Define(needsVehicle)
			},
			1,
		},

		{
			"interface with constructor",
			func(c *Container) error {
				if err := c.Define(needsVehicle); err != nil {
					return err
				}

				return c.Define(func() *Car { return &Car{} }, As(vehicle))
			},
			0,
		},

		{
			"interface singleton",
			func(c *Container) error {
				c.SetSingleton(vehicle, &Car{})
				return c.Define(needsVehicle)
			},
			0,
		},

		{
			"interface provider",
			func(c *Container) error {
				c.SetProvider(vehicle, ProviderFunc(func(context.Context, reflect.Type, Args) (interface{}, error) {
					return &Car{}, nil
				}))
				return c.Define(needsVehicle)
			},
			0,
		},

		{
			"interface default",
			func(c *Container) error {
				return c.Define(needsVehicle, DefaultIndex(0, &Car{}))
			},
			0,
		},

		{
			"cycle",
			func(c *Container) error {
				if err := c.Define(NewCycA); err != nil {
					return err
				}

				return c.Define(NewCycB)
			},
			1,
		},

		{
			"self cycle",
			func(c *Container) error {
				return c.Define(func(*Counter) *Counter { return &Counter{} })
			},
			1,
		},

		{
			"all problems together",
			func(c *Container) error {
				if err := c.Define(NewCycA); err != nil {
					return err
				}
				if err := c.Define(NewCycB); err != nil {
					return err
				}

				return c.Define(needsVehicle)
			},
			2,
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			c := mustNew()
			require.NoError(tt.Setup(c))

			err := c.Validate()
			if tt.Errors == 0 {
				require.NoError(err)
				return
			}

			require.Error(err)
			merr, ok := err.(*multierror.Error)
			require.True(ok)
			require.Len(merr.Errors, tt.Errors)
		})
	}
}

func TestValidate_details(t *testing.T) {
	require := require.New(t)

	c := mustNew()
	require.NoError(c.Define(NewCycA))
	require.NoError(c.Define(NewCycB))
	require.NoError(c.Define(func(v Vehicle) *Counter { return nil }, FuncName("newCounter")))

	err := c.Validate()
	require.Error(err)
	require.ErrorIs(err, ErrNoConstructor)
	require.Contains(err.Error(), "newCounter: parameter #0 factory.Vehicle")

	var cycle *CyclicDependencyError
	require.ErrorAs(err, &cycle)

	a, b := KeyOf(reflect.TypeOf(CycA{})), KeyOf(reflect.TypeOf(CycB{}))
	require.Equal([]TypeKey{a, b, a}, cycle.Path)
}
