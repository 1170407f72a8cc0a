package factory

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewArgs(t *testing.T) {
	cases := []struct {
		Name string
		Args []Arg
		Keys []string
		Err  string
	}{
		{
			"empty",
			nil,
			[]string{},
			"",
		},

		{
			"named and positional",
			[]Arg{Positional(1, "b"), Named("z", 1), Named("a", 2), Positional(0, "a")},
			[]string{"a", "z", "0", "1"},
			"",
		},

		{
			"from map",
			[]Arg{FromMap(map[string]interface{}{"x": 1, "y": 2})},
			[]string{"x", "y"},
			"",
		},

		{
			"nil option is skipped",
			[]Arg{nil, Named("a", 1)},
			[]string{"a"},
			"",
		},

		{
			"errors are aggregated",
			[]Arg{Named("", 1), Positional(-1, 2)},
			nil,
			"2 errors occurred",
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			args, err := NewArgs(tt.Args...)
			if tt.Err != "" {
				require.Error(err)
				require.Contains(err.Error(), tt.Err)
				return
			}

			require.NoError(err)
			require.Equal(tt.Keys, args.Keys())
			require.Equal(len(tt.Keys), args.Len())
		})
	}
}

func TestArgs_lookup(t *testing.T) {
	require := require.New(t)

	args, err := NewArgs(Named("name", "value"), Positional(2, 42))
	require.NoError(err)

	v, ok := args.Lookup("name")
	require.True(ok)
	require.Equal("value", v)

	_, ok = args.Lookup("Name")
	require.False(ok)

	v, ok = args.At(2)
	require.True(ok)
	require.Equal(42, v)

	_, ok = args.At(0)
	require.False(ok)

	// The zero Args is usable.
	var empty Args
	_, ok = empty.Lookup("name")
	require.False(ok)
	require.Equal(0, empty.Len())
}

func TestArgs_precedence(t *testing.T) {
	require := require.New(t)

	args, err := NewArgs(Named("a", 1), Positional(0, "x"))
	require.NoError(err)

	with, err := args.With(Named("a", 2), Named("b", 3))
	require.NoError(err)
	v, _ := with.Lookup("a")
	require.Equal(2, v)
	v, _ = with.At(0)
	require.Equal("x", v)

	under, err := args.Under(Named("a", 2), Named("b", 3), Positional(0, "y"))
	require.NoError(err)
	v, _ = under.Lookup("a")
	require.Equal(1, v)
	v, _ = under.Lookup("b")
	require.Equal(3, v)
	v, _ = under.At(0)
	require.Equal("x", v)

	// The receiver is never modified.
	_, ok := args.Lookup("b")
	require.False(ok)

	forwarded, err := NewArgs(args.Options()...)
	require.NoError(err)
	require.Equal(args.Keys(), forwarded.Keys())
}

func TestFromStruct(t *testing.T) {
	type input struct {
		Host    string `inject:"hostname"`
		Port    int
		Skipped bool `inject:"-"`
		private string
	}

	cases := []struct {
		Name  string
		Value interface{}
		Opts  []FieldArg
		Keys  []string
		Err   bool
	}{
		{
			"named by tag or field",
			input{Host: "localhost", Port: 80, private: "x"},
			nil,
			[]string{"Port", "hostname"},
			false,
		},

		{
			"pointer",
			&input{},
			nil,
			[]string{"Port", "hostname"},
			false,
		},

		{
			"positional",
			input{},
			[]FieldArg{PositionalFields()},
			[]string{"0", "1", "2"},
			false,
		},

		{
			"not a struct",
			42,
			nil,
			nil,
			true,
		},

		{
			"nil pointer",
			(*input)(nil),
			nil,
			nil,
			true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			args, err := NewArgs(FromStruct(tt.Value, tt.Opts...))
			if tt.Err {
				require.Error(err)
				return
			}

			require.NoError(err)
			require.Equal(tt.Keys, args.Keys())
		})
	}
}

func TestArgValue(t *testing.T) {
	wheel := &Wheel{Size: 17}

	cases := []struct {
		Name     string
		Value    interface{}
		Type     reflect.Type
		Expected interface{}
		Err      bool
	}{
		{"assignable", 42, reflect.TypeOf(0), 42, false},
		{"to interface", &Car{}, reflect.TypeOf((*Vehicle)(nil)).Elem(), &Car{}, false},
		{"pointer to value", wheel, reflect.TypeOf(Wheel{}), Wheel{Size: 17}, false},
		{"nil pointer", nil, reflect.TypeOf(wheel), (*Wheel)(nil), false},
		{"nil scalar", nil, reflect.TypeOf(0), nil, true},
		{"mismatch", "42", reflect.TypeOf(0), nil, true},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			v, err := argValue(tt.Value, tt.Type)
			if tt.Err {
				require.Error(err)
				return
			}

			require.NoError(err)
			require.Equal(tt.Expected, v.Interface())
		})
	}
}
