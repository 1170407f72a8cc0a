package factory

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type loopA struct {
	*loopB
}

type loopB struct {
	*loopA
}

type withMarker struct {
	In
	Base
}

func TestAncestors(t *testing.T) {
	cases := []struct {
		Name     string
		Type     reflect.Type
		Expected []reflect.Type
	}{
		{
			"nil",
			nil,
			nil,
		},

		{
			"no embedding",
			reflect.TypeOf(Base{}),
			[]reflect.Type{reflect.TypeOf(Base{})},
		},

		{
			"value embedding",
			reflect.TypeOf(&Derived{}),
			[]reflect.Type{reflect.TypeOf(&Derived{}), reflect.TypeOf(Base{})},
		},

		{
			"pointer embedding",
			reflect.TypeOf(Other{}),
			[]reflect.Type{
				reflect.TypeOf(Other{}),
				reflect.TypeOf(Derived{}),
				reflect.TypeOf(Base{}),
			},
		},

		{
			"marker is skipped",
			reflect.TypeOf(withMarker{}),
			[]reflect.Type{reflect.TypeOf(withMarker{}), reflect.TypeOf(Base{})},
		},

		{
			"interfaces are not ancestors",
			reflect.TypeOf(&Car{}),
			[]reflect.Type{reflect.TypeOf(&Car{})},
		},

		{
			"embedding loop",
			reflect.TypeOf(loopA{}),
			[]reflect.Type{reflect.TypeOf(loopA{}), reflect.TypeOf(loopB{})},
		},

		{
			"non struct",
			reflect.TypeOf(42),
			[]reflect.Type{reflect.TypeOf(42)},
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.Expected, Ancestors(tt.Type))
		})
	}
}
