package providers

import (
	"context"
	"reflect"

	factory "github.com/hashicorp/go-factory"
)

// Func returns a Provider that builds instances with f. The requested type
// is not passed to f: requests for types embedding the one it is
// registered for fail with factory.ErrInvalidInstance unless T fits them.
func Func[T any](f func(ctx context.Context, args factory.Args) (T, error)) factory.Provider {
	return factory.ProviderFunc(func(ctx context.Context, _ reflect.Type, args factory.Args) (interface{}, error) {
		return f(ctx, args)
	})
}

// Value returns a Provider that always returns v. Unlike a singleton, v is
// returned through the provider lookup and checked against each requested
// type.
func Value(v interface{}) factory.Provider {
	return factory.ProviderFunc(func(context.Context, reflect.Type, factory.Args) (interface{}, error) {
		return v, nil
	})
}
