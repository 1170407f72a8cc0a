package factory

import (
	"context"
	"fmt"
	"reflect"
)

// Get returns an instance of T from c. It is GetInstance with the result
// converted to T.
func Get[T any](c *Container, args ...Arg) (T, error) {
	return GetContext[T](context.Background(), c, args...)
}

// GetContext is Get with a context. Providers use it to keep the
// resolution chain intact.
func GetContext[T any](ctx context.Context, c *Container, args ...Arg) (T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := c.GetInstanceContext(ctx, t, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	return convert[T](t, instance)
}

// MustGet is Get that panics on error. It is meant for composition roots
// and tests.
func MustGet[T any](c *Container, args ...Arg) T {
	v, err := Get[T](c, args...)
	if err != nil {
		panic(err)
	}

	return v
}

// Singleton returns the singleton registered for T. See
// Container.GetSingleton.
func Singleton[T any](c *Container) (T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	instance, err := c.GetSingleton(t)
	if err != nil {
		var zero T
		return zero, err
	}

	return convert[T](t, instance)
}

// convert converts instance to T. Since *T and T share a key, a pointer
// instance is dereferenced when T is its element type.
func convert[T any](t reflect.Type, instance interface{}) (T, error) {
	if v, ok := instance.(T); ok {
		return v, nil
	}

	var zero T
	rv, err := argValue(instance, t)
	if err != nil {
		return zero, fmt.Errorf("instance for %s: %w", KeyOf(t), err)
	}

	return rv.Interface().(T), nil
}
