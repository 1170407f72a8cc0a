package factory

import (
	"context"
	"reflect"
)

// Provider is a construction strategy. Given the requested type and the
// caller's arguments it produces an instance.
//
// Providers that resolve further dependencies must pass ctx on to
// Container.GetInstanceContext so that cyclic dependencies are detected
// across provider boundaries.
type Provider interface {
	Provide(ctx context.Context, t reflect.Type, args Args) (interface{}, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, t reflect.Type, args Args) (interface{}, error)

// Provide calls f.
func (f ProviderFunc) Provide(ctx context.Context, t reflect.Type, args Args) (interface{}, error) {
	return f(ctx, t, args)
}

// DefaultProvider is the provider every Container starts with under the
// wildcard key. It builds instances with Injector.InjectConstructor and
// then, if a filter is set, injects tagged struct fields and type-level
// property declarations accepted by the filter. Struct values are injected
// through a copy and returned by value.
type DefaultProvider struct {
	injector *Injector
	filter   FilterFunc
}

// NewDefaultProvider returns a DefaultProvider using injector. A nil filter
// disables property injection.
func NewDefaultProvider(injector *Injector, filter FilterFunc) *DefaultProvider {
	return &DefaultProvider{injector: injector, filter: filter}
}

// Provide implements Provider.
func (p *DefaultProvider) Provide(ctx context.Context, t reflect.Type, args Args) (interface{}, error) {
	instance, err := p.injector.InjectConstructor(ctx, t, args)
	if err != nil {
		return nil, err
	}

	if p.filter == nil {
		return instance, nil
	}

	target := instance
	byValue := false
	if v := reflect.ValueOf(instance); v.Kind() == reflect.Struct {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		target, byValue = ptr.Interface(), true
	} else if _, err := structPtr(instance); err != nil {
		// Nothing to inject into.
		return instance, nil
	}

	if err := p.injector.InjectProperties(ctx, target, p.filter); err != nil {
		return nil, p.injector.constructionError(t, err)
	}

	if err := p.injector.InjectPropertyAnnotations(ctx, target, p.filter); err != nil {
		return nil, p.injector.constructionError(t, err)
	}

	if byValue {
		return reflect.ValueOf(target).Elem().Interface(), nil
	}
	return target, nil
}

var (
	_ Provider = ProviderFunc(nil)
	_ Provider = (*DefaultProvider)(nil)
)
