package factory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Container holds singletons and providers and hands out instances.
//
// A Container registers itself as a singleton on creation, so components
// can depend on *Container like any other type. All methods are safe for
// concurrent use; registration takes a write lock, lookups a read lock.
type Container struct {
	mu         sync.RWMutex
	singletons map[TypeKey]interface{}
	providers  map[TypeKey]Provider

	depthMu  sync.Mutex
	inflight map[TypeKey]int
	maxDepth int

	logger   hclog.Logger
	filter   FilterFunc
	injector *Injector
	resolver *Resolver
}

// New creates a Container with the default provider installed.
func New(opts ...Option) (*Container, error) {
	c := &Container{
		singletons: make(map[TypeKey]interface{}),
		providers:  make(map[TypeKey]Provider),
		inflight:   make(map[TypeKey]int),
		maxDepth:   DefaultMaxDepth,
		logger:     hclog.L().Named("factory"),
		filter:     Marked(InjectionMarker),
		resolver:   NewResolver(),
	}
	c.injector = newInjector(c)

	var buildErr error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			buildErr = multierror.Append(buildErr, err)
		}
	}
	if buildErr != nil {
		return nil, buildErr
	}

	c.SetSingleton(reflect.TypeOf(c), c)
	if _, ok := c.providers[WildcardKey]; !ok {
		c.SetProvider(nil, NewDefaultProvider(c.injector, c.filter))
	}

	return c, nil
}

// GetInstance returns an instance of t. See GetInstanceContext.
func (c *Container) GetInstance(t reflect.Type, args ...Arg) (interface{}, error) {
	return c.GetInstanceContext(context.Background(), t, args...)
}

// GetInstanceContext returns an instance of t.
//
// If a singleton was registered for t, it is returned and args are
// ignored. Otherwise the provider registered for t or its nearest ancestor
// builds the instance, falling back to the default provider.
//
// ctx carries the chain of types currently under construction. Requesting
// a type that is already on the chain fails with *CyclicDependencyError.
// Providers that drop the context lose the chain; for them, more than
// WithMaxDepth constructions of one type in progress at once fail with
// ErrDepthExceeded.
//
// A provider result must be non-nil and of type t, or a pointer to t.
// Construction failures are returned as *ConstructionError.
func (c *Container) GetInstanceContext(ctx context.Context, t reflect.Type, args ...Arg) (interface{}, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot resolve nil type")
	}

	key := KeyOf(t)
	log := c.logger.With("type", key)
	c.resolver.Known(t)

	c.mu.RLock()
	instance, ok := c.singletons[key]
	c.mu.RUnlock()
	if ok {
		log.Trace("returning singleton")
		return instance, nil
	}

	chain := Chain(ctx)
	for _, k := range chain {
		if k == key {
			path := append(append([]TypeKey{}, chain...), key)
			log.Debug("cyclic dependency", "path", path)
			return nil, &CyclicDependencyError{Path: path}
		}
	}

	a, err := NewArgs(args...)
	if err != nil {
		return nil, err
	}

	leave, err := c.enter(key)
	if err != nil {
		log.Debug("construction depth exceeded", "max", c.maxDepth)
		return nil, &ConstructionError{Type: t, Key: key, Cause: err}
	}
	defer leave()

	p, matched := c.findMatchingProvider(t)
	log.Trace("provider matched", "key", matched, "args", a.Keys())

	instance, err = p.Provide(withChain(ctx, chain, key), t, a)
	if err != nil {
		var ce *ConstructionError
		if errors.As(err, &ce) && ce.Key == key {
			return nil, err
		}

		return nil, &ConstructionError{Type: t, Key: key, Cause: err}
	}

	if instance == nil || isNil(reflect.ValueOf(instance)) {
		return nil, &ConstructionError{
			Type:  t,
			Key:   key,
			Cause: fmt.Errorf("provider for %s returned %w", matched, ErrNilInstance),
		}
	}

	if !fits(instance, t) {
		return nil, &ConstructionError{
			Type: t,
			Key:  key,
			Cause: fmt.Errorf("provider for %s returned %w of type %T",
				matched, ErrInvalidInstance, instance),
		}
	}

	return instance, nil
}

// fits reports whether instance can be handed out for t: as is, or as a
// pointer to a concrete t since *T and T share a key.
func fits(instance interface{}, t reflect.Type) bool {
	it := reflect.TypeOf(instance)
	if it.AssignableTo(t) {
		return true
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Ptr:
		return false
	}

	return it.Kind() == reflect.Ptr && it.Elem().AssignableTo(t)
}

// GetSingleton returns the singleton registered for t. Unlike GetInstance
// it never constructs anything; it fails with *NotFoundError if no
// singleton was registered.
func (c *Container) GetSingleton(t reflect.Type) (interface{}, error) {
	key := KeyOf(t)

	c.mu.RLock()
	defer c.mu.RUnlock()

	instance, ok := c.singletons[key]
	if !ok {
		return nil, &NotFoundError{Type: t, Key: key}
	}

	return instance, nil
}

// HasSingleton reports whether a singleton is registered for t.
func (c *Container) HasSingleton(t reflect.Type) bool {
	_, err := c.GetSingleton(t)
	return err == nil
}

// SetSingleton registers instance as the singleton for t, replacing any
// previous one, and returns instance. Singletons are always keyed by a
// concrete type; a nil t panics.
func (c *Container) SetSingleton(t reflect.Type, instance interface{}) interface{} {
	if t == nil {
		panic("factory: singleton type cannot be nil")
	}

	c.resolver.Known(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.singletons[KeyOf(t)] = instance
	return instance
}

// SetProvider registers p for t, replacing any previous provider for the
// same key. A nil t registers p as the default provider.
func (c *Container) SetProvider(t reflect.Type, p Provider) {
	if p == nil {
		panic("factory: provider cannot be nil")
	}

	if t != nil {
		c.resolver.Known(t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.providers[KeyOf(t)] = p
}

// findMatchingProvider walks t and its ancestors from the most specific to
// the least specific and returns the first registered provider, or the
// default provider. Interfaces implemented by t are not consulted.
func (c *Container) findMatchingProvider(t reflect.Type) (Provider, TypeKey) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, a := range Ancestors(t) {
		k := KeyOf(a)
		if p, ok := c.providers[k]; ok {
			return p, k
		}
	}

	p, ok := c.providers[WildcardKey]
	if !ok {
		panic("factory: no default provider registered")
	}

	return p, WildcardKey
}

// DefaultProvider returns the provider registered under the wildcard key.
// Custom providers can wrap it to build instances the usual way.
func (c *Container) DefaultProvider() Provider {
	p, _ := c.findMatchingProvider(nil)
	return p
}

// hasCustomProvider reports whether a provider other than the default
// would serve t.
func (c *Container) hasCustomProvider(t reflect.Type) bool {
	_, k := c.findMatchingProvider(t)
	return k != WildcardKey
}

// Define registers a constructor used by the default provider to build
// instances of its type. ctor is either a *Constructor or a function
// accepted by NewConstructor, in which case opts configure it. A later
// definition for the same type replaces the earlier one.
func (c *Container) Define(ctor interface{}, opts ...ConstructorOption) error {
	constructor, ok := ctor.(*Constructor)
	if !ok {
		var err error
		constructor, err = NewConstructor(ctor, opts...)
		if err != nil {
			return err
		}
	} else if len(opts) > 0 {
		return fmt.Errorf("options cannot be applied to an existing *Constructor")
	}

	c.resolver.Known(constructor.Type())
	for _, p := range constructor.Params() {
		c.resolver.Known(p.Type)
	}

	c.injector.define(constructor)
	c.logger.Debug("defined constructor",
		"type", constructor.Key(), "constructor", constructor.Name())
	return nil
}

// DeclareProperties registers type-level property declarations for t. See
// Injector.Declare.
func (c *Container) DeclareProperties(t reflect.Type, decls ...string) error {
	if t != nil {
		c.resolver.Known(t)
	}

	return c.injector.Declare(t, decls...)
}

// Injector returns the Injector used by the default provider.
func (c *Container) Injector() *Injector { return c.injector }

// Resolver returns the Resolver used for property type names.
func (c *Container) Resolver() *Resolver { return c.resolver }

// Logger returns the container's logger.
func (c *Container) Logger() hclog.Logger { return c.logger }
