package factory

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
)

// Option configures a Container in New.
type Option func(*Container) error

// WithLogger sets the logger. Resolution is logged at Trace level,
// registration at Debug level.
func WithLogger(l hclog.Logger) Option {
	return func(c *Container) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}

		c.logger = l
		return nil
	}
}

// WithFilter sets the filter the default provider uses to select
// injectable properties. The default is Marked(InjectionMarker).
func WithFilter(f FilterFunc) Option {
	return func(c *Container) error {
		if f == nil {
			return fmt.Errorf("filter cannot be nil, use WithoutPropertyInjection")
		}

		c.filter = f
		return nil
	}
}

// WithoutPropertyInjection makes the default provider inject constructors
// only.
func WithoutPropertyInjection() Option {
	return func(c *Container) error {
		c.filter = nil
		return nil
	}
}

// DefaultMaxDepth is the default for WithMaxDepth.
const DefaultMaxDepth = 1024

// WithMaxDepth sets how many constructions of a single type may be in
// progress at once before GetInstance fails with ErrDepthExceeded.
func WithMaxDepth(n int) Option {
	return func(c *Container) error {
		if n < 1 {
			return fmt.Errorf("max depth must be positive, got %d", n)
		}

		c.maxDepth = n
		return nil
	}
}

// WithTypes makes types known to the Resolver up front, so property
// declarations can name them before they were ever resolved.
func WithTypes(ts ...reflect.Type) Option {
	return func(c *Container) error {
		c.resolver.Known(ts...)
		return nil
	}
}

// WithProvider registers a provider at construction. A nil t replaces the
// default provider.
func WithProvider(t reflect.Type, p Provider) Option {
	return func(c *Container) error {
		if p == nil {
			return fmt.Errorf("provider for %s cannot be nil", KeyOf(t))
		}

		c.SetProvider(t, p)
		return nil
	}
}
