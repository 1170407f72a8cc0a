package providers

import (
	"context"
	"reflect"
	"sync"

	factory "github.com/hashicorp/go-factory"
)

// Resetter is implemented by instances that need to be cleared before they
// are handed out again by a Pool.
type Resetter interface {
	Reset()
}

// PoolProvider reuses released instances before delegating to another
// provider. Instances are kept per type key, at most Size per key.
//
// Requests with arguments always go to the delegate, since a released
// instance was built with unknown arguments.
type PoolProvider struct {
	next factory.Provider
	size int

	mu   sync.Mutex
	free map[factory.TypeKey][]interface{}
}

// Pool returns a PoolProvider delegating to next that keeps at most size
// released instances per type. A size below one keeps one.
func Pool(next factory.Provider, size int) *PoolProvider {
	if size < 1 {
		size = 1
	}

	return &PoolProvider{
		next: next,
		size: size,
		free: make(map[factory.TypeKey][]interface{}),
	}
}

// Provide implements factory.Provider.
func (p *PoolProvider) Provide(ctx context.Context, t reflect.Type, args factory.Args) (interface{}, error) {
	if args.Len() == 0 {
		if v, ok := p.take(factory.KeyOf(t)); ok {
			return v, nil
		}
	}

	return p.next.Provide(ctx, t, args)
}

func (p *PoolProvider) take(k factory.TypeKey) (interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	free := p.free[k]
	if len(free) == 0 {
		return nil, false
	}

	v := free[len(free)-1]
	free[len(free)-1] = nil
	p.free[k] = free[:len(free)-1]
	return v, true
}

// Release returns v to the pool. It reports false if v was dropped because
// the pool for its type is full. v is reset first if it implements
// Resetter.
func (p *PoolProvider) Release(v interface{}) bool {
	if v == nil {
		return false
	}

	k := factory.KeyOf(reflect.TypeOf(v))

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free[k]) >= p.size {
		return false
	}

	if r, ok := v.(Resetter); ok {
		r.Reset()
	}

	p.free[k] = append(p.free[k], v)
	return true
}

// Len returns the number of released instances held for t.
func (p *PoolProvider) Len(t reflect.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[factory.KeyOf(t)])
}

var _ factory.Provider = (*PoolProvider)(nil)
