package factory

import (
	"context"
	"fmt"
)

type chainKey struct{}

// Chain returns the keys of the types under construction on the
// resolution chain carried by ctx, outermost first.
func Chain(ctx context.Context) []TypeKey {
	if ctx == nil {
		return nil
	}

	chain, _ := ctx.Value(chainKey{}).([]TypeKey)
	return chain
}

// withChain returns a context whose chain is chain followed by key. The
// given slice is never modified.
func withChain(ctx context.Context, chain []TypeKey, key TypeKey) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	next := make([]TypeKey, len(chain)+1)
	copy(next, chain)
	next[len(chain)] = key
	return context.WithValue(ctx, chainKey{}, next)
}

// enter records one more construction of key in progress and returns the
// func that undoes it. It fails once maxDepth constructions of key are
// already in progress.
func (c *Container) enter(key TypeKey) (func(), error) {
	c.depthMu.Lock()
	defer c.depthMu.Unlock()

	if c.inflight[key] >= c.maxDepth {
		return nil, fmt.Errorf("%d constructions of %s in progress: %w",
			c.inflight[key], key, ErrDepthExceeded)
	}

	c.inflight[key]++
	return func() {
		c.depthMu.Lock()
		defer c.depthMu.Unlock()

		if c.inflight[key]--; c.inflight[key] == 0 {
			delete(c.inflight, key)
		}
	}, nil
}
