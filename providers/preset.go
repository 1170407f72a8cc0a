package providers

import (
	"context"
	"reflect"

	factory "github.com/hashicorp/go-factory"
)

// PresetProvider delegates to another provider with a set of arguments
// preset. Arguments supplied by the caller win over preset ones with the
// same name or index.
type PresetProvider struct {
	next   factory.Provider
	preset []factory.Arg
}

// Preset returns a PresetProvider delegating to next.
func Preset(next factory.Provider, args ...factory.Arg) *PresetProvider {
	return &PresetProvider{next: next, preset: args}
}

// Provide implements factory.Provider.
func (p *PresetProvider) Provide(ctx context.Context, t reflect.Type, args factory.Args) (interface{}, error) {
	merged, err := args.Under(p.preset...)
	if err != nil {
		return nil, err
	}

	return p.next.Provide(ctx, t, merged)
}

var _ factory.Provider = (*PresetProvider)(nil)
