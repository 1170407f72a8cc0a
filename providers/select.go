package providers

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	factory "github.com/hashicorp/go-factory"
)

// SelectProvider builds one of several registered implementation types,
// chosen by name through a configuration setting. The chosen type is
// requested from the container, so it is built by whatever provider serves
// it, with the caller's arguments passed on.
//
//	sel := providers.Select(c, "store.driver", cfg).
//		Register("memory", reflect.TypeOf(&MemoryStore{})).
//		Register("disk", reflect.TypeOf(&DiskStore{})).
//		Fallback("memory")
//	c.SetProvider(reflect.TypeOf((*Store)(nil)).Elem(), sel)
type SelectProvider struct {
	c   *factory.Container
	key string

	mu       sync.RWMutex
	config   Config
	impls    map[string]reflect.Type
	fallback string
}

// Select returns a SelectProvider that reads the implementation name from
// the setting key of cfg.
func Select(c *factory.Container, key string, cfg Config) *SelectProvider {
	return &SelectProvider{
		c:      c,
		key:    key,
		config: cfg,
		impls:  make(map[string]reflect.Type),
	}
}

// Register makes t selectable under name. Names are case-insensitive.
func (s *SelectProvider) Register(name string, t reflect.Type) *SelectProvider {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.impls[strings.ToLower(name)] = t
	return s
}

// Fallback sets the implementation used when the setting is absent.
func (s *SelectProvider) Fallback(name string) *SelectProvider {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = strings.ToLower(name)
	return s
}

// Reload replaces the configuration. Instances built earlier are not
// affected.
func (s *SelectProvider) Reload(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
}

// Selected returns the implementation type the current configuration
// selects.
func (s *SelectProvider) Selected() (reflect.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.config.Lookup(s.key)
	if !ok || strings.TrimSpace(name) == "" {
		if s.fallback == "" {
			return nil, fmt.Errorf("setting %q is not set and no fallback is configured", s.key)
		}

		name = s.fallback
	}

	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := s.impls[name]
	if !ok {
		return nil, fmt.Errorf("setting %q selects unknown implementation %q, known: [%s]",
			s.key, name, strings.Join(s.names(), ", "))
	}

	return t, nil
}

func (s *SelectProvider) names() []string {
	result := make([]string, 0, len(s.impls))
	for n := range s.impls {
		result = append(result, n)
	}
	sort.Strings(result)

	return result
}

// Provide implements factory.Provider.
func (s *SelectProvider) Provide(ctx context.Context, t reflect.Type, args factory.Args) (interface{}, error) {
	impl, err := s.Selected()
	if err != nil {
		return nil, err
	}

	if factory.KeyOf(impl) == factory.KeyOf(t) {
		return nil, fmt.Errorf("implementation %s selected for itself", impl)
	}

	s.c.Logger().Trace("selected implementation", "type", factory.KeyOf(t), "impl", factory.KeyOf(impl))
	return s.c.GetInstanceContext(ctx, impl, args.Options()...)
}

var _ factory.Provider = (*SelectProvider)(nil)
