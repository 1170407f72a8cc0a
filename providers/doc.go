// Package providers contains Provider implementations for common
// construction strategies beyond the container's default provider.
//
// Providers are registered for a type with Container.SetProvider and serve
// that type and every type embedding it:
//
//	c.SetProvider(reflect.TypeOf(Store{}), providers.Preset(c.DefaultProvider(),
//		factory.Named("dsn", "memory://")))
package providers
