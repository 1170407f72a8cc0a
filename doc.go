// Package factory is a reflection-driven dependency-injection container.
//
// A Container produces fully-constructed instances of a requested type. It
// resolves constructor parameters and struct fields recursively, returns
// explicitly registered singletons, and lets custom construction strategies
// (providers) be registered per type or as the global default.
//
// Resolution order for GetInstance is:
//
//   - a registered singleton for the type, ignoring any arguments
//   - the provider registered for the type or its nearest ancestor
//   - the default provider
//
// The default provider calls the constructor registered with Define (or
// builds a zero value when there is none), filling each parameter from a
// named argument, a positional argument, a default value, or a recursive
// GetInstance of the parameter type, in that order. It then injects struct
// fields tagged with `inject:"<-"` and any type-level property declarations.
// A constructor returning a struct value gets its fields injected through
// a copy. Whatever a provider returns must be of the requested type, or a
// pointer to it, or GetInstance fails with ErrInvalidInstance.
//
// Cycles are detected on the chain of types under construction carried in
// the context. Providers that resolve through a fresh context are stopped
// by WithMaxDepth instead.
//
// Go has no class inheritance. The ancestor of a struct type is its first
// embedded struct field, so a provider registered for Base also serves
// struct types that embed Base. Implemented interfaces are not consulted.
package factory
