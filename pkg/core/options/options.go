// Package options provides the functional-options helper shared by the
// render configuration and the differentiation function registry.
package options

// Option mutates a configuration value in place. Callers type-assert
// the interface{} back to their own config struct pointer.
type Option func(cfg interface{})

// Apply runs every option against cfgPtr in order.
func Apply(cfgPtr interface{}, opts ...Option) {
	for _, opt := range opts {
		opt(cfgPtr)
	}
}
