package cas

import (
	"sync"

	"github.com/itohio/numsimcas/pkg/core/numeric"
	"github.com/itohio/numsimcas/pkg/core/options"
)

// DerivativeRule computes the outer derivative f'(arg) of
// function(name, arg) given arg alone; the chain rule multiplication
// by d(arg)/d(v) is applied by the caller.
type DerivativeRule func(arg *ScalarExpr) (*ScalarExpr, error)

// functionRegistry is a mutex-guarded name->rule map, mirroring the
// concurrent-singleton discipline used for the canonical tensor zero
// cache: registration can race with lookups during package init of
// client code, so both paths take the same lock.
type functionRegistry struct {
	mu    sync.Mutex
	rules map[string]DerivativeRule
}

var knownFunctions = newFunctionRegistry()

func newFunctionRegistry() *functionRegistry {
	r := &functionRegistry{rules: map[string]DerivativeRule{}}
	r.register("sin", func(x *ScalarExpr) (*ScalarExpr, error) {
		return ScalarFunction("cos", x), nil
	})
	r.register("cos", func(x *ScalarExpr) (*ScalarExpr, error) {
		return ScalarNeg(ScalarFunction("sin", x)), nil
	})
	r.register("tan", func(x *ScalarExpr) (*ScalarExpr, error) {
		sec := ScalarFunction("cos", x)
		return ScalarPower(sec, ScalarConstant(numeric.Int(-2)))
	})
	r.register("sinh", func(x *ScalarExpr) (*ScalarExpr, error) {
		return ScalarFunction("cosh", x), nil
	})
	r.register("cosh", func(x *ScalarExpr) (*ScalarExpr, error) {
		return ScalarFunction("sinh", x), nil
	})
	return r
}

func (r *functionRegistry) register(name string, rule DerivativeRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
}

func (r *functionRegistry) lookup(name string) (DerivativeRule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// RegisterFunction installs (or replaces) the derivative rule for a
// named scalar function consumed by ScalarFunction/diff. Safe to call
// concurrently with differentiation.
func RegisterFunction(name string, rule DerivativeRule) {
	knownFunctions.register(name, rule)
}

// RegistryOptions accumulates a batch of derivative rules, applied
// with the pkg/core/options functional-options pattern (the same
// Option/Apply the render/latex font table uses) rather than one
// RegisterFunction call per name.
type RegistryOptions struct {
	rules map[string]DerivativeRule
}

// WithFunctionRule stages name's derivative rule for RegisterFunctions.
func WithFunctionRule(name string, rule DerivativeRule) options.Option {
	return func(o interface{}) {
		opt, ok := o.(*RegistryOptions)
		if !ok {
			return
		}
		if opt.rules == nil {
			opt.rules = map[string]DerivativeRule{}
		}
		opt.rules[name] = rule
	}
}

// RegisterFunctions applies a batch of WithFunctionRule options to the
// package-wide function registry in one call.
func RegisterFunctions(opts ...options.Option) {
	var ro RegistryOptions
	options.Apply(&ro, opts...)
	for name, rule := range ro.rules {
		RegisterFunction(name, rule)
	}
}
