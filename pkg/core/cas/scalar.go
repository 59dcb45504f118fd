package cas

import (
	"fmt"
	"strings"

	"github.com/itohio/numsimcas/pkg/core/numeric"
)

// ScalarExpr is the scalar algebra's sum type: one struct tagged by
// ScalarKind, dispatched with a single switch rather than a type
// hierarchy. A nil *ScalarExpr is the invalid handle.
type ScalarExpr struct {
	kind     ScalarKind
	hash     uint64
	children []*ScalarExpr
	value    numeric.Number // SKConstant
	name     string         // SKSymbol, SKAssumption, SKFunction
	domain   Domain         // SKAssumption
}

var (
	scalarZeroNode = &ScalarExpr{kind: SKZero, hash: newHash().mix(uint64(SKZero)).sum()}
	scalarOneNode  = &ScalarExpr{kind: SKOne, hash: newHash().mix(uint64(SKOne)).sum()}
)

// ScalarZero returns the canonical scalar zero singleton.
func ScalarZero() *ScalarExpr { return scalarZeroNode }

// ScalarOne returns the canonical scalar one singleton.
func ScalarOne() *ScalarExpr { return scalarOneNode }

func (e *ScalarExpr) Algebra() Algebra { return AlgebraScalar }

// Kind reports the node's scalar kind. Safe to call on a nil handle
// (returns SKZero, matching the "invalid == zero" shortcut).
func (e *ScalarExpr) Kind() ScalarKind {
	if e == nil {
		return SKZero
	}
	return e.kind
}

// Children returns the node's operands in child order. Atoms return nil.
func (e *ScalarExpr) Children() []*ScalarExpr {
	if e == nil {
		return nil
	}
	return e.children
}

// Hash returns the cached structural hash.
func (e *ScalarExpr) Hash() uint64 {
	if e == nil {
		return scalarZeroNode.hash
	}
	return e.hash
}

// ID renders Hash as a short base58 string, handy for debug traces and
// as a LaTeX anchor name.
func (e *ScalarExpr) ID() string { return encodeID(e.Hash()) }

// Name returns the symbol/assumption/function name, or "" if not applicable.
func (e *ScalarExpr) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// Domain returns the assumption domain carried by SKAssumption nodes;
// every other kind reports DomainNone.
func (e *ScalarExpr) Domain() Domain {
	if e == nil {
		return DomainNone
	}
	return e.domain
}

// Value returns the wrapped numeric value for a constant node.
func (e *ScalarExpr) Value() (numeric.Number, bool) {
	if e == nil || e.kind != SKConstant {
		return numeric.Number{}, false
	}
	return e.value, true
}

// IsValid reports whether the handle denotes an actual expression
// rather than the default "no expression" zero value.
func (e *ScalarExpr) IsValid() bool { return e != nil }

// IsZero reports whether e is (structurally) the scalar zero, treating
// an invalid handle as zero per the negation-shortcut convention.
func (e *ScalarExpr) IsZero() bool { return e == nil || e.kind == SKZero }

// IsOne reports whether e is the scalar one.
func (e *ScalarExpr) IsOne() bool { return e != nil && e.kind == SKOne }

// Equal reports structural (value) equality.
func (e *ScalarExpr) Equal(o *ScalarExpr) bool {
	if e == o {
		return true
	}
	if e.IsZero() && o.IsZero() {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash || e.kind != o.kind || e.name != o.name || e.domain != o.domain {
		return false
	}
	if e.kind == SKConstant && !e.value.Equal(o.value) {
		return false
	}
	if len(e.children) != len(o.children) {
		return false
	}
	for i := range e.children {
		if !e.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// Less implements the strict weak structural order used to
// canonicalize commutative operands: (kind, arity, children
// lexicographically, then name/value). Equal atoms compare as
// incomparable (both Less calls return false) — notably
// ScalarOne().Less(ScalarOne()) is false, not true.
func (e *ScalarExpr) Less(o *ScalarExpr) bool {
	ek, ok := e.Kind(), o.Kind()
	if ek != ok {
		return ek < ok
	}
	ec, oc := e.Children(), o.Children()
	if len(ec) != len(oc) {
		return len(ec) < len(oc)
	}
	for i := range ec {
		if ec[i].Less(oc[i]) {
			return true
		}
		if oc[i].Less(ec[i]) {
			return false
		}
	}
	if e.Name() != o.Name() {
		return e.Name() < o.Name()
	}
	if ek == SKConstant {
		ev, _ := e.Value()
		ov, _ := o.Value()
		return ev.Cmp(ov) < 0
	}
	if ek == SKAssumption {
		return e.Domain() < o.Domain()
	}
	return false
}

func (e *ScalarExpr) String() string {
	if e.IsZero() {
		return "0"
	}
	switch e.kind {
	case SKOne:
		return "1"
	case SKConstant:
		return e.value.String()
	case SKSymbol:
		return e.name
	case SKAssumption:
		return fmt.Sprintf("%s[%s]", e.name, e.domain)
	case SKNeg:
		return "-(" + e.children[0].String() + ")"
	case SKAbs:
		return "|" + e.children[0].String() + "|"
	case SKExp:
		return "exp(" + e.children[0].String() + ")"
	case SKLog:
		return "log(" + e.children[0].String() + ")"
	case SKSqrt:
		return "sqrt(" + e.children[0].String() + ")"
	case SKFunction:
		return e.name + "(" + e.children[0].String() + ")"
	case SKPower:
		return e.children[0].String() + "^" + e.children[1].String()
	case SKDiff:
		return "d(" + e.children[0].String() + ")/d(" + e.children[1].String() + ")"
	case SKAdd, SKMul:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		sep := " + "
		if e.kind == SKMul {
			sep = " * "
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "?"
	}
}

func newScalarAtom(kind ScalarKind, seed func(hashCombiner) hashCombiner) *ScalarExpr {
	return &ScalarExpr{kind: kind, hash: seed(newHash().mix(uint64(kind))).sum()}
}

func newScalarNode(kind ScalarKind, children []*ScalarExpr, extra func(hashCombiner) hashCombiner) *ScalarExpr {
	h := newHash().mix(uint64(kind))
	for _, c := range children {
		h = h.mix(c.Hash())
	}
	if extra != nil {
		h = extra(h)
	}
	return &ScalarExpr{kind: kind, hash: h.sum(), children: children}
}
