package cas

import "strings"

// TTOSExpr is the tensor-to-scalar algebra's sum type: scalar-valued
// expressions built from tensor inputs via the Trace bridge.
type TTOSExpr struct {
	kind     TTOSKind
	hash     uint64
	children []*TTOSExpr
	name     string      // TTKSymbol
	tensor   *TensorExpr // TTKTrace only: the tensor being traced
}

var (
	ttosZeroNode = &TTOSExpr{kind: TTKZero, hash: newHash().mix(uint64(TTKZero)).sum()}
	ttosOneNode  = &TTOSExpr{kind: TTKOne, hash: newHash().mix(uint64(TTKOne)).sum()}
)

// TTOSZero returns the canonical tensor-to-scalar zero singleton.
func TTOSZero() *TTOSExpr { return ttosZeroNode }

// TTOSOne returns the canonical tensor-to-scalar one singleton.
func TTOSOne() *TTOSExpr { return ttosOneNode }

func (e *TTOSExpr) Algebra() Algebra { return AlgebraTensorToScalar }

func (e *TTOSExpr) Kind() TTOSKind {
	if e == nil {
		return TTKZero
	}
	return e.kind
}

func (e *TTOSExpr) Children() []*TTOSExpr {
	if e == nil {
		return nil
	}
	return e.children
}

func (e *TTOSExpr) Hash() uint64 {
	if e == nil {
		return ttosZeroNode.hash
	}
	return e.hash
}

func (e *TTOSExpr) ID() string { return encodeID(e.Hash()) }

func (e *TTOSExpr) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// TensorArg returns the traced tensor for a TTKTrace node.
func (e *TTOSExpr) TensorArg() *TensorExpr {
	if e == nil || e.kind != TTKTrace {
		return nil
	}
	return e.tensor
}

func (e *TTOSExpr) IsValid() bool { return e != nil }

func (e *TTOSExpr) IsZero() bool { return e == nil || e.kind == TTKZero }

func (e *TTOSExpr) IsOne() bool { return e != nil && e.kind == TTKOne }

func (e *TTOSExpr) Equal(o *TTOSExpr) bool {
	if e == o {
		return true
	}
	if e.IsZero() && o.IsZero() {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash || e.kind != o.kind || e.name != o.name {
		return false
	}
	if e.kind == TTKTrace && !e.tensor.Equal(o.tensor) {
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

func (e *TTOSExpr) Less(o *TTOSExpr) bool {
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
	if ek == TTKTrace {
		return e.TensorArg().Less(o.TensorArg())
	}
	return false
}

func (e *TTOSExpr) String() string {
	if e.IsZero() {
		return "0"
	}
	switch e.kind {
	case TTKOne:
		return "1"
	case TTKSymbol:
		return e.name
	case TTKNeg:
		return "-(" + e.children[0].String() + ")"
	case TTKExp:
		return "exp(" + e.children[0].String() + ")"
	case TTKLog:
		return "log(" + e.children[0].String() + ")"
	case TTKTrace:
		return "tr(" + e.tensor.String() + ")"
	case TTKPower:
		return e.children[0].String() + "^" + e.children[1].String()
	case TTKAdd, TTKMul:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		sep := " + "
		if e.kind == TTKMul {
			sep = " * "
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "?"
	}
}

func newTTOSNode(kind TTOSKind, children []*TTOSExpr, extra func(hashCombiner) hashCombiner) *TTOSExpr {
	h := newHash().mix(uint64(kind))
	for _, c := range children {
		h = h.mix(c.Hash())
	}
	if extra != nil {
		h = extra(h)
	}
	return &TTOSExpr{kind: kind, hash: h.sum(), children: children}
}

