package cas

import (
	"fmt"
	"strings"
	"sync"

	"gorgonia.org/tensor"

	"github.com/itohio/numsimcas/pkg/core/logger"
)

// TensorExpr is the tensor algebra's sum type. Every node carries a
// (dim, rank) pair; Add requires all operands to share one, Mul
// (contraction) computes its own from the factors' ranks.
type TensorExpr struct {
	kind     TensorKind
	hash     uint64
	dim      int
	rank     int
	children []*TensorExpr
	name     string      // TKSymbol
	scalar   *ScalarExpr // TKScalarMul only: the scalar factor; children[0] is the tensor factor
}

var (
	tensorZeroMu    sync.Mutex
	tensorZeroCache = map[[2]int]*TensorExpr{}
)

// TensorZero returns the process-wide singleton zero tensor for
// (dim, rank), lazily created behind a mutex (once-semantics per key,
// so repeated lookups for the same (dim, rank) share one instance.
func TensorZero(dim, rank int) *TensorExpr {
	key := [2]int{dim, rank}
	tensorZeroMu.Lock()
	defer tensorZeroMu.Unlock()
	if z, ok := tensorZeroCache[key]; ok {
		return z
	}
	h := newHash().mix(uint64(TKZero)).mix(uint64(dim)).mix(uint64(rank)).sum()
	z := &TensorExpr{kind: TKZero, hash: h, dim: dim, rank: rank}
	tensorZeroCache[key] = z
	logger.Log.Debug().Int("dim", dim).Int("rank", rank).Msg("tensor zero singleton created")
	return z
}

func (e *TensorExpr) Algebra() Algebra { return AlgebraTensor }

func (e *TensorExpr) Kind() TensorKind {
	if e == nil {
		return TKZero
	}
	return e.kind
}

func (e *TensorExpr) Children() []*TensorExpr {
	if e == nil {
		return nil
	}
	return e.children
}

func (e *TensorExpr) Dim() int {
	if e == nil {
		return 0
	}
	return e.dim
}

func (e *TensorExpr) Rank() int {
	if e == nil {
		return 0
	}
	return e.rank
}

// Shape returns (dim, dim, ..., dim) rank times as a gorgonia.org/tensor
// Shape, the same descriptor type gorgonia's numeric tensors use, so
// that a simplified expression's node carries
// the ecosystem's own notion of shape rather than a hand-rolled pair.
// A rank-0 node returns a scalar Shape (empty dims); dim is still
// reported by Dim() since Shape alone can't distinguish two rank-0
// expressions built under a different ambient dimension.
func (e *TensorExpr) Shape() tensor.Shape {
	rank := e.Rank()
	if rank == 0 {
		return tensor.Shape{}
	}
	dims := make(tensor.Shape, rank)
	for i := range dims {
		dims[i] = e.Dim()
	}
	return dims
}

func (e *TensorExpr) Hash() uint64 {
	if e == nil {
		return TensorZero(0, 0).hash
	}
	return e.hash
}

func (e *TensorExpr) ID() string { return encodeID(e.Hash()) }

func (e *TensorExpr) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

// ScalarFactor returns the scalar coefficient of a TKScalarMul node.
func (e *TensorExpr) ScalarFactor() *ScalarExpr {
	if e == nil || e.kind != TKScalarMul {
		return nil
	}
	return e.scalar
}

func (e *TensorExpr) IsValid() bool { return e != nil }

// IsZero reports whether e is the zero tensor of its own (dim, rank),
// treating an invalid handle as zero.
func (e *TensorExpr) IsZero() bool { return e == nil || e.kind == TKZero }

func (e *TensorExpr) Equal(o *TensorExpr) bool {
	if e == o {
		return true
	}
	if e.IsZero() && o.IsZero() {
		return e.Dim() == o.Dim() && e.Rank() == o.Rank()
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash || e.kind != o.kind || e.dim != o.dim || e.rank != o.rank || e.name != o.name {
		return false
	}
	if e.kind == TKScalarMul && !e.scalar.Equal(o.scalar) {
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

// Less implements the shared structural ordering:
// (kind, dim, rank, arity, children, name).
func (e *TensorExpr) Less(o *TensorExpr) bool {
	ek, ok := e.Kind(), o.Kind()
	if ek != ok {
		return ek < ok
	}
	if e.Dim() != o.Dim() {
		return e.Dim() < o.Dim()
	}
	if e.Rank() != o.Rank() {
		return e.Rank() < o.Rank()
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
	if ek == TKScalarMul {
		return e.ScalarFactor().Less(o.ScalarFactor())
	}
	return false
}

func (e *TensorExpr) String() string {
	if e.IsZero() {
		return fmt.Sprintf("0_(%d,%d)", e.Dim(), e.Rank())
	}
	switch e.kind {
	case TKSymbol:
		return e.name
	case TKIdentity:
		return fmt.Sprintf("I_(%d,%d)", e.dim, e.rank)
	case TKNeg:
		return "-(" + e.children[0].String() + ")"
	case TKDeviatoric:
		return "dev(" + e.children[0].String() + ")"
	case TKVolumetric:
		return "vol(" + e.children[0].String() + ")"
	case TKScalarMul:
		return e.scalar.String() + "*" + e.children[0].String()
	case TKAdd, TKMul:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		sep := " + "
		if e.kind == TKMul {
			sep = " . "
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "?"
	}
}

func newTensorNode(kind TensorKind, dim, rank int, children []*TensorExpr, extra func(hashCombiner) hashCombiner) *TensorExpr {
	h := newHash().mix(uint64(kind)).mix(uint64(dim)).mix(uint64(rank))
	for _, c := range children {
		h = h.mix(c.Hash())
	}
	if extra != nil {
		h = extra(h)
	}
	return &TensorExpr{kind: kind, hash: h.sum(), dim: dim, rank: rank, children: children}
}
