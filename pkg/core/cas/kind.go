// Package cas implements the symbolic expression kernel: the three
// coupled algebras (Scalar, Tensor, TensorToScalar), their builders,
// the simplifier, differentiation, the limit engine, and the linear
// tensor-equation solver.
//
// The three algebras live in one package, not three, because the
// cross-algebra bridge node kinds (TensorScalarMul, Trace) need to
// reference another algebra's concrete node type without exposing the
// unexported raw constructors that would let outside code build an
// un-simplified node.
package cas

// Algebra identifies which of the three node-kind universes an
// expression belongs to.
type Algebra uint8

const (
	AlgebraScalar Algebra = iota
	AlgebraTensor
	AlgebraTensorToScalar
)

func (a Algebra) String() string {
	switch a {
	case AlgebraScalar:
		return "scalar"
	case AlgebraTensor:
		return "tensor"
	case AlgebraTensorToScalar:
		return "tensor_to_scalar"
	default:
		return "unknown"
	}
}

// ScalarKind enumerates the scalar algebra's node kinds.
type ScalarKind uint16

const (
	SKZero ScalarKind = iota
	SKOne
	SKConstant
	SKSymbol
	SKAssumption
	SKNeg
	SKAbs
	SKExp
	SKLog
	SKSqrt
	SKFunction
	SKPower
	SKDiff
	SKAdd
	SKMul
)

// TensorKind enumerates the tensor algebra's node kinds.
type TensorKind uint16

const (
	TKZero TensorKind = iota
	TKSymbol
	TKIdentity
	TKNeg
	TKDeviatoric
	TKVolumetric
	TKAdd
	TKMul // contraction
	TKScalarMul
)

// TTOSKind enumerates the tensor-to-scalar algebra's node kinds.
type TTOSKind uint16

const (
	TTKZero TTOSKind = iota
	TTKOne
	TTKSymbol
	TTKNeg
	TTKExp
	TTKLog
	TTKTrace
	TTKPower
	TTKAdd
	TTKMul
)

// Domain records an assumption attached to a scalar assumption atom:
// the only fact the build-time shortcut rules need (abs(x)=x,
// exp(log x)=x) is whether the value is known to be non-negative or
// strictly positive.
type Domain uint8

const (
	DomainNone Domain = iota
	DomainNonNegative
	DomainPositive
)

func (d Domain) String() string {
	switch d {
	case DomainNonNegative:
		return "nonneg"
	case DomainPositive:
		return "positive"
	default:
		return "none"
	}
}
