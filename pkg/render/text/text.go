// Package text implements the plain-text render sink: a
// read-only traversal over a cas expression tree that emits a
// parsable, fully parenthesized-where-needed form, inserting
// parentheses only when operator precedence would otherwise make the
// output ambiguous.
package text

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itohio/numsimcas/pkg/core/cas"
)

// ErrUnsupportedExpr is returned when ToText/Render is handed a value
// that is none of *cas.ScalarExpr, *cas.TensorExpr, *cas.TTOSExpr.
var ErrUnsupportedExpr = errors.New("text: unsupported expression type")

// precedence levels, higher binds tighter. Atoms and parenthesized
// groups are always precAtom so they never need wrapping.
const (
	precAdd = iota + 1
	precMulContract
	precUnary
	precPower
	precAtom
)

// ToText renders expr (a *cas.ScalarExpr, *cas.TensorExpr, or
// *cas.TTOSExpr) to its plain-text form.
func ToText(expr any) (string, error) {
	switch e := expr.(type) {
	case *cas.ScalarExpr:
		s, _ := scalarText(e, 0)
		return s, nil
	case *cas.TensorExpr:
		s, _ := tensorText(e, 0)
		return s, nil
	case *cas.TTOSExpr:
		s, _ := ttosText(e, 0)
		return s, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedExpr, expr)
	}
}

// Render writes ToText(expr) to w, surfacing any underlying stream
// error to the caller rather than swallowing it.
func Render(w io.Writer, expr any) error {
	s, err := ToText(expr)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func wrap(s string, myPrec, parentPrec int) string {
	if myPrec < parentPrec {
		return "(" + s + ")"
	}
	return s
}

func joinInfix(parts []string, sep string) string {
	return strings.Join(parts, sep)
}

func scalarText(e *cas.ScalarExpr, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap("0", precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.SKOne:
		return wrap("1", precAtom, parentPrec), precAtom
	case cas.SKConstant:
		v, _ := e.Value()
		return wrap(v.String(), precAtom, parentPrec), precAtom
	case cas.SKSymbol:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.SKAssumption:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.SKNeg:
		inner, _ := scalarText(e.Children()[0], precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.SKAbs:
		inner, _ := scalarText(e.Children()[0], 0)
		return wrap("|"+inner+"|", precAtom, parentPrec), precAtom
	case cas.SKExp:
		inner, _ := scalarText(e.Children()[0], 0)
		return wrap("exp("+inner+")", precAtom, parentPrec), precAtom
	case cas.SKLog:
		inner, _ := scalarText(e.Children()[0], 0)
		return wrap("log("+inner+")", precAtom, parentPrec), precAtom
	case cas.SKSqrt:
		inner, _ := scalarText(e.Children()[0], 0)
		return wrap("sqrt("+inner+")", precAtom, parentPrec), precAtom
	case cas.SKFunction:
		inner, _ := scalarText(e.Children()[0], 0)
		return wrap(e.Name()+"("+inner+")", precAtom, parentPrec), precAtom
	case cas.SKPower:
		base, _ := scalarText(e.Children()[0], precPower+1)
		exp, _ := scalarText(e.Children()[1], precPower)
		return wrap(base+"^"+exp, precPower, parentPrec), precPower
	case cas.SKDiff:
		expr, _ := scalarText(e.Children()[0], 0)
		v, _ := scalarText(e.Children()[1], 0)
		return wrap("d("+expr+")/d("+v+")", precAtom, parentPrec), precAtom
	case cas.SKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = scalarText(c, precAdd)
		}
		return wrap(joinInfix(parts, " + "), precAdd, parentPrec), precAdd
	case cas.SKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = scalarText(c, precMulContract)
		}
		return wrap(joinInfix(parts, "*"), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}

func tensorText(e *cas.TensorExpr, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap(fmt.Sprintf("0_%d", e.Rank()), precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.TKSymbol:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.TKIdentity:
		return wrap(fmt.Sprintf("I_%d", e.Rank()), precAtom, parentPrec), precAtom
	case cas.TKNeg:
		inner, _ := tensorText(e.Children()[0], precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.TKDeviatoric:
		inner, _ := tensorText(e.Children()[0], 0)
		return wrap("dev("+inner+")", precAtom, parentPrec), precAtom
	case cas.TKVolumetric:
		inner, _ := tensorText(e.Children()[0], 0)
		return wrap("vol("+inner+")", precAtom, parentPrec), precAtom
	case cas.TKScalarMul:
		scalar, _ := scalarText(e.ScalarFactor(), precMulContract)
		inner, _ := tensorText(e.Children()[0], precMulContract)
		return wrap(scalar+"*"+inner, precMulContract, parentPrec), precMulContract
	case cas.TKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = tensorText(c, precAdd)
		}
		return wrap(joinInfix(parts, " + "), precAdd, parentPrec), precAdd
	case cas.TKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = tensorText(c, precMulContract)
		}
		return wrap(joinInfix(parts, "."), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}

func ttosText(e *cas.TTOSExpr, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap("0", precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.TTKOne:
		return wrap("1", precAtom, parentPrec), precAtom
	case cas.TTKSymbol:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.TTKNeg:
		inner, _ := ttosText(e.Children()[0], precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.TTKExp:
		inner, _ := ttosText(e.Children()[0], 0)
		return wrap("exp("+inner+")", precAtom, parentPrec), precAtom
	case cas.TTKLog:
		inner, _ := ttosText(e.Children()[0], 0)
		return wrap("log("+inner+")", precAtom, parentPrec), precAtom
	case cas.TTKTrace:
		inner, _ := tensorText(e.TensorArg(), 0)
		return wrap("tr("+inner+")", precAtom, parentPrec), precAtom
	case cas.TTKPower:
		base, _ := ttosText(e.Children()[0], precPower+1)
		exp, _ := ttosText(e.Children()[1], precPower)
		return wrap(base+"^"+exp, precPower, parentPrec), precPower
	case cas.TTKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = ttosText(c, precAdd)
		}
		return wrap(joinInfix(parts, " + "), precAdd, parentPrec), precAdd
	case cas.TTKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = ttosText(c, precMulContract)
		}
		return wrap(joinInfix(parts, "*"), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}
