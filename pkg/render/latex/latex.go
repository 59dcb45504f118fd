// Package latex implements the LaTeX render sink: a
// read-only traversal over a cas expression tree, consulting a Config
// font table to pick the macro wrapping each tensor's symbol by rank.
package latex

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itohio/numsimcas/pkg/core/cas"
)

// ErrUnsupportedExpr is returned when ToLatex/Render is handed a value
// that is none of *cas.ScalarExpr, *cas.TensorExpr, *cas.TTOSExpr.
var ErrUnsupportedExpr = errors.New("latex: unsupported expression type")

const (
	precAdd = iota + 1
	precMulContract
	precUnary
	precPower
	precAtom
)

// ToLatex renders expr under cfg. Pass a zero Config to fall back to
// DefaultConfig's font table.
func ToLatex(expr any, cfg Config) (string, error) {
	if cfg.Default == "" && cfg.Fonts == nil {
		cfg = DefaultConfig()
	}
	switch e := expr.(type) {
	case *cas.ScalarExpr:
		s, _ := scalarLatex(e, 0)
		return s, nil
	case *cas.TensorExpr:
		s, _ := tensorLatex(e, cfg, 0)
		return s, nil
	case *cas.TTOSExpr:
		s, _ := ttosLatex(e, cfg, 0)
		return s, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedExpr, expr)
	}
}

// Render writes ToLatex(expr, cfg) to w, surfacing any stream error.
func Render(w io.Writer, expr any, cfg Config) error {
	s, err := ToLatex(expr, cfg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func wrap(s string, myPrec, parentPrec int) string {
	if myPrec < parentPrec {
		return `\left(` + s + `\right)`
	}
	return s
}

func scalarLatex(e *cas.ScalarExpr, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap("0", precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.SKOne:
		return wrap("1", precAtom, parentPrec), precAtom
	case cas.SKConstant:
		v, _ := e.Value()
		return wrap(v.String(), precAtom, parentPrec), precAtom
	case cas.SKSymbol, cas.SKAssumption:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.SKNeg:
		inner, _ := scalarLatex(e.Children()[0], precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.SKAbs:
		inner, _ := scalarLatex(e.Children()[0], 0)
		return wrap(`\left|`+inner+`\right|`, precAtom, parentPrec), precAtom
	case cas.SKExp:
		inner, _ := scalarLatex(e.Children()[0], 0)
		return wrap(`e^{`+inner+`}`, precAtom, parentPrec), precAtom
	case cas.SKLog:
		inner, _ := scalarLatex(e.Children()[0], 0)
		return wrap(`\log\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.SKSqrt:
		inner, _ := scalarLatex(e.Children()[0], 0)
		return wrap(`\sqrt{`+inner+`}`, precAtom, parentPrec), precAtom
	case cas.SKFunction:
		inner, _ := scalarLatex(e.Children()[0], 0)
		return wrap(`\operatorname{`+e.Name()+`}\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.SKPower:
		base, _ := scalarLatex(e.Children()[0], precPower+1)
		exp, _ := scalarLatex(e.Children()[1], 0)
		return wrap(base+"^{"+exp+"}", precPower, parentPrec), precPower
	case cas.SKDiff:
		expr, _ := scalarLatex(e.Children()[0], 0)
		v, _ := scalarLatex(e.Children()[1], 0)
		return wrap(`\frac{d}{d `+v+`}\left(`+expr+`\right)`, precAtom, parentPrec), precAtom
	case cas.SKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = scalarLatex(c, precAdd)
		}
		return wrap(strings.Join(parts, " + "), precAdd, parentPrec), precAdd
	case cas.SKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = scalarLatex(c, precMulContract)
		}
		return wrap(strings.Join(parts, `\cdot `), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}

// tensorSymbol wraps name in the font macro configured for rank.
func tensorSymbol(cfg Config, rank int, name string) string {
	return cfg.FontFor(rank) + "{" + name + "}"
}

func tensorLatex(e *cas.TensorExpr, cfg Config, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap(tensorSymbol(cfg, e.Rank(), "0"), precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.TKSymbol:
		return wrap(tensorSymbol(cfg, e.Rank(), e.Name()), precAtom, parentPrec), precAtom
	case cas.TKIdentity:
		return wrap(tensorSymbol(cfg, e.Rank(), "I"), precAtom, parentPrec), precAtom
	case cas.TKNeg:
		inner, _ := tensorLatex(e.Children()[0], cfg, precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.TKDeviatoric:
		inner, _ := tensorLatex(e.Children()[0], cfg, 0)
		return wrap(`\mathrm{dev}\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.TKVolumetric:
		inner, _ := tensorLatex(e.Children()[0], cfg, 0)
		return wrap(`\mathrm{vol}\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.TKScalarMul:
		scalar, _ := scalarLatex(e.ScalarFactor(), precMulContract)
		inner, _ := tensorLatex(e.Children()[0], cfg, precMulContract)
		return wrap(scalar+inner, precMulContract, parentPrec), precMulContract
	case cas.TKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = tensorLatex(c, cfg, precAdd)
		}
		return wrap(strings.Join(parts, " + "), precAdd, parentPrec), precAdd
	case cas.TKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = tensorLatex(c, cfg, precMulContract)
		}
		return wrap(strings.Join(parts, `\cdot `), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}

func ttosLatex(e *cas.TTOSExpr, cfg Config, parentPrec int) (string, int) {
	if e.IsZero() {
		return wrap("0", precAtom, parentPrec), precAtom
	}
	switch e.Kind() {
	case cas.TTKOne:
		return wrap("1", precAtom, parentPrec), precAtom
	case cas.TTKSymbol:
		return wrap(e.Name(), precAtom, parentPrec), precAtom
	case cas.TTKNeg:
		inner, _ := ttosLatex(e.Children()[0], cfg, precUnary)
		return wrap("-"+inner, precUnary, parentPrec), precUnary
	case cas.TTKExp:
		inner, _ := ttosLatex(e.Children()[0], cfg, 0)
		return wrap(`e^{`+inner+`}`, precAtom, parentPrec), precAtom
	case cas.TTKLog:
		inner, _ := ttosLatex(e.Children()[0], cfg, 0)
		return wrap(`\log\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.TTKTrace:
		inner, _ := tensorLatex(e.TensorArg(), cfg, 0)
		return wrap(`\mathrm{tr}\left(`+inner+`\right)`, precAtom, parentPrec), precAtom
	case cas.TTKPower:
		base, _ := ttosLatex(e.Children()[0], cfg, precPower+1)
		exp, _ := ttosLatex(e.Children()[1], cfg, 0)
		return wrap(base+"^{"+exp+"}", precPower, parentPrec), precPower
	case cas.TTKAdd:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = ttosLatex(c, cfg, precAdd)
		}
		return wrap(strings.Join(parts, " + "), precAdd, parentPrec), precAdd
	case cas.TTKMul:
		parts := make([]string, len(e.Children()))
		for i, c := range e.Children() {
			parts[i], _ = ttosLatex(c, cfg, precMulContract)
		}
		return wrap(strings.Join(parts, `\cdot `), precMulContract, parentPrec), precMulContract
	default:
		return wrap("?", precAtom, parentPrec), precAtom
	}
}
