// Command cascli is a minimal demo of the numsimcas kernel: it builds
// a handful of worked scalar/tensor/tensor-to-scalar scenarios and
// prints their text and LaTeX renderings. It is not a general-purpose
// REPL or parser for a surface syntax.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itohio/numsimcas/pkg/core/cas"
	"github.com/itohio/numsimcas/pkg/core/numeric"
	"github.com/itohio/numsimcas/pkg/render/latex"
	"github.com/itohio/numsimcas/pkg/render/text"
)

var scenario = flag.String("scenario", "all", "which scenario to run: sum, product, diff, limit, trace, tracediff, all")

func main() {
	flag.Parse()

	scenarios := map[string]func() error{
		"sum":       runSumOfLikeTerms,
		"product":   runDifferenceOfSquares,
		"diff":      runExpLogDerivative,
		"limit":     runLogOverXLimit,
		"trace":     runTraceCommutator,
		"tracediff": runTraceDerivative,
	}

	names := []string{"sum", "product", "diff", "limit", "trace", "tracediff"}
	if *scenario != "all" {
		names = []string{*scenario}
	}

	for _, name := range names {
		run, ok := scenarios[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown scenario %q\n", name)
			os.Exit(1)
		}
		fmt.Printf("=== %s ===\n", name)
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

// runSumOfLikeTerms builds x + 2*x + 3*x and simplifies it to 6*x.
func runSumOfLikeTerms() error {
	x := cas.ScalarSymbol("x")
	twoX, err := cas.ScalarMul(cas.ScalarConstant(numeric.Int(2)), x)
	if err != nil {
		return err
	}
	threeX, err := cas.ScalarMul(cas.ScalarConstant(numeric.Int(3)), x)
	if err != nil {
		return err
	}
	sum, err := cas.ScalarAdd(x, twoX, threeX)
	if err != nil {
		return err
	}
	return printScalar(sum)
}

// runDifferenceOfSquares builds (x+1)*(x-1), expands it to x^2-1, and
// prints both the factored and expanded forms.
func runDifferenceOfSquares() error {
	x := cas.ScalarSymbol("x")
	xPlus1, err := cas.ScalarAdd(x, cas.ScalarOne())
	if err != nil {
		return err
	}
	xMinus1, err := cas.ScalarSub(x, cas.ScalarOne())
	if err != nil {
		return err
	}
	factored, err := cas.ScalarMul(xPlus1, xMinus1)
	if err != nil {
		return err
	}
	fmt.Println("factored:")
	if err := printScalar(factored); err != nil {
		return err
	}
	expanded, err := cas.ScalarExpand(factored)
	if err != nil {
		return err
	}
	fmt.Println("expanded:")
	return printScalar(expanded)
}

// runExpLogDerivative differentiates exp(log(x)) w.r.t. x, once with x
// assumed positive (expect 1) and once without.
func runExpLogDerivative() error {
	xFree := cas.ScalarSymbol("x")
	freeExpr := cas.ScalarExp(mustLog(xFree))
	freeDeriv, err := cas.ScalarDiff(freeExpr, xFree)
	if err != nil {
		return err
	}
	fmt.Println("without assumption:")
	if err := printScalar(freeDeriv); err != nil {
		return err
	}

	xPos := cas.ScalarAssumption("x", cas.DomainPositive)
	posExpr := cas.ScalarExp(mustLog(xPos))
	posDeriv, err := cas.ScalarDiff(posExpr, xPos)
	if err != nil {
		return err
	}
	fmt.Println("with positive assumption:")
	return printScalar(posDeriv)
}

func mustLog(x *cas.ScalarExpr) *cas.ScalarExpr {
	l, err := cas.ScalarLog(x)
	if err != nil {
		// xFree/xPos are both non-zero symbols; ScalarLog only fails on
		// a literal zero or negative constant, so this never triggers.
		panic(err)
	}
	return l
}

// runLogOverXLimit takes the limit of log(x)/x as x -> +inf, expecting
// direction zero with constant growth.
func runLogOverXLimit() error {
	x := cas.ScalarSymbol("x")
	logX, err := cas.ScalarLog(x)
	if err != nil {
		return err
	}
	inv, err := cas.ScalarPower(x, cas.ScalarConstant(numeric.Int(-1)))
	if err != nil {
		return err
	}
	expr, err := cas.ScalarMul(logX, inv)
	if err != nil {
		return err
	}
	result, err := cas.Limit(expr, x, cas.TargetPosInf)
	if err != nil {
		return err
	}
	fmt.Printf("direction=%s growth=%s\n", result.Direction, result.Growth.Kind)
	return nil
}

// runTraceCommutator builds tr(A.B) - tr(B.A) for two rank-2 tensors
// of dimension 3 and simplifies it to the tensor-to-scalar zero.
func runTraceCommutator() error {
	a := cas.TensorSymbol("A", 3, 2)
	b := cas.TensorSymbol("B", 3, 2)
	ab, err := cas.TensorMul(a, b)
	if err != nil {
		return err
	}
	ba, err := cas.TensorMul(b, a)
	if err != nil {
		return err
	}
	trAB, err := cas.TTOSTrace(ab)
	if err != nil {
		return err
	}
	trBA, err := cas.TTOSTrace(ba)
	if err != nil {
		return err
	}
	result, err := cas.TTOSSub(trAB, trBA)
	if err != nil {
		return err
	}
	return printTTOS(result)
}

// runTraceDerivative differentiates tr(X) w.r.t. X for (dim=3, rank=2),
// expecting the rank-2 identity of dimension 3.
func runTraceDerivative() error {
	x := cas.TensorSymbol("X", 3, 2)
	trX, err := cas.TTOSTrace(x)
	if err != nil {
		return err
	}
	grad, err := cas.TTOSDiff(trX, x)
	if err != nil {
		return err
	}
	return printTensor(grad)
}

func printScalar(e *cas.ScalarExpr) error {
	return printBoth(e)
}

func printTensor(e *cas.TensorExpr) error {
	return printBoth(e)
}

func printTTOS(e *cas.TTOSExpr) error {
	return printBoth(e)
}

func printBoth(e any) error {
	t, err := text.ToText(e)
	if err != nil {
		return err
	}
	l, err := latex.ToLatex(e, latex.DefaultConfig())
	if err != nil {
		return err
	}
	fmt.Printf("  text:  %s\n", t)
	fmt.Printf("  latex: %s\n", l)
	return nil
}
