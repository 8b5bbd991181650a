// Package ensmallen provides stochastic first-order solvers for objective
// functions that decompose into a sum of independently evaluable terms
// (e.g. per-example losses of a parametric model).  The sgd subpackage
// contains the generic descent driver, the adagrad subpackage an adaptive
// per-coordinate update rule for it.
package ensmallen

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Rand is the random number source used for shuffling sampling orders.
// Replace it (e.g. with a fixed-seed source) for reproducible runs.
var Rand = rand.New(rand.NewSource(1))

// Function is a decomposable objective: a sum of NumFunctions terms, each
// separately evaluable and differentiable.  For a data-dependent objective
// the terms typically correspond to the points of a dataset held inside the
// implementation.  The term count must not change while an optimizer is
// running on the function.
type Function interface {
	// NumFunctions returns the number of additive terms.
	NumFunctions() int

	// Evaluate returns the scalar contribution of term i at x.  The
	// objective must be framed so that lower values are better.
	Evaluate(x *mat.Dense, i int) float64

	// Gradient returns the gradient of term i at x.  The returned matrix
	// must have the same shape as x.
	Gradient(x *mat.Dense, i int) *mat.Dense
}

// Evaluate computes the full objective value of f at x by summing the
// contributions of every term.
func Evaluate(f Function, x *mat.Dense) float64 {
	tot := 0.0
	for i := 0; i < f.NumFunctions(); i++ {
		tot += f.Evaluate(x, i)
	}
	return tot
}

// FuncPrinter wraps a Function and prints every term evaluation along with a
// running evaluation count.  Useful for eyeballing what a solver is doing.
type FuncPrinter struct {
	Function
	Count int
}

func NewFuncPrinter(f Function) *FuncPrinter {
	return &FuncPrinter{Function: f}
}

func (fp *FuncPrinter) Evaluate(x *mat.Dense, i int) float64 {
	val := fp.Function.Evaluate(x, i)

	fp.Count++
	fmt.Print(fp.Count, " f", i, " ")
	r, c := x.Dims()
	for m := 0; m < r; m++ {
		for n := 0; n < c; n++ {
			fmt.Print(x.At(m, n), " ")
		}
	}
	fmt.Println("    ", val)

	return val
}
