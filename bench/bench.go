// Package bench provides decomposable objective functions with known optima
// for testing stochastic solvers.
package bench

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/intellhave/ensmallen"
)

var AllFuncs = []Func{
	SGDTest{},
	Sphere{NDim: 3},
	Sphere{NDim: 50},
}

// Func is a decomposable benchmark objective with a known optimum.
type Func interface {
	ensmallen.Function
	// Start returns a fresh copy of the canonical starting iterate.
	Start() *mat.Dense
	// Optimum returns the full objective value at the global minimum.
	Optimum() float64
	Name() string
}

// Optimizer is anything that can minimize a decomposable function in place.
type Optimizer interface {
	Optimize(f ensmallen.Function, x *mat.Dense) (float64, error)
}

// Benchmark runs o on fn from its canonical start and reports the final
// iterate and objective value along with whether the objective came within
// tol of the known optimum.
func Benchmark(o Optimizer, fn Func, tol float64) (best *mat.Dense, val float64, ok bool, err error) {
	best = fn.Start()
	val, err = o.Optimize(fn, best)
	if err != nil {
		return best, val, false, err
	}
	return best, val, math.Abs(val-fn.Optimum()) < tol, nil
}

// SGDTest is a three-term function of a 3-dimensional iterate where each
// term depends on a single coordinate:
//
//	f0(x) = -exp(-|x0|)
//	f1(x) = x1^2
//	f2(x) = x2^4 + 3*x2^2
//
// The global minimum is at the origin with value -1.  The canonical start is
// (6, -45.6, 6.2).
type SGDTest struct{}

func (SGDTest) Name() string { return "SGDTest" }

func (SGDTest) NumFunctions() int { return 3 }

func (SGDTest) Start() *mat.Dense {
	return mat.NewDense(3, 1, []float64{6, -45.6, 6.2})
}

func (SGDTest) Optimum() float64 { return -1 }

func (SGDTest) Evaluate(x *mat.Dense, i int) float64 {
	switch i {
	case 0:
		return -math.Exp(-math.Abs(x.At(0, 0)))
	case 1:
		return math.Pow(x.At(1, 0), 2)
	default:
		return math.Pow(x.At(2, 0), 4) + 3*math.Pow(x.At(2, 0), 2)
	}
}

func (SGDTest) Gradient(x *mat.Dense, i int) *mat.Dense {
	g := mat.NewDense(3, 1, nil)
	switch i {
	case 0:
		if v := x.At(0, 0); v >= 0 {
			g.Set(0, 0, math.Exp(-v))
		} else {
			g.Set(0, 0, -math.Exp(v))
		}
	case 1:
		g.Set(1, 0, 2*x.At(1, 0))
	default:
		g.Set(2, 0, 4*math.Pow(x.At(2, 0), 3)+6*x.At(2, 0))
	}
	return g
}

// Sphere is the strictly convex quadratic sum of x_i^2 decomposed into one
// term per coordinate, so each sampled gradient touches a single coordinate.
// The unique global minimum is the origin with value zero.
type Sphere struct {
	NDim int
}

func (fn Sphere) Name() string { return fmt.Sprintf("Sphere_%vD", fn.NDim) }

func (fn Sphere) NumFunctions() int { return fn.NDim }

func (fn Sphere) Start() *mat.Dense {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 5 - float64(i%4)
	}
	return mat.NewDense(fn.NDim, 1, pos)
}

func (fn Sphere) Optimum() float64 { return 0 }

func (fn Sphere) Evaluate(x *mat.Dense, i int) float64 {
	v := x.At(i, 0)
	return v * v
}

func (fn Sphere) Gradient(x *mat.Dense, i int) *mat.Dense {
	g := mat.NewDense(fn.NDim, 1, nil)
	g.Set(i, 0, 2*x.At(i, 0))
	return g
}
