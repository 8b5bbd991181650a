// Package adagrad implements the AdaGrad update rule of Duchi, Hazan and
// Singer, "Adaptive subgradient methods for online learning and stochastic
// optimization" (JMLR 2011).  Each coordinate keeps a running sum of its
// squared gradient values; coordinates with a large accumulated magnitude
// receive proportionally smaller steps, while rarely-updated coordinates
// retain large effective step sizes.
package adagrad

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/intellhave/ensmallen"
	"github.com/intellhave/ensmallen/sgd"
)

// DefaultEpsilon is the accumulator floor used when no epsilon is given.
const DefaultEpsilon = 1e-8

// Update is the AdaGrad step policy for the sgd driver:
//
//	sqgrad[k] += g[k]^2
//	iterate[k] -= stepSize * g[k] / (sqrt(sqgrad[k]) + epsilon)
//
// The accumulator is filled with epsilon (not zero) when shaped, so the
// first step is well-defined, and it grows monotonically from there.  It is
// never reset during a run and survives across runs of the same driver; it
// is reshaped only when the iterate shape changes.
type Update struct {
	epsilon float64
	sqgrad  *mat.Dense
}

// NewUpdate creates the policy with the given accumulator floor.  An epsilon
// <= 0 selects DefaultEpsilon.
func NewUpdate(epsilon float64) *Update {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Update{epsilon: epsilon}
}

func (u *Update) Epsilon() float64 { return u.epsilon }

func (u *Update) Initialize(r, c int) {
	if u.sqgrad != nil {
		if sr, sc := u.sqgrad.Dims(); sr == r && sc == c {
			return
		}
	}
	data := make([]float64, r*c)
	for i := range data {
		data[i] = u.epsilon
	}
	u.sqgrad = mat.NewDense(r, c, data)
}

func (u *Update) Update(iterate *mat.Dense, stepSize float64, grad *mat.Dense) {
	r, c := iterate.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			g := grad.At(i, j)
			acc := u.sqgrad.At(i, j) + g*g
			u.sqgrad.Set(i, j, acc)
			iterate.Set(i, j, iterate.At(i, j)-stepSize*g/(math.Sqrt(acc)+u.epsilon))
		}
	}
}

// AdaGrad couples the Update policy with the stochastic descent driver.  All
// sgd options apply; epsilon is fixed at construction because it shapes the
// accumulator floor.
type AdaGrad struct {
	*sgd.SGD
	update *Update
}

// New creates an AdaGrad solver.  An epsilon <= 0 selects DefaultEpsilon;
// the remaining options default as in the sgd package (step size 0.01, max
// 100000 iterations, tolerance 1e-5, shuffling on).
func New(epsilon float64, opts ...sgd.Option) *AdaGrad {
	u := NewUpdate(epsilon)
	return &AdaGrad{
		SGD:    sgd.New(u, opts...),
		update: u,
	}
}

func (a *AdaGrad) Epsilon() float64 { return a.update.Epsilon() }

// Optimize minimizes f starting from iterate, mutating it in place, and
// returns the final objective value.
func (a *AdaGrad) Optimize(f ensmallen.Function, iterate *mat.Dense) (float64, error) {
	return a.SGD.Optimize(f, iterate)
}
