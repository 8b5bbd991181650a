package sgd

import "gonum.org/v1/gonum/mat"

// Updater converts a raw term gradient into an in-place parameter step.
// Implementations may keep per-coordinate state (velocities, squared-gradient
// accumulators) that persists across calls; an Updater instance must not be
// shared between concurrently running solvers.
type Updater interface {
	// Initialize prepares internal state for an r x c iterate.  The driver
	// calls it at the start of every Optimize.  Implementations that carry
	// state across runs keep it when the shape is unchanged.
	Initialize(r, c int)

	// Update applies one descent step to iterate in place using the gradient
	// of a single sampled term.  grad has the same shape as iterate.
	Update(iterate *mat.Dense, stepSize float64, grad *mat.Dense)
}

// Vanilla is the plain stochastic gradient step: iterate -= stepSize*grad.
type Vanilla struct{}

func (Vanilla) Initialize(r, c int) {}

func (Vanilla) Update(iterate *mat.Dense, stepSize float64, grad *mat.Dense) {
	r, c := iterate.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			iterate.Set(i, j, iterate.At(i, j)-stepSize*grad.At(i, j))
		}
	}
}

// Momentum accumulates an exponentially decaying velocity and steps along it,
// damping oscillations across successive sampled terms:
//
//	v = Coeff*v - stepSize*grad
//	iterate += v
//
// Coeff is typically in [0.5, 0.9].  Coeff == 0 reduces to Vanilla.
type Momentum struct {
	Coeff float64
	vel   *mat.Dense
}

func (mu *Momentum) Initialize(r, c int) {
	if mu.vel != nil {
		if vr, vc := mu.vel.Dims(); vr == r && vc == c {
			return
		}
	}
	mu.vel = mat.NewDense(r, c, nil)
}

func (mu *Momentum) Update(iterate *mat.Dense, stepSize float64, grad *mat.Dense) {
	r, c := iterate.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := mu.Coeff*mu.vel.At(i, j) - stepSize*grad.At(i, j)
			mu.vel.Set(i, j, v)
			iterate.Set(i, j, iterate.At(i, j)+v)
		}
	}
}
