package adagrad

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/intellhave/ensmallen"
	"github.com/intellhave/ensmallen/bench"
	"github.com/intellhave/ensmallen/sgd"
)

const seed = 7

func seedrng(seed int64) {
	ensmallen.Rand = rand.New(rand.NewSource(seed))
}

func TestAccumulatorFloor(t *testing.T) {
	u := NewUpdate(0.25)
	u.Initialize(3, 2)

	r, c := u.sqgrad.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("accumulator shaped %vx%v, expected 3x2", r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if u.sqgrad.At(i, j) != 0.25 {
				t.Errorf("accumulator[%v,%v] = %v, expected epsilon floor 0.25", i, j, u.sqgrad.At(i, j))
			}
		}
	}
}

func TestAccumulatorMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(seed))

	u := NewUpdate(1e-2)
	u.Initialize(4, 1)
	x := mat.NewDense(4, 1, []float64{1, -2, 3, -4})

	prev := mat.DenseCopyOf(u.sqgrad)
	for step := 0; step < 50; step++ {
		g := mat.NewDense(4, 1, nil)
		for i := 0; i < 4; i++ {
			g.Set(i, 0, rng.NormFloat64())
		}
		u.Update(x, 0.1, g)

		for i := 0; i < 4; i++ {
			if u.sqgrad.At(i, 0) < prev.At(i, 0) {
				t.Fatalf("accumulator[%v] shrank at step %v: %v -> %v", i, step, prev.At(i, 0), u.sqgrad.At(i, 0))
			}
			if u.sqgrad.At(i, 0) < u.epsilon {
				t.Fatalf("accumulator[%v] fell below epsilon %v: %v", i, u.epsilon, u.sqgrad.At(i, 0))
			}
		}
		prev.Copy(u.sqgrad)
	}
}

func TestAccumulatorCarryOver(t *testing.T) {
	seedrng(seed)

	fn := bench.Sphere{NDim: 3}
	o := New(1e-8, sgd.StepSize(0.3), sgd.MaxIter(30), sgd.Tolerance(0))

	x := fn.Start()
	if _, err := o.Optimize(fn, x); err != nil {
		t.Fatal(err)
	}
	after := mat.DenseCopyOf(o.update.sqgrad)

	if _, err := o.Optimize(fn, x); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if o.update.sqgrad.At(i, 0) < after.At(i, 0) {
			t.Errorf("accumulator[%v] reset between runs: %v -> %v", i, after.At(i, 0), o.update.sqgrad.At(i, 0))
		}
	}
}

// TestSimple drives the three-term benchmark function to its minimum at the
// origin with an aggressive step size.
func TestSimple(t *testing.T) {
	seedrng(seed)

	fn := bench.SGDTest{}
	o := New(1, sgd.StepSize(0.99), sgd.MaxIter(5000000), sgd.Tolerance(1e-9))

	coords := fn.Start()
	val, err := o.Optimize(fn, coords)
	if err != nil {
		t.Fatal(err)
	}

	t.Logf("[%v] %v after %v updates with objective %v", fn.Name(), o.Status(), o.Niter(), val)
	for i := 0; i < 3; i++ {
		if math.Abs(coords.At(i, 0)) > 0.003 {
			t.Errorf("coordinate %v finished at %v, expected within 0.003 of 0", i, coords.At(i, 0))
		}
	}
}

func TestDefaults(t *testing.T) {
	o := New(0)
	if o.Epsilon() != DefaultEpsilon {
		t.Errorf("epsilon is %v, expected default %v", o.Epsilon(), DefaultEpsilon)
	}
	if o.StepSize() != 0.01 || o.MaxIter() != 100000 || o.Tolerance() != 1e-5 || !o.Shuffle() {
		t.Errorf("wrong driver defaults: step %v, maxiter %v, tol %v, shuffle %v",
			o.StepSize(), o.MaxIter(), o.Tolerance(), o.Shuffle())
	}
}
