package logreg_test

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/intellhave/ensmallen"
	"github.com/intellhave/ensmallen/adagrad"
	"github.com/intellhave/ensmallen/logreg"
	"github.com/intellhave/ensmallen/sgd"
)

const seed = 7

func seedrng(seed int64) {
	ensmallen.Rand = rand.New(rand.NewSource(seed))
}

func twoClusterModel(n int, lambda float64, rng *rand.Rand) *logreg.Model {
	data, labels := logreg.TwoClusters(n, []float64{1, 1, 1}, []float64{9, 9, 9}, rng)
	return logreg.New(data, labels, lambda)
}

// TestGradient checks the term gradients against central finite differences
// of the full objective.
func TestGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(seed))
	m := twoClusterModel(20, 0.5, rng)

	params := m.Start()
	pd := params.RawMatrix().Data
	for i := range pd {
		pd[i] = rng.NormFloat64()
	}

	grad := mat.NewDense(m.NumParams(), 1, nil)
	for i := 0; i < m.NumFunctions(); i++ {
		grad.Add(grad, m.Gradient(params, i))
	}

	const h = 1e-6
	for j := 0; j < m.NumParams(); j++ {
		orig := params.At(j, 0)

		params.Set(j, 0, orig+h)
		fplus := ensmallen.Evaluate(m, params)
		params.Set(j, 0, orig-h)
		fminus := ensmallen.Evaluate(m, params)
		params.Set(j, 0, orig)

		numeric := (fplus - fminus) / (2 * h)
		if diff := math.Abs(numeric - grad.At(j, 0)); diff > 1e-4 {
			t.Errorf("gradient[%v] = %v, finite difference gives %v (diff %v)", j, grad.At(j, 0), numeric, diff)
		}
	}
}

// TestAdaGradFit trains on two well-separated Gaussian clusters and checks
// accuracy on the training set and on freshly drawn held-out data.
func TestAdaGradFit(t *testing.T) {
	seedrng(seed)
	rng := rand.New(rand.NewSource(seed))

	m := twoClusterModel(500, 0.5, rng)
	o := adagrad.New(1e-8, sgd.StepSize(0.99), sgd.MaxIter(5000000), sgd.Tolerance(1e-9))

	params := m.Start()
	val, err := o.Optimize(m, params)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("%v after %v updates with objective %v", o.Status(), o.Niter(), val)

	if acc := logreg.Accuracy(params, m.Data, m.Labels); acc <= 99.4 {
		t.Errorf("train accuracy %.2f%%, expected > 99.4%%", acc)
	} else {
		t.Logf("train accuracy %.2f%%", acc)
	}

	heldout, labels := logreg.TwoClusters(500, []float64{1, 1, 1}, []float64{9, 9, 9}, rng)
	if acc := logreg.Accuracy(params, heldout, labels); acc <= 99.4 {
		t.Errorf("held-out accuracy %.2f%%, expected > 99.4%%", acc)
	} else {
		t.Logf("held-out accuracy %.2f%%", acc)
	}
}

func TestAccuracy(t *testing.T) {
	data := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	labels := []float64{0, 0, 1, 1}

	// decision z = x: classifies all four correctly
	params := mat.NewDense(2, 1, []float64{0, 1})
	if acc := logreg.Accuracy(params, data, labels); acc != 100 {
		t.Errorf("accuracy %v, expected 100", acc)
	}

	// inverted decision misclassifies everything
	params = mat.NewDense(2, 1, []float64{0, -1})
	if acc := logreg.Accuracy(params, data, labels); acc != 0 {
		t.Errorf("accuracy %v, expected 0", acc)
	}
}
