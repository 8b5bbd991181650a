// Package logreg implements L2-regularized binary logistic regression as a
// decomposable objective, one term per observation, suitable for the
// stochastic solvers in this module.
package logreg

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model is the negative log-likelihood of a logistic classifier over a fixed
// dataset.  Data holds one observation per row; Labels holds the matching
// 0/1 responses.  The parameter iterate is a (d+1)x1 matrix with the
// intercept in row 0 followed by one weight per data column.  Lambda is the
// L2 penalty on the weights (the intercept is not penalized); zero disables
// regularization.
type Model struct {
	Data   *mat.Dense
	Labels []float64
	Lambda float64
}

func New(data *mat.Dense, labels []float64, lambda float64) *Model {
	if r, _ := data.Dims(); r != len(labels) {
		panic("logreg: data rows and label count differ")
	}
	return &Model{Data: data, Labels: labels, Lambda: lambda}
}

// NumFunctions returns the number of observations.
func (m *Model) NumFunctions() int {
	n, _ := m.Data.Dims()
	return n
}

// NumParams returns the length of the parameter iterate (intercept plus one
// weight per feature).
func (m *Model) NumParams() int {
	_, d := m.Data.Dims()
	return d + 1
}

// Start returns a zero initial iterate of the right shape.
func (m *Model) Start() *mat.Dense {
	return mat.NewDense(m.NumParams(), 1, nil)
}

func (m *Model) decision(params *mat.Dense, i int) float64 {
	p := params.RawMatrix().Data
	return p[0] + floats.Dot(m.Data.RawRowView(i), p[1:])
}

// Evaluate returns the log-loss contribution of observation i plus its share
// of the L2 penalty.  The log-sum-exp form keeps the loss finite for
// decisions of large magnitude.
func (m *Model) Evaluate(params *mat.Dense, i int) float64 {
	z := m.decision(params, i)
	loss := math.Log1p(math.Exp(-math.Abs(z))) + math.Max(z, 0) - m.Labels[i]*z

	if m.Lambda > 0 {
		p := params.RawMatrix().Data
		loss += m.Lambda / (2 * float64(m.NumFunctions())) * floats.Dot(p[1:], p[1:])
	}
	return loss
}

// Gradient returns the gradient of observation i's contribution.
func (m *Model) Gradient(params *mat.Dense, i int) *mat.Dense {
	g := mat.NewDense(m.NumParams(), 1, nil)
	gd := g.RawMatrix().Data

	e := sigmoid(m.decision(params, i)) - m.Labels[i]
	gd[0] = e
	for j, v := range m.Data.RawRowView(i) {
		gd[j+1] = e * v
	}

	if m.Lambda > 0 {
		n := float64(m.NumFunctions())
		p := params.RawMatrix().Data
		for j := 1; j < len(gd); j++ {
			gd[j] += m.Lambda / n * p[j]
		}
	}
	return g
}

// Accuracy returns the percent of observations in data whose predicted class
// under params matches labels.
func Accuracy(params *mat.Dense, data *mat.Dense, labels []float64) float64 {
	p := params.RawMatrix().Data
	n, _ := data.Dims()
	correct := 0
	for i := 0; i < n; i++ {
		z := p[0] + floats.Dot(data.RawRowView(i), p[1:])
		pred := 0.0
		if z > 0 {
			pred = 1
		}
		if pred == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n) * 100
}

// TwoClusters draws n points from each of two spherical unit-variance
// Gaussians centered at mean0 and mean1 and returns them with labels 0 and 1
// respectively.
func TwoClusters(n int, mean0, mean1 []float64, rng *rand.Rand) (data *mat.Dense, labels []float64) {
	d := len(mean0)
	data = mat.NewDense(2*n, d, nil)
	labels = make([]float64, 2*n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			data.Set(i, j, mean0[j]+rng.NormFloat64())
			data.Set(n+i, j, mean1[j]+rng.NormFloat64())
		}
		labels[n+i] = 1
	}
	return data, labels
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }
