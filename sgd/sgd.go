// Package sgd implements stochastic gradient descent over decomposable
// objective functions with a pluggable per-parameter update rule.  One
// iteration processes one sampled term, never a full pass; convergence is
// tested once per epoch (one full pass over all terms).
package sgd

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/intellhave/ensmallen"
)

var ZeroFuncsErr = errors.New("sgd: objective has zero functions")
var ShapeErr = errors.New("sgd: gradient shape incompatible with iterate")

// TblEpochs is the name of the sql database table that records the full
// objective value and iterate at the end of each epoch.
const TblEpochs = "sgdepochs"

// Status reports how the most recent Optimize call ended.
type Status int

const (
	NotStarted Status = iota
	// Converged means the full objective changed by less than the tolerance
	// across one epoch.
	Converged
	// IterationLimit means the maximum number of sampled-term updates was
	// reached before the objective settled.
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit reached"
	}
	return "not started"
}

type Option func(*SGD)

// StepSize sets the base step size applied to every update (default 0.01).
func StepSize(v float64) Option {
	return func(s *SGD) { s.stepSize = v }
}

// MaxIter sets the maximum number of sampled-term updates (default 100000).
// One iteration equals one term, not one epoch.  Zero means no limit.
func MaxIter(n int) Option {
	return func(s *SGD) { s.maxIter = n }
}

// Tolerance sets the epoch-to-epoch objective change below which the solver
// terminates (default 1e-5).
func Tolerance(tol float64) Option {
	return func(s *SGD) { s.tolerance = tol }
}

// Shuffle controls whether each epoch visits the terms in a fresh random
// order drawn from ensmallen.Rand, or in linear order (default true).
func Shuffle(on bool) Option {
	return func(s *SGD) { s.shuffle = on }
}

// DB sets a database for recording per-epoch progress.
func DB(db *sql.DB) Option {
	return func(s *SGD) { s.db = db }
}

// SGD owns the optimization loop: sampling order, iteration budget and
// convergence check.  The numeric transformation of each gradient is
// delegated to the Updater.  An SGD instance must not be shared between
// concurrent callers.
type SGD struct {
	stepSize  float64
	maxIter   int
	tolerance float64
	shuffle   bool
	updater   Updater
	db        *sql.DB

	status Status
	niter  int
	epoch  int
	dbinit bool
}

// New creates a solver that steps with up.  A nil up means Vanilla{}.
func New(up Updater, opts ...Option) *SGD {
	if up == nil {
		up = Vanilla{}
	}
	s := &SGD{
		stepSize:  0.01,
		maxIter:   100000,
		tolerance: 1e-5,
		shuffle:   true,
		updater:   up,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure retunes the solver between runs.  It must not be called while
// Optimize is running.
func (s *SGD) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}

func (s *SGD) StepSize() float64 { return s.stepSize }

func (s *SGD) MaxIter() int { return s.maxIter }

func (s *SGD) Tolerance() float64 { return s.tolerance }

func (s *SGD) Shuffle() bool { return s.shuffle }

func (s *SGD) Updater() Updater { return s.updater }

func (s *SGD) Status() Status { return s.status }

// Niter returns the total number of sampled-term updates performed by this
// solver across all Optimize calls.
func (s *SGD) Niter() int { return s.niter }

// Optimize minimizes f starting from iterate, mutating iterate in place, and
// returns the final full objective value.  The iterate is borrowed for the
// duration of the call only; no reference to it is retained.  A second call
// on the same solver starts a fresh epoch sequence but the Updater's
// accumulated state carries over.
func (s *SGD) Optimize(f ensmallen.Function, iterate *mat.Dense) (float64, error) {
	n := f.NumFunctions()
	if n == 0 {
		return math.Inf(1), ZeroFuncsErr
	}

	r, c := iterate.Dims()
	s.updater.Initialize(r, c)
	s.initdb(r * c)

	// Full-batch baseline for the first epoch's convergence comparison.
	curr := ensmallen.Evaluate(f, iterate)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	s.status = IterationLimit
	for t := 0; s.maxIter == 0 || t < s.maxIter; t++ {
		k := t % n
		if k == 0 && s.shuffle {
			order = ensmallen.Rand.Perm(n)
		}

		g := f.Gradient(iterate, order[k])
		if gr, gc := g.Dims(); gr != r || gc != c {
			return curr, fmt.Errorf("%w: gradient %vx%v, iterate %vx%v", ShapeErr, gr, gc, r, c)
		}
		s.updater.Update(iterate, s.stepSize, g)
		s.niter++

		if k == n-1 {
			next := ensmallen.Evaluate(f, iterate)
			s.epoch++
			s.updateDb(next, iterate)
			if math.Abs(curr-next) < s.tolerance {
				s.status = Converged
				return next, nil
			}
			curr = next
		}
	}
	return curr, nil
}

func (s *SGD) initdb(nx int) {
	if s.db == nil || s.dbinit {
		return
	}

	q := "CREATE TABLE IF NOT EXISTS " + TblEpochs + " (epoch INTEGER,niter INTEGER,val REAL"
	q += xdbsql("define", nx)
	q += ");"

	_, err := s.db.Exec(q)
	panicif(err)
	s.dbinit = true
}

func (s *SGD) updateDb(val float64, iterate *mat.Dense) {
	if s.db == nil {
		return
	}

	r, c := iterate.Dims()
	q := "INSERT INTO " + TblEpochs + " (epoch,niter,val" + xdbsql("x", r*c) + ") VALUES (?,?,?" + xdbsql("?", r*c) + ");"
	args := []interface{}{s.epoch, s.niter, val}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			args = append(args, iterate.At(i, j))
		}
	}
	_, err := s.db.Exec(q, args...)
	panicif(err)
}

func xdbsql(op string, n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if op == "?" {
			s += ",?"
		} else if op == "define" {
			s += fmt.Sprintf(",x%v REAL", i)
		} else if op == "x" {
			s += fmt.Sprintf(",x%v", i)
		} else {
			panic("invalid db op " + op)
		}
	}
	return s
}

func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
