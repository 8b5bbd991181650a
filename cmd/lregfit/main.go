// Command lregfit fits a logistic regression model to two Gaussian point
// clusters with AdaGrad, prints the resulting accuracy, and renders the
// recorded per-epoch objective as a convergence plot.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "modernc.org/sqlite"

	"github.com/intellhave/ensmallen"
	"github.com/intellhave/ensmallen/adagrad"
	"github.com/intellhave/ensmallen/logreg"
	"github.com/intellhave/ensmallen/sgd"
)

var (
	npoints  = flag.Int("n", 500, "points per cluster")
	lambda   = flag.Float64("lambda", 0.5, "L2 penalty on the weights")
	step     = flag.Float64("step", 0.99, "step size")
	maxiter  = flag.Int("maxiter", 200000, "max sampled-term updates (0 = unlimited)")
	tol      = flag.Float64("tol", 1e-7, "epoch-to-epoch convergence tolerance")
	dbname   = flag.String("db", "lregfit.sqlite", "progress database file")
	plotname = flag.String("plot", "convergence.png", "convergence plot file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	seed := time.Now().Unix()
	ensmallen.Rand = rand.New(rand.NewSource(seed))
	rng := rand.New(rand.NewSource(seed))

	mean0 := []float64{1, 1, 1}
	mean1 := []float64{9, 9, 9}
	data, labels := logreg.TwoClusters(*npoints, mean0, mean1, rng)
	heldout, heldoutLabels := logreg.TwoClusters(*npoints, mean0, mean1, rng)

	os.Remove(*dbname)
	db, err := sql.Open("sqlite", *dbname)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	m := logreg.New(data, labels, *lambda)
	o := adagrad.New(0,
		sgd.StepSize(*step),
		sgd.MaxIter(*maxiter),
		sgd.Tolerance(*tol),
		sgd.DB(db),
	)

	params := m.Start()
	val, err := o.Optimize(m, params)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%v after %v updates\n", o.Status(), o.Niter())
	fmt.Printf("final objective: %v\n", val)
	fmt.Printf("train accuracy: %.2f%%\n", logreg.Accuracy(params, data, labels))
	fmt.Printf("held-out accuracy: %.2f%%\n", logreg.Accuracy(params, heldout, heldoutLabels))

	if err := plotProgress(db, *plotname); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %v and %v\n", *dbname, *plotname)
}

func plotProgress(db *sql.DB, fname string) error {
	rows, err := db.Query("SELECT epoch, val FROM " + sgd.TblEpochs + " ORDER BY epoch")
	if err != nil {
		return err
	}
	defer rows.Close()

	var xys plotter.XYs
	for rows.Next() {
		var epoch int
		var val float64
		if err := rows.Scan(&epoch, &val); err != nil {
			return err
		}
		xys = append(xys, plotter.XY{X: float64(epoch), Y: val})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "AdaGrad on logistic regression"
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "objective"

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(6*vg.Inch, 4*vg.Inch, fname)
}
