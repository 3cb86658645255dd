// Package gomlcore is a small library of foundational learning algorithms
// for Go built on gonum: closed-form and gradient-descent linear regression,
// logistic regression, a greedy regression tree and k-means clustering.
//
// The iterative estimators share one convergence loop (package optimize):
// parameters start at random values, the model-specific evaluator returns
// increments, and the loop stops once the largest absolute increment is at
// or below the tolerance or the iteration limit is hit.
//
// # Installation
//
//	go get github.com/YuminosukeSato/gomlcore
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/gomlcore/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewVecDense(4, []float64{3, 5, 7, 9})
//
//	    model := linear.NewLinearRegression()
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(model.GetWeights(), model.GetBias())
//
//	    gd := linear.NewGDLinearRegression(
//	        linear.WithLearningRate(0.05),
//	        linear.WithStochasticSamples(2),
//	        linear.WithRandomState(42),
//	    )
//	    if err := gd.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - linear: LinearRegression, GDLinearRegression, LogisticRegression
//   - tree: DecisionTreeRegressor
//   - cluster: KMeans
//   - optimize: the gradient-descent loop, row sampling and data binding
//   - metrics: MSE, RMSE, MAE, R², accuracy, log-loss, confusion matrix
//   - core/dataset: input validation, synthetic data and CSV export
//   - core/model: estimator interfaces and fitted state
//   - core/random: the seedable random source
//   - core/parallel: index range fan-out
//   - pkg/errors, pkg/log: structured errors, warnings and logging
//
// # Reproducibility
//
// Every estimator that draws random numbers accepts WithRandomState. With a
// non-negative seed, repeated fits on the same data give identical results,
// including k-means runs with WithParallelTrials.
//
// # Logging
//
// Loggers default to JSON lines on stderr at warn level through zerolog.
// Call log.SetupLogger("debug") to route everything through log/slog
// instead, or log.SetLevel to change the threshold. Warnings such as
// ConvergenceWarning go through the same provider.
package gomlcore
