package tree

import "github.com/YuminosukeSato/gomlcore/pkg/log"

// DefaultMaxLeafSize is the largest node that is not split further.
const DefaultMaxLeafSize = 5

// Option configures a DecisionTreeRegressor.
type Option func(*DecisionTreeRegressor)

// WithMaxLeafSize sets the largest number of training rows a node may hold
// without being split. It must be at least 1.
func WithMaxLeafSize(n int) Option {
	return func(t *DecisionTreeRegressor) {
		t.maxLeafSize = n
	}
}

// WithVerbose logs the fitted tree structure at info level after Fit.
func WithVerbose(verbose bool) Option {
	return func(t *DecisionTreeRegressor) {
		t.verbose = verbose
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(t *DecisionTreeRegressor) {
		t.logger = logger
	}
}
