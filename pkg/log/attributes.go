package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "KMeans".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: "fit", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey is the package doing the work, e.g. "linear" or "optimize".
	ComponentKey = "ml.component"

	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	BatchSizeKey = "data.batch_size"
)

// Performance and training progress.
const (
	DurationMsKey = "perf.duration_ms"

	// IterationKey is the optimizer or Lloyd iteration counter.
	IterationKey = "training.iteration"

	// TrialKey is the k-means restart index.
	TrialKey = "training.trial"

	// MaxIncrementKey is the largest absolute parameter increment of an
	// optimizer step, the quantity compared against the tolerance.
	MaxIncrementKey = "training.max_increment"

	ConvergedKey = "training.converged"

	LossKey     = "metrics.loss"
	R2ScoreKey  = "metrics.r2_score"
	AccuracyKey = "metrics.accuracy"
	ScoreKey    = "metrics.score"
)

// Model structure.
const (
	NodesKey    = "tree.nodes"
	LeavesKey   = "tree.leaves"
	DepthKey    = "tree.depth"
	ClustersKey = "cluster.count"
)

// Errors and warnings.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Hyper-parameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	ToleranceKey    = "hyperparams.tolerance"
	MaxIterKey      = "hyperparams.max_iterations"
	RandomSeedKey   = "config.random_seed"
)

// Standard values for the keys above.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
