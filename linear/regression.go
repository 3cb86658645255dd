// Package linear は線形回帰とロジスティック回帰を提供する。
//
// LinearRegression は正規方程式を解析的に解き、GDLinearRegression と
// LogisticRegression は optimize パッケージの勾配降下ループで学習する。
package linear

import (
	"time"

	"github.com/YuminosukeSato/gomlcore/core/dataset"
	"github.com/YuminosukeSato/gomlcore/core/model"
	"github.com/YuminosukeSato/gomlcore/core/parallel"
	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/YuminosukeSato/gomlcore/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// 中心化を並列化する行数の閾値
const parallelThreshold = 1000

// LinearRegression は正規方程式による線形回帰モデル
type LinearRegression struct {
	state   *model.StateManager
	logger  log.Logger
	weights []float64 // 重み（係数）
	bias    float64   // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する。
// 解析解には反復がないため、WithLogger 以外のオプションは使われない。
func NewLinearRegression(opts ...Option) *LinearRegression {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("linear")
	}
	return &LinearRegression{
		state:  model.NewStateManager("LinearRegression"),
		logger: logger.With(log.ModelNameKey, "LinearRegression", log.ComponentKey, "linear"),
	}
}

// Fit はモデルを訓練データで学習させる。
//
// 中心化行列 U = I - J/m を明示的に作らず、列平均を引いた Xc = UX を使って
// w = (XcᵀXc)⁻¹ Xcᵀy を解き、切片を b = mean(y - Xw) とする。
// XcᵀXc が特異な場合（行数が列数以下の場合を含む）は ErrSingularMatrix を返す。
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	const op = "LinearRegression.Fit"
	defer errors.Recover(&err, op)

	lr.state.Reset()
	lr.weights, lr.bias = nil, 0
	rows, cols, err := dataset.CheckMatrix(op, X)
	if err != nil {
		return err
	}
	yv, err := dataset.TargetVector(op, y, rows)
	if err != nil {
		return err
	}

	start := time.Now()
	lr.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)

	// 中心化後の階数は rows-1 以下
	if rows <= cols {
		return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}

	// 列平均
	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, X)
		means[j] = stat.Mean(col, nil)
	}

	// Xc = UX
	Xc := mat.DenseCopyOf(X)
	parallel.RangeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			floats.Sub(Xc.RawRowView(i), means)
		}
	})

	var xtx mat.Dense
	xtx.Mul(Xc.T(), Xc)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		lr.logger.Error("Training failed", err, log.ErrorCodeKey, log.ErrorSingularMatrix)
		return errors.NewModelError(op, "singular matrix", errors.ErrSingularMatrix)
	}

	var xty mat.VecDense
	xty.MulVec(Xc.T(), mat.NewVecDense(rows, yv))

	w := mat.NewVecDense(cols, nil)
	w.MulVec(&inv, &xty)

	// b = mean(y - Xw)
	var xw mat.VecDense
	xw.MulVec(X, w)
	residual := make([]float64, rows)
	floats.SubTo(residual, yv, xw.RawVector().Data)

	lr.weights = mat.Col(nil, 0, w)
	lr.bias = stat.Mean(residual, nil)
	lr.state.SetFitted(cols, rows)

	lr.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は入力データに対する予測を n×1 行列で返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := checkInput(lr.state, "Predict", X); err != nil {
		return nil, err
	}
	return linearPredict(X, lr.weights, lr.bias), nil
}

// PredictOne は1行分の予測を返す
func (lr *LinearRegression) PredictOne(x []float64) (float64, error) {
	return dotRow(lr.state, "PredictOne", x, lr.weights, lr.bias)
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if err := checkInput(lr.state, "Score", X); err != nil {
		return 0, err
	}
	return r2("LinearRegression.Score", linearPredict(X, lr.weights, lr.bias), y)
}

// GetWeights は学習された重みのコピーを返す
func (lr *LinearRegression) GetWeights() []float64 {
	if !lr.state.IsFitted() {
		return nil
	}
	return append([]float64(nil), lr.weights...)
}

// GetBias は学習された切片を返す
func (lr *LinearRegression) GetBias() float64 {
	if !lr.state.IsFitted() {
		return 0
	}
	return lr.bias
}

// IsFitted は学習済みかどうかを返す
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

var _ model.LinearModel = (*LinearRegression)(nil)
