package model

import "gonum.org/v1/gonum/mat"

// Fitter は教師あり学習モデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データの各行に対する予測を n×1 行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer は評価値を計算できるモデルのインターフェース
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor は回帰モデル
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// LinearModel は重みと切片を持つ線形モデル
type LinearModel interface {
	Regressor
	// GetWeights は学習された重みのコピーを返す
	GetWeights() []float64
	// GetBias は学習された切片を返す
	GetBias() float64
}

// Classifier は二値分類モデル
type Classifier interface {
	LinearModel
	// Probability は各行が陽性である確率を返す
	Probability(X mat.Matrix) (mat.Matrix, error)
	// PredictClass は各行のクラスを返す
	PredictClass(X mat.Matrix) ([]bool, error)
}

// Clusterer は教師なしクラスタリングモデル
type Clusterer interface {
	Fit(X mat.Matrix) error
	// Predict は各行に最も近いクラスタの番号を返す
	Predict(X mat.Matrix) ([]int, error)
}

// ParameterGetter はハイパーパラメータを公開するモデル
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
