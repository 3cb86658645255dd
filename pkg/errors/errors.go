// Package errors はgomlcore全体で使うエラー型と警告の仕組みを提供します。
// エラーはすべてcockroachdb/errorsでスタックトレースを付与して返されます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("gomlcore-warning: %v\n", w)
	}
	// pkg/log から登録される（循環importを避けるため関数で受け取る）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを差し替えます。
// nil を渡すと警告は破棄されます。
//
//	errors.SetWarningHandler(func(w error) {
//	    collected = append(collected, w)
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
	zerologWarnFunc = nil
}

// SetZerologWarnFunc は構造化ログ用の警告出力関数を登録します。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerolog出力が登録されていればそちらを優先します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は反復法が最大反復回数までに収束しなかったことを表します。
type ConvergenceWarning struct {
	Algorithm    string
	Iterations   int
	MaxIncrement float64
	Message      string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations (last max increment %.3g). Consider increasing the iteration limit or the learning rate.",
		w.Algorithm, w.Iterations, w.MaxIncrement)
}

// MarshalZerologObject はzerologイベントに警告内容を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Float64("max_increment", w.MaxIncrement).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, maxIncrement float64, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, MaxIncrement: maxIncrement, Message: message}
}

// DegenerateClusterWarning はk-meansの反復中にクラスタが空になったことを表します。
// 重心は最も遠い点で再初期化されます。
type DegenerateClusterWarning struct {
	Cluster   int
	Iteration int
	Trial     int
	ReseedRow int
}

func (w *DegenerateClusterWarning) Error() string {
	return fmt.Sprintf("cluster %d became empty at iteration %d of trial %d; re-seeded with row %d",
		w.Cluster, w.Iteration, w.Trial, w.ReseedRow)
}

// MarshalZerologObject はzerologイベントに警告内容を追加します。
func (w *DegenerateClusterWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("cluster", w.Cluster).
		Int("iteration", w.Iteration).
		Int("trial", w.Trial).
		Int("reseed_row", w.ReseedRow).
		Str("type", "DegenerateClusterWarning")
}

// NewDegenerateClusterWarning は新しいDegenerateClusterWarningを作成します。
func NewDegenerateClusterWarning(cluster, iteration, trial, reseedRow int) *DegenerateClusterWarning {
	return &DegenerateClusterWarning{Cluster: cluster, Iteration: iteration, Trial: trial, ReseedRow: reseedRow}
}

// UndefinedMetricWarning は評価指標が定義できない場合の警告です。
// 陽性予測が一つもないときの適合率など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %g due to %s", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologイベントに警告内容を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化エラー
//
// ===========================================================================

// NotFittedError は学習前のモデルで Predict などを呼んだ場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("gomlcore: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologイベントにエラー内容を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError はスタックトレース付きのNotFittedErrorを返します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力の形状が期待と異なる場合のエラーです。
// Axis は 0 が行（サンプル）、1 が列（特徴量）です。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("gomlcore: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

// MarshalZerologObject はzerologイベントにエラー内容を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError はスタックトレース付きのDimensionErrorを返します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError はハイパーパラメータや入力値の検証失敗を表します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gomlcore: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologイベントにエラー内容を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError はスタックトレース付きのValidationErrorを返します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は関数に渡された値が不正な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("gomlcore: %s: %s", e.Op, e.Message)
}

// NewValueError はスタックトレース付きのValueErrorを返します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError はモデルの学習・推論中に起きた一般的なエラーです。
// Err には ErrEmptyData や ErrSingularMatrix などの原因が入ります。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gomlcore: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gomlcore: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError はスタックトレース付きのModelErrorを返します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は計算中にNaNやInfが現れた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("gomlcore: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologイベントにエラー内容を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError はスタックトレース付きのNumericalInstabilityErrorを返します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values, Iteration: iteration})
}

// ===========================================================================
//
//	cockroachdb/errors のラッパー
//
// ===========================================================================

// Is はエラーチェーンに target が含まれるかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーチェーンから target の型を取り出します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap はメッセージを付けてエラーをラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf はフォーマット済みメッセージでエラーをラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf はフォーマット済みの新しいエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は行数または列数が 0 のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は正規方程式の行列が逆行列を持たない場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
