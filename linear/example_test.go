package linear_test

import (
	"fmt"

	"github.com/YuminosukeSato/gomlcore/linear"
	"gonum.org/v1/gonum/mat"
)

func ExampleLinearRegression() {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(4, []float64{3, 5, 7, 9})

	model := linear.NewLinearRegression()
	if err := model.Fit(X, y); err != nil {
		fmt.Println(err)
		return
	}
	pred, _ := model.PredictOne([]float64{10})
	fmt.Printf("w=%.2f b=%.2f f(10)=%.2f\n", model.GetWeights()[0], model.GetBias(), pred)
	// Output: w=2.00 b=1.00 f(10)=21.00
}

func ExampleSigmoid() {
	fmt.Printf("%.4f %.4f\n", linear.Sigmoid(0), linear.Sigmoid(2))
	// Output: 0.5000 0.8808
}
