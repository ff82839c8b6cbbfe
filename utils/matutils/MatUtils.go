// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// RowMean computes and returns the mean of the rows of a matrix
func RowMean(matrix *mat.Dense) *mat.VecDense {
	r, _ := matrix.Dims()
	rowMeans := make([]float64, r)

	for i := 0; i < r; i++ {
		rowMeans[i] = stat.Mean(matrix.RawRowView(i), nil)
	}
	return mat.NewVecDense(r, rowMeans)
}

// RowMax computes and returns the maximum of each row of a matrix
func RowMax(matrix *mat.Dense) *mat.VecDense {
	r, _ := matrix.Dims()
	rowMax := mat.NewVecDense(r, nil)

	for i := 0; i < r; i++ {
		rowMax.SetVec(i, mat.Max(matrix.RowView(i)))
	}
	return rowMax
}
