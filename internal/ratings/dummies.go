package ratings

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OneHot encodes a category column into an N x k indicator matrix. Every
// category must lie in [0, k).
func OneHot(categories []int, k int) (*mat.Dense, error) {
	if k < 1 {
		return nil, fmt.Errorf("ratings: category count must be positive, got %d", k)
	}
	m := mat.NewDense(len(categories), k, nil)
	for i, c := range categories {
		if c < 0 || c >= k {
			return nil, fmt.Errorf("ratings: category %d at row %d outside [0, %d)", c, i, k)
		}
		m.Set(i, c, 1)
	}
	return m, nil
}

// ConstrainedDummies drops the final category column of a one-hot matrix and
// folds its indicator into the retained columns: rows selecting the dropped
// category become all -1. This imposes a sum-to-zero constraint across the
// implied per-category effects, making a categorical regression identifiable
// alongside an intercept.
func ConstrainedDummies(dummies *mat.Dense) (*mat.Dense, error) {
	n, k := dummies.Dims()
	if k < 2 {
		return nil, fmt.Errorf("ratings: constrained encoding needs at least 2 categories, got %d", k)
	}

	out := mat.NewDense(n, k-1, nil)
	for i := 0; i < n; i++ {
		if err := checkOneHotRow(dummies, i, k); err != nil {
			return nil, err
		}
		last := dummies.At(i, k-1)
		for j := 0; j < k-1; j++ {
			out.Set(i, j, dummies.At(i, j)-last)
		}
	}
	return out, nil
}

func checkOneHotRow(dummies *mat.Dense, i, k int) error {
	sum := 0.0
	for j := 0; j < k; j++ {
		v := dummies.At(i, j)
		if v != 0 && v != 1 {
			return fmt.Errorf("ratings: row %d is not a one-hot indicator (entry %v at column %d)", i, v, j)
		}
		sum += v
	}
	if sum != 1 {
		return fmt.Errorf("ratings: row %d is not a one-hot indicator (row sum %v)", i, sum)
	}
	return nil
}
