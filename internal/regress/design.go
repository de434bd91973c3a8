// Package regress fits the ratings regression: ordinary least squares over a
// design matrix of constrained team dummies, the home indicator, and an
// intercept.
package regress

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sethah/ratingsim/internal/ratings"
)

// Design assembles the regression design matrix and response for a feature
// table over k teams. Columns are ordered {off[0..k-2], def[0..k-2], home,
// intercept}, the layout ratings.ExtractCoefficients requires.
func Design(f *ratings.FeatureTable, k int) (*mat.Dense, []float64, error) {
	if k < 2 {
		return nil, nil, fmt.Errorf("regress: need at least 2 teams, got %d", k)
	}
	n := f.Len()
	if len(f.DefTeam) != n || len(f.Home) != n || len(f.Score) != n {
		return nil, nil, fmt.Errorf("regress: feature table columns differ in length")
	}

	offDummies, err := ratings.OneHot(f.OffTeam, k)
	if err != nil {
		return nil, nil, fmt.Errorf("regress: offensive dummies: %w", err)
	}
	offCols, err := ratings.ConstrainedDummies(offDummies)
	if err != nil {
		return nil, nil, fmt.Errorf("regress: offensive dummies: %w", err)
	}
	defDummies, err := ratings.OneHot(f.DefTeam, k)
	if err != nil {
		return nil, nil, fmt.Errorf("regress: defensive dummies: %w", err)
	}
	defCols, err := ratings.ConstrainedDummies(defDummies)
	if err != nil {
		return nil, nil, fmt.Errorf("regress: defensive dummies: %w", err)
	}

	p := 2*(k-1) + 2
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < k-1; j++ {
			x.Set(i, j, offCols.At(i, j))
			x.Set(i, k-1+j, defCols.At(i, j))
		}
		x.Set(i, p-2, f.Home[i])
		x.Set(i, p-1, 1)
	}

	y := make([]float64, n)
	copy(y, f.Score)
	return x, y, nil
}
