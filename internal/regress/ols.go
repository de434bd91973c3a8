package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sethah/ratingsim/internal/ratings"
)

// confidenceLevel is the two-sided coverage of reported intervals.
const confidenceLevel = 0.95

// FitResult holds an ordinary least squares fit. It satisfies
// ratings.RegressionResult.
type FitResult struct {
	params   []float64
	cov      *mat.SymDense
	conf     []ratings.Interval
	residVar float64
	dof      int
}

// Params returns the fitted parameter vector.
func (r *FitResult) Params() []float64 {
	return r.params
}

// CovParams returns the parameter covariance matrix.
func (r *FitResult) CovParams() mat.Symmetric {
	return r.cov
}

// ConfInt returns the per-parameter 95% confidence intervals, Student-t based
// on the residual degrees of freedom.
func (r *FitResult) ConfInt() []ratings.Interval {
	return r.conf
}

// ResidualVariance returns the unbiased residual variance estimate.
func (r *FitResult) ResidualVariance() float64 {
	return r.residVar
}

// DegreesOfFreedom returns the residual degrees of freedom.
func (r *FitResult) DegreesOfFreedom() int {
	return r.dof
}

// FitOLS solves y = X·β by least squares via QR factorization and derives the
// parameter covariance σ²(XᵀX)⁻¹ and confidence intervals. X must have more
// rows than columns and full column rank.
func FitOLS(x mat.Matrix, y []float64) (*FitResult, error) {
	n, p := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("regress: response length %d does not match %d design rows", len(y), n)
	}
	if n <= p {
		return nil, fmt.Errorf("regress: need more observations than parameters (%d rows, %d columns)", n, p)
	}

	yVec := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, fmt.Errorf("regress: design matrix is rank deficient: %w", err)
	}

	// Residual variance from the unexplained sum of squares.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}
	dof := n - p
	residVar := rss / float64(dof)

	cov, err := paramCovariance(x, residVar, p)
	if err != nil {
		return nil, err
	}

	params := make([]float64, p)
	for j := 0; j < p; j++ {
		params[j] = beta.AtVec(j)
	}

	tCrit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}.Quantile(0.5 + confidenceLevel/2)
	conf := make([]ratings.Interval, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(cov.At(j, j))
		conf[j] = ratings.Interval{
			Lower: params[j] - tCrit*se,
			Upper: params[j] + tCrit*se,
		}
	}

	return &FitResult{
		params:   params,
		cov:      cov,
		conf:     conf,
		residVar: residVar,
		dof:      dof,
	}, nil
}

func paramCovariance(x mat.Matrix, residVar float64, p int) (*mat.SymDense, error) {
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("regress: normal matrix is singular: %w", err)
	}

	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			// Symmetrize: inversion can leave tiny asymmetries.
			cov.SetSym(i, j, residVar*(inv.At(i, j)+inv.At(j, i))/2)
		}
	}
	return cov, nil
}

// Fit runs the full estimation for a feature table: design assembly followed
// by the OLS solve.
func Fit(f *ratings.FeatureTable, k int) (*FitResult, error) {
	x, y, err := Design(f, k)
	if err != nil {
		return nil, err
	}
	return FitOLS(x, y)
}
