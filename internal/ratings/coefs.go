package ratings

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// zCritical95 is the two-sided normal critical value for a 95% interval.
const zCritical95 = 1.96

// RegressionResult is the slice of a fitted linear model the extractor
// consumes. Parameters, their covariance, and their confidence intervals must
// share the ordering {off[0..k-2], def[0..k-2], home, intercept}; the
// extractor validates the length but cannot detect a silent reordering.
type RegressionResult interface {
	Params() []float64
	CovParams() mat.Symmetric
	ConfInt() []Interval
}

// Interval is a two-sided confidence interval.
type Interval struct {
	Lower float64
	Upper float64
}

// CoefficientValues holds one scalar per model term: a per-team value for the
// offensive and defensive effects plus the two global terms.
type CoefficientValues struct {
	Off       []float64
	Def       []float64
	Home      float64
	Intercept float64
}

// CoefficientIntervals holds a confidence interval per model term.
type CoefficientIntervals struct {
	Off       []Interval
	Def       []Interval
	Home      Interval
	Intercept Interval
}

// CoefficientSummary is the interpretable form of a fitted ratings model:
// point estimates, standard errors, and 95% confidence intervals for all k
// offensive and defensive effects, the home advantage, and the intercept.
type CoefficientSummary struct {
	Coefs CoefficientValues
	Stds  CoefficientValues
	CI    CoefficientIntervals
}

// ExtractCoefficients recovers the full k-team coefficient summary from a fit
// on constrained dummies. The model estimates only k-1 effects per side; the
// k-th is the negated sum of the others, its standard error comes from the
// variance of that sum (the full covariance block, not just its diagonal),
// and its interval is the normal approximation ± 1.96 standard errors.
func ExtractCoefficients(res RegressionResult, k int) (*CoefficientSummary, error) {
	if k < 2 {
		return nil, fmt.Errorf("ratings: coefficient extraction needs at least 2 teams, got %d", k)
	}

	params := res.Params()
	wantParams := 2*(k-1) + 2
	if len(params) != wantParams {
		return nil, fmt.Errorf("ratings: expected %d parameters for %d teams (off, def, home, intercept), got %d", wantParams, k, len(params))
	}
	cov := res.CovParams()
	if n := cov.SymmetricDim(); n != wantParams {
		return nil, fmt.Errorf("ratings: covariance dimension %d does not match %d parameters", n, wantParams)
	}
	conf := res.ConfInt()
	if len(conf) != wantParams {
		return nil, fmt.Errorf("ratings: expected %d confidence intervals, got %d", wantParams, len(conf))
	}

	summary := &CoefficientSummary{
		Coefs: CoefficientValues{
			Off:       recoverEffects(params[:k-1]),
			Def:       recoverEffects(params[k-1 : 2*(k-1)]),
			Home:      params[wantParams-2],
			Intercept: params[wantParams-1],
		},
		Stds: CoefficientValues{
			Off:       recoverStds(cov, 0, k-1),
			Def:       recoverStds(cov, k-1, k-1),
			Home:      math.Sqrt(cov.At(wantParams-2, wantParams-2)),
			Intercept: math.Sqrt(cov.At(wantParams-1, wantParams-1)),
		},
	}
	summary.CI = CoefficientIntervals{
		Off:       recoverIntervals(conf[:k-1], summary.Coefs.Off[k-1], summary.Stds.Off[k-1]),
		Def:       recoverIntervals(conf[k-1:2*(k-1)], summary.Coefs.Def[k-1], summary.Stds.Def[k-1]),
		Home:      conf[wantParams-2],
		Intercept: conf[wantParams-1],
	}
	return summary, nil
}

// recoverEffects appends the k-th effect implied by the sum-to-zero
// constraint: the negated sum of the k-1 estimated effects.
func recoverEffects(estimated []float64) []float64 {
	effects := make([]float64, 0, len(estimated)+1)
	sum := 0.0
	for _, e := range estimated {
		effects = append(effects, e)
		sum += e
	}
	return append(effects, -sum)
}

// recoverStds reads the standard errors for one effect block starting at
// offset, deriving the k-th from Var(-Σβ) = ΣᵢΣⱼ Cov(βᵢ, βⱼ).
func recoverStds(cov mat.Symmetric, offset, size int) []float64 {
	stds := make([]float64, 0, size+1)
	blockSum := 0.0
	for i := 0; i < size; i++ {
		stds = append(stds, math.Sqrt(cov.At(offset+i, offset+i)))
		for j := 0; j < size; j++ {
			blockSum += cov.At(offset+i, offset+j)
		}
	}
	return append(stds, math.Sqrt(blockSum))
}

// recoverIntervals copies the model's native intervals for the estimated
// effects and closes the block with a normal-approximation interval for the
// recovered k-th effect.
func recoverIntervals(native []Interval, coef, std float64) []Interval {
	intervals := make([]Interval, 0, len(native)+1)
	intervals = append(intervals, native...)
	return append(intervals, Interval{
		Lower: coef - zCritical95*std,
		Upper: coef + zCritical95*std,
	})
}
