package ratings

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// gaussianCurvePoints is the sample count for plotted density curves.
const gaussianCurvePoints = 100

// GaussianCurve samples the normal density at evenly spaced points spanning
// mean ± 5 sigma, for plotting fitted rating uncertainty.
func GaussianCurve(mean, sigma float64) (xs, densities []float64, err error) {
	if sigma <= 0 {
		return nil, nil, fmt.Errorf("ratings: sigma must be positive, got %v", sigma)
	}

	dist := distuv.Normal{Mu: mean, Sigma: sigma}
	xs = make([]float64, gaussianCurvePoints)
	densities = make([]float64, gaussianCurvePoints)

	lo := mean - 5*sigma
	step := 10 * sigma / float64(gaussianCurvePoints-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
		densities[i] = dist.Prob(xs[i])
	}
	return xs, densities, nil
}
