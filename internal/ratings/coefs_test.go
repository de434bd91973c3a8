package ratings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fakeResult struct {
	params []float64
	cov    *mat.SymDense
	conf   []Interval
}

func (f *fakeResult) Params() []float64        { return f.params }
func (f *fakeResult) CovParams() mat.Symmetric { return f.cov }
func (f *fakeResult) ConfInt() []Interval      { return f.conf }

// threeTeamResult builds a fit result for k=3: parameters ordered
// {off0, off1, def0, def1, home, intercept}.
func threeTeamResult() *fakeResult {
	cov := mat.NewSymDense(6, nil)
	cov.SetSym(0, 0, 0.04)
	cov.SetSym(1, 1, 0.09)
	cov.SetSym(0, 1, 0.01)
	cov.SetSym(2, 2, 0.01)
	cov.SetSym(3, 3, 0.04)
	cov.SetSym(2, 3, -0.005)
	cov.SetSym(4, 4, 0.25)
	cov.SetSym(5, 5, 1.0)

	conf := make([]Interval, 6)
	for i := range conf {
		conf[i] = Interval{Lower: float64(i), Upper: float64(i) + 1}
	}

	return &fakeResult{
		params: []float64{1, 2, -0.5, 1.5, 0.8, 20},
		cov:    cov,
		conf:   conf,
	}
}

func TestExtractCoefficientsRecoversLastEffect(t *testing.T) {
	summary, err := ExtractCoefficients(threeTeamResult(), 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, -3}, summary.Coefs.Off)
	assert.Equal(t, []float64{-0.5, 1.5, -1}, summary.Coefs.Def)
	assert.Equal(t, 0.8, summary.Coefs.Home)
	assert.Equal(t, 20.0, summary.Coefs.Intercept)
}

func TestExtractCoefficientsSumToZeroInvariant(t *testing.T) {
	summary, err := ExtractCoefficients(threeTeamResult(), 3)
	require.NoError(t, err)

	sumOff, sumDef := 0.0, 0.0
	for i := 0; i < 3; i++ {
		sumOff += summary.Coefs.Off[i]
		sumDef += summary.Coefs.Def[i]
	}
	assert.Equal(t, 0.0, sumOff)
	assert.Equal(t, 0.0, sumDef)
}

func TestExtractCoefficientsStandardErrors(t *testing.T) {
	summary, err := ExtractCoefficients(threeTeamResult(), 3)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, summary.Stds.Off[0], 1e-12)
	assert.InDelta(t, 0.3, summary.Stds.Off[1], 1e-12)
	// Variance of the recovered effect is the sum of the whole covariance
	// block: 0.04 + 0.09 + 2*0.01.
	assert.InDelta(t, math.Sqrt(0.15), summary.Stds.Off[2], 1e-12)

	// Defensive block: 0.01 + 0.04 + 2*(-0.005).
	assert.InDelta(t, math.Sqrt(0.04), summary.Stds.Def[2], 1e-12)

	assert.InDelta(t, 0.5, summary.Stds.Home, 1e-12)
	assert.InDelta(t, 1.0, summary.Stds.Intercept, 1e-12)
}

func TestExtractCoefficientsConfidenceIntervals(t *testing.T) {
	summary, err := ExtractCoefficients(threeTeamResult(), 3)
	require.NoError(t, err)

	// Native intervals pass through for the directly estimated effects.
	assert.Equal(t, Interval{Lower: 0, Upper: 1}, summary.CI.Off[0])
	assert.Equal(t, Interval{Lower: 1, Upper: 2}, summary.CI.Off[1])
	assert.Equal(t, Interval{Lower: 2, Upper: 3}, summary.CI.Def[0])
	assert.Equal(t, Interval{Lower: 4, Upper: 5}, summary.CI.Home)
	assert.Equal(t, Interval{Lower: 5, Upper: 6}, summary.CI.Intercept)

	// The recovered effect gets a normal-approximation interval.
	std := math.Sqrt(0.15)
	assert.InDelta(t, -3-1.96*std, summary.CI.Off[2].Lower, 1e-12)
	assert.InDelta(t, -3+1.96*std, summary.CI.Off[2].Upper, 1e-12)
}

func TestExtractCoefficientsValidatesLayout(t *testing.T) {
	res := threeTeamResult()

	_, err := ExtractCoefficients(res, 1)
	assert.Error(t, err, "fewer than 2 teams")

	_, err = ExtractCoefficients(res, 4)
	assert.Error(t, err, "parameter count does not match team count")

	short := &fakeResult{params: res.params[:5], cov: res.cov, conf: res.conf}
	_, err = ExtractCoefficients(short, 3)
	assert.Error(t, err, "truncated parameter vector")

	badCov := &fakeResult{params: res.params, cov: mat.NewSymDense(5, nil), conf: res.conf}
	_, err = ExtractCoefficients(badCov, 3)
	assert.Error(t, err, "covariance dimension mismatch")

	badConf := &fakeResult{params: res.params, cov: res.cov, conf: res.conf[:4]}
	_, err = ExtractCoefficients(badConf, 3)
	assert.Error(t, err, "confidence interval count mismatch")
}
