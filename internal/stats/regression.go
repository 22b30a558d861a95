package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInsufficientData is returned when a regression has no more observations than parameters.
	ErrInsufficientData = errors.New("insufficient data for regression")
	// ErrSingular is returned when the design matrix cannot be inverted.
	ErrSingular = errors.New("design matrix is singular")
)

// olsParams is the number of fitted parameters (intercept and slope).
const olsParams = 2

// SimpleFit is the closed-form least squares line y = Intercept + Slope*x.
type SimpleFit struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	Correlation float64 `json:"correlation"`
	N           int     `json:"n"`
	Degenerate  bool    `json:"degenerate,omitempty"` // x had zero variance; coefficients are zero
}

// Predict evaluates the fitted line.
func (f SimpleFit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// SimpleOLS fits y on x over the pairs where both are finite.
// Zero variance in x (or fewer than two pairs) yields zero coefficients with Degenerate set.
func SimpleOLS(x, y []float64) SimpleFit {
	xs, ys := Pairs(x, y)
	fit := SimpleFit{N: len(xs)}
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		fit.Degenerate = true
		return fit
	}

	fit.Intercept, fit.Slope = stat.LinearRegression(xs, ys, nil, false)
	if stat.Variance(ys, nil) > 0 {
		fit.RSquared = stat.RSquared(xs, ys, nil, fit.Intercept, fit.Slope)
	}
	fit.Correlation = Pearson(xs, ys)
	return fit
}

// Coefficient is one row of a regression coefficient table.
type Coefficient struct {
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	T        float64 `json:"t"`
	P        float64 `json:"p"`
}

// OLSResult carries the inferential statistics of a two-parameter linear model.
type OLSResult struct {
	Intercept   Coefficient `json:"intercept"`
	Slope       Coefficient `json:"slope"`
	RSquared    float64     `json:"r_squared"`
	AdjRSquared float64     `json:"adj_r_squared"`
	F           float64     `json:"f_statistic"`
	N           int         `json:"n"`
	DF          int         `json:"df_residual"`
	Residuals   []float64   `json:"residuals,omitempty"`
}

// FullOLS fits y = b0 + b1*x by β = (XᵀX)⁻¹Xᵀy and reports standard errors, t statistics,
// two-tailed p-values from Student's t with n-2 degrees of freedom, F and (adjusted) R².
// Only pairs where both sides are finite are used. A perfect fit reports zero standard errors,
// infinite t and F, and p = 0 for non-zero coefficients.
func FullOLS(x, y []float64) (*OLSResult, error) {
	xs, ys := Pairs(x, y)
	n := len(xs)
	if n <= olsParams {
		return nil, fmt.Errorf("%w: need more than %d observations, got %d", ErrInsufficientData, olsParams, n)
	}

	design := mat.NewDense(n, olsParams, nil)
	for i, v := range xs {
		design.Set(i, 0, 1)
		design.Set(i, 1, v)
	}
	yv := mat.NewVecDense(n, ys)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), yv)
	var beta mat.VecDense
	beta.MulVec(&xtxInv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	meanY := stat.Mean(ys, nil)
	residuals := make([]float64, n)
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		residuals[i] = ys[i] - fitted.AtVec(i)
		ssRes += residuals[i] * residuals[i]
		d := ys[i] - meanY
		ssTot += d * d
	}

	df := n - olsParams
	res := &OLSResult{N: n, DF: df, Residuals: residuals}
	if ssTot != 0 {
		res.RSquared = 1 - ssRes/ssTot
	}
	res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/float64(df)

	sigma2 := ssRes / float64(df)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	coef := func(i int) Coefficient {
		c := Coefficient{Estimate: beta.AtVec(i)}
		c.StdErr = math.Sqrt(math.Max(0, sigma2*xtxInv.At(i, i)))
		switch {
		case c.StdErr > 0:
			c.T = c.Estimate / c.StdErr
			c.P = 2 * (1 - tDist.CDF(math.Abs(c.T)))
		case c.Estimate == 0:
			c.T, c.P = 0, 1
		default:
			c.T = math.Inf(int(math.Copysign(1, c.Estimate)))
			c.P = 0
		}
		return c
	}
	res.Intercept = coef(0)
	res.Slope = coef(1)

	msr := (ssTot - ssRes) / float64(olsParams-1)
	switch {
	case sigma2 > 0:
		res.F = msr / sigma2
	case msr > 0:
		res.F = math.Inf(1)
	}
	return res, nil
}
