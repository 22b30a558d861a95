package dashboard

import (
	"fmt"

	"mlbvalue-mcp/internal/stats"
	"mlbvalue-mcp/internal/table"
)

// DefaultRegressionMinSample is the number of complete pairs a regression must exceed.
const DefaultRegressionMinSample = 10

// SignificanceLevel is the p-value below which a slope is reported as significant.
const SignificanceLevel = 0.05

// Coefficient is a JSON-safe regression coefficient row.
type Coefficient struct {
	Estimate Num `json:"estimate"`
	StdErr   Num `json:"std_err"`
	T        Num `json:"t"`
	P        Num `json:"p"`
}

// Regression is the full OLS report for Y regressed on X.
type Regression struct {
	X           string      `json:"x"`
	Y           string      `json:"y"`
	N           int         `json:"n"`
	DF          int         `json:"df_residual"`
	Intercept   Coefficient `json:"intercept"`
	Slope       Coefficient `json:"slope"`
	RSquared    Num         `json:"r_squared"`
	AdjRSquared Num         `json:"adj_r_squared"`
	F           Num         `json:"f_statistic"`
	Correlation Num         `json:"correlation"`
	Significant bool        `json:"significant"`

	// Points are the complete (x, y) pairs the model was fitted on.
	Points [][2]float64 `json:"-"`
}

func coefficient(c stats.Coefficient) Coefficient {
	return Coefficient{Estimate: Num(c.Estimate), StdErr: Num(c.StdErr), T: Num(c.T), P: Num(c.P)}
}

// BuildRegression fits y on x over the records where both are present. It fails with
// stats.ErrInsufficientData unless more than minSample complete pairs exist.
func BuildRegression(t *table.Table, x, y string, minSample int) (*Regression, error) {
	if err := numericColumn(t, x); err != nil {
		return nil, err
	}
	if err := numericColumn(t, y); err != nil {
		return nil, err
	}
	if minSample <= 0 {
		minSample = DefaultRegressionMinSample
	}

	xs, _ := t.Column(x)
	ys, _ := t.Column(y)
	px, py := stats.Pairs(xs, ys)
	if len(px) <= minSample {
		return nil, fmt.Errorf("%w: %d complete %s/%s pairs, need more than %d",
			stats.ErrInsufficientData, len(px), x, y, minSample)
	}

	res, err := stats.FullOLS(px, py)
	if err != nil {
		return nil, fmt.Errorf("regression of %s on %s: %w", y, x, err)
	}
	out := &Regression{
		X: x, Y: y, N: res.N, DF: res.DF,
		Intercept:   coefficient(res.Intercept),
		Slope:       coefficient(res.Slope),
		RSquared:    Num(res.RSquared),
		AdjRSquared: Num(res.AdjRSquared),
		F:           Num(res.F),
		Correlation: Num(stats.Pearson(px, py)),
		Significant: res.Slope.P < SignificanceLevel,
	}
	out.Points = make([][2]float64, len(px))
	for i := range px {
		out.Points[i] = [2]float64{px[i], py[i]}
	}
	return out, nil
}
