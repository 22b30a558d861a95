package stats

import "testing"

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		min    float64
		max    float64
	}{
		{"EqualSalaries", []float64{5, 5, 5, 5}, 0, 1e-12},
		{"Empty", nil, 0, 0},
		{"IgnoresNonPositive", []float64{0, -3, 4, 4}, 0, 1e-12},
		{"TwoValues", []float64{1, 3}, 0.25, 0.25 + 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gini(tt.values)
			if got < tt.min || got > tt.max {
				t.Errorf("Gini() = %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestGini_Concentrated(t *testing.T) {
	// One holder owns 99% of a 100-player payroll.
	values := make([]float64, 100)
	for i := range values {
		values[i] = 1.0 / 99
	}
	values[99] = 99
	got := Gini(values)
	if got <= 0.95 {
		t.Errorf("Gini() = %v, want > 0.95", got)
	}
	if !approx(got, 0.98, 0.01) {
		t.Errorf("Gini() = %v, want about 0.98", got)
	}
}

func TestLorenz(t *testing.T) {
	if pts := Lorenz(nil); pts != nil {
		t.Fatalf("Lorenz(nil) = %v, want nil", pts)
	}

	pts := Lorenz([]float64{4, 1, 3, 2})
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5", len(pts))
	}
	if pts[0] != (LorenzPoint{}) {
		t.Errorf("first point = %+v, want origin", pts[0])
	}
	last := pts[len(pts)-1]
	if !approx(last.Population, 1, 1e-12) || !approx(last.Value, 1, 1e-12) {
		t.Errorf("last point = %+v, want (1,1)", last)
	}
	if !approx(pts[1].Value, 0.1, 1e-12) {
		t.Errorf("poorest share = %v, want 0.1", pts[1].Value)
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Value < pts[i-1].Value || pts[i].Value > pts[i].Population+1e-12 {
			t.Errorf("point %d = %+v not monotone below the diagonal", i, pts[i])
		}
	}
}
