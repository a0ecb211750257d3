package market

import "testing"

func TestPercentile(t *testing.T) {
	grid := []float64{0.2, 0.4, 0.6, 0.8}
	tests := []struct {
		name   string
		values []float64
		v      float64
		want   float64
	}{
		{"empty grid sits at median", nil, 0.5, 0.5},
		{"below everyone", grid, 0.1, 0},
		{"above everyone", grid, 0.9, 1},
		{"midfield", grid, 0.5, 0.5},
		{"ties do not count as below", grid, 0.4, 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Percentile(tc.values, tc.v); got != tc.want {
				t.Errorf("Percentile = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestSalaryForPercentile(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"floor", 0, 2_000_000},
		{"median", 0.5, 6_500_000},
		{"ceiling", 1, 20_000_000},
		{"clamped below", -0.3, 2_000_000},
		{"clamped above", 1.7, 20_000_000},
		{"rounded to hundred thousand", 0.3, 3_600_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SalaryForPercentile(tc.p); got != tc.want {
				t.Errorf("SalaryForPercentile(%f) = %f, want %f", tc.p, got, tc.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	values := []float64{3, 1, 2}
	got := Rank(values)
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank = %v, want %v", got, want)
		}
	}
	if values[0] != 3 {
		t.Error("Rank mutated its input")
	}
}
