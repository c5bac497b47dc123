package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSplitCascadesGeometric(t *testing.T) {
	cascades := SplitCascades(1, 100, 3)
	if len(cascades) != 3 {
		t.Fatalf("len = %d, want 3", len(cascades))
	}

	want := [][2]float32{{1, 4.6416}, {4.6416, 21.5443}, {21.5443, 100}}
	for i, c := range cascades {
		if !mgl32.FloatEqualThreshold(c.Near, want[i][0], 1e-3) || !mgl32.FloatEqualThreshold(c.Far, want[i][1], 1e-3) {
			t.Errorf("cascade %d = [%v, %v], want [%v, %v]", i, c.Near, c.Far, want[i][0], want[i][1])
		}
	}
}

func TestSplitCascadesCoverage(t *testing.T) {
	tests := []struct {
		name      string
		near, far float32
		n         int
	}{
		{"single", 0.1, 50, 1},
		{"three", 0.05, 100, 3},
		{"four", 0.5, 1000, 4},
		{"many", 1, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cascades := SplitCascades(tt.near, tt.far, tt.n)
			if len(cascades) != tt.n {
				t.Fatalf("len = %d, want %d", len(cascades), tt.n)
			}
			if cascades[0].Near != tt.near {
				t.Errorf("first near = %v, want %v", cascades[0].Near, tt.near)
			}
			if cascades[tt.n-1].Far != tt.far {
				t.Errorf("last far = %v, want %v", cascades[tt.n-1].Far, tt.far)
			}
			for i := 0; i < tt.n-1; i++ {
				if cascades[i].Far != cascades[i+1].Near {
					t.Errorf("gap between %d and %d: %v != %v", i, i+1, cascades[i].Far, cascades[i+1].Near)
				}
			}
			for i, c := range cascades {
				if !(c.Near < c.Far) {
					t.Errorf("cascade %d not increasing: [%v, %v]", i, c.Near, c.Far)
				}
			}
		})
	}
}

func TestSplitCascadesWidthsGrow(t *testing.T) {
	cascades := SplitCascades(0.1, 200, 4)
	for i := 1; i < len(cascades); i++ {
		prev := cascades[i-1].Far - cascades[i-1].Near
		cur := cascades[i].Far - cascades[i].Near
		if cur <= prev {
			t.Errorf("cascade %d width %v not greater than cascade %d width %v", i, cur, i-1, prev)
		}
	}
}

func TestSplitCascadesInvalid(t *testing.T) {
	tests := []struct {
		name      string
		near, far float32
		n         int
	}{
		{"zero near", 0, 10, 3},
		{"negative near", -1, 10, 3},
		{"far equals near", 5, 5, 3},
		{"far below near", 10, 1, 3},
		{"zero cascades", 1, 10, 0},
	}
	for _, tt := range tests {
		if got := SplitCascades(tt.near, tt.far, tt.n); got != nil {
			t.Errorf("%s: got %v, want nil", tt.name, got)
		}
	}
}

func TestSelectCascade(t *testing.T) {
	cascades := SplitCascades(1, 100, 3)

	tests := []struct {
		depth float32
		want  int
	}{
		{1, 0},
		{2, 0},
		{cascades[0].Far, 1},
		{10, 1},
		{cascades[1].Far, 2},
		{99.9, 2},
		{100, 2},
		{500, 2},
	}
	for _, tt := range tests {
		if got := SelectCascade(cascades, tt.depth); got != tt.want {
			t.Errorf("SelectCascade(%v) = %d, want %d", tt.depth, got, tt.want)
		}
	}

	if got := SelectCascade(nil, 1); got != -1 {
		t.Errorf("SelectCascade(nil) = %d, want -1", got)
	}
}
