package embedding

import (
	"math"
	"math/rand/v2"
	"testing"
)

const tol = 1e-6

func near(a, b float64) bool { return math.Abs(a-b) < tol }

func randVec(r *rand.Rand, dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = r.NormFloat64()
	}
	return v
}

func TestNormalize_UnitAndIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, dim := range []int{1, 2, 3, 128, 512} {
		for i := 0; i < 20; i++ {
			v := randVec(r, dim)
			n1 := Normalize(v)
			if !near(Norm(n1), 1) {
				t.Fatalf("dim %d: |normalize(v)| = %v", dim, Norm(n1))
			}
			n2 := Normalize(n1)
			for j := range n1 {
				if !near(n1[j], n2[j]) {
					t.Fatalf("dim %d: normalize not idempotent at %d: %v vs %v", dim, j, n1[j], n2[j])
				}
			}
		}
	}
}

func TestNormalize_ZeroAndNoMutation(t *testing.T) {
	z := []float64{0, 0, 0}
	out := Normalize(z)
	for _, x := range out {
		if x != 0 || math.IsNaN(x) {
			t.Fatalf("zero vector should stay zero, got %v", out)
		}
	}
	v := []float64{3, 4}
	_ = Normalize(v)
	if v[0] != 3 || v[1] != 4 {
		t.Fatalf("input mutated: %v", v)
	}
}

func TestSimilarity(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	c := Normalize(v)
	if s := Similarity([]float64{2, 4, 6, 8}, c); !near(s, 1) {
		t.Fatalf("same direction similarity = %v", s)
	}
	if s := Similarity([]float64{-1, -2, -3, -4}, c); !near(s, -1) {
		t.Fatalf("opposite direction similarity = %v", s)
	}
	if s := Similarity([]float64{0, 1}, Normalize([]float64{1, 0})); !near(s, 0) {
		t.Fatalf("orthogonal similarity = %v", s)
	}
}

func TestSimilarity_DimensionMismatch(t *testing.T) {
	c := Normalize([]float64{1, 0, 0})
	for _, live := range [][]float64{{1, 0}, {1, 0, 0, 0}, nil} {
		s := Similarity(live, c)
		if !math.IsNaN(s) {
			t.Fatalf("len %d vs %d: want NaN, got %v", len(live), len(c), s)
		}
		if Decide(s, DefaultThreshold) {
			t.Fatalf("len %d: mismatched dimensions must not authorize", len(live))
		}
	}
}

func TestDecide_Monotonic(t *testing.T) {
	prev := false
	for s := -1.0; s <= 1.0; s += 0.01 {
		got := Decide(s, DefaultThreshold)
		if prev && !got {
			t.Fatalf("decide not monotonic at %v", s)
		}
		prev = got
	}
	if !Decide(DefaultThreshold, DefaultThreshold) {
		t.Fatalf("threshold itself must authorize")
	}
	if Decide(math.Nextafter(DefaultThreshold, 0), DefaultThreshold) {
		t.Fatalf("just below threshold must not authorize")
	}
}

func TestCentroid_SameDirection128(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	dir := Normalize(randVec(r, 128))
	samples := make([][]float64, 10)
	for i := range samples {
		scale := 0.5 + float64(i)
		s := make([]float64, 128)
		for j := range dir {
			s[j] = dir[j] * scale
		}
		samples[i] = s
	}
	c, err := Centroid(samples)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	if !near(Norm(c), 1) {
		t.Fatalf("centroid not unit: %v", Norm(c))
	}
	for j := range dir {
		if math.Abs(c[j]-dir[j]) > tol {
			t.Fatalf("centroid drifted at %d: %v vs %v", j, c[j], dir[j])
		}
	}
}

func TestCentroid_Errors(t *testing.T) {
	if _, err := Centroid(nil); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := Centroid([][]float64{{1, 0}, {1}}); err == nil {
		t.Fatalf("expected ragged error")
	}
	if _, err := Centroid([][]float64{{}}); err == nil {
		t.Fatalf("expected zero-length error")
	}
}
