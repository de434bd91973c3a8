package regress

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/sethah/ratingsim/internal/ratings"
)

func TestDesignLayout(t *testing.T) {
	f := &ratings.FeatureTable{
		OffTeam: []int{0, 2},
		DefTeam: []int{2, 0},
		Home:    []float64{1, -1},
		Score:   []float64{10, 7},
	}

	x, y, err := Design(f, 3)
	if err != nil {
		t.Fatalf("Design failed: %v", err)
	}

	n, p := x.Dims()
	if n != 2 || p != 6 {
		t.Fatalf("expected 2x6 design, got %dx%d", n, p)
	}

	// Columns: off0, off1, def0, def1, home, intercept.
	want := mat.NewDense(2, 6, []float64{
		1, 0, -1, -1, 1, 1,
		-1, -1, 1, 0, -1, 1,
	})
	if !mat.Equal(x, want) {
		t.Fatalf("Design = %v, want %v", mat.Formatted(x), mat.Formatted(want))
	}

	if y[0] != 10 || y[1] != 7 {
		t.Fatalf("response = %v, want [10 7]", y)
	}
}

func TestDesignValidation(t *testing.T) {
	f := &ratings.FeatureTable{
		OffTeam: []int{0},
		DefTeam: []int{1},
		Home:    []float64{1},
		Score:   []float64{10},
	}

	if _, _, err := Design(f, 1); err == nil {
		t.Fatal("expected error for fewer than 2 teams")
	}

	ragged := &ratings.FeatureTable{
		OffTeam: []int{0, 1},
		DefTeam: []int{1},
		Home:    []float64{1, -1},
		Score:   []float64{10, 7},
	}
	if _, _, err := Design(ragged, 2); err == nil {
		t.Fatal("expected error for ragged feature table")
	}

	outOfRange := &ratings.FeatureTable{
		OffTeam: []int{5},
		DefTeam: []int{0},
		Home:    []float64{1},
		Score:   []float64{10},
	}
	if _, _, err := Design(outOfRange, 2); err == nil {
		t.Fatal("expected error for out-of-range team")
	}
}
