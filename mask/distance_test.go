package mask_test

import (
	"testing"

	"github.com/gwyproc/gwyfield/mask"
)

func TestDistanceTransformClearPixelsAreZero(t *testing.T) {
	m := mask.New(5, 5)
	m.Fill(nil, true)
	m.Set(2, 2, false)
	dist := m.DistanceTransform()
	if dist[2*5+2] != 0 {
		t.Errorf("dist at clear pixel = %d, want 0", dist[2*5+2])
	}
}

func TestDistanceTransformAxialAndDiagonalNeighbours(t *testing.T) {
	m := mask.New(5, 5)
	m.Fill(nil, true)
	m.Set(2, 2, false)
	dist := m.DistanceTransform()
	// Axial 4-neighbours of the clear pixel are at squared distance 1.
	for _, p := range [][2]int{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if got := dist[p[1]*5+p[0]]; got != 1 {
			t.Errorf("dist at (%d,%d) = %d, want 1", p[0], p[1], got)
		}
	}
	// Diagonal neighbours are at squared distance 2.
	for _, p := range [][2]int{{1, 1}, {3, 1}, {1, 3}, {3, 3}} {
		if got := dist[p[1]*5+p[0]]; got != 2 {
			t.Errorf("dist at (%d,%d) = %d, want 2", p[0], p[1], got)
		}
	}
}

func TestDistanceTransformFieldBorderActsAsClear(t *testing.T) {
	m := mask.New(3, 1)
	m.Fill(nil, true)
	dist := m.DistanceTransform()
	// Every pixel is adjacent to the implicit clear border, so all get 1.
	for c := 0; c < 3; c++ {
		if dist[c] != 1 {
			t.Errorf("dist[%d] = %d, want 1", c, dist[c])
		}
	}
}

func TestDistanceTransformAllClearIsAllZero(t *testing.T) {
	m := mask.New(4, 4)
	dist := m.DistanceTransform()
	for i, d := range dist {
		if d != 0 {
			t.Errorf("dist[%d] = %d, want 0 on all-clear mask", i, d)
		}
	}
}
