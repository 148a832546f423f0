package grainvalue

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// semiAxes fits the equivalent ellipse to a grain's pixel distribution:
// the eigenvectors of the position covariance matrix give the axis
// directions, and the eigenvalues give the unscaled semi-axis lengths of
// the ellipse with the same second moments as the grain. Those lengths
// are then rescaled so the ellipse's area matches the grain's actual
// projected area, per grain-value-builtin.c's semi-axis formulas.
func semiAxes(g *intermediates, area float64) (major, minor, angle float64) {
	if g.size == 0 {
		return 0, 0, 0
	}
	n := float64(g.size)
	cx, cy := g.sumX/n, g.sumY/n
	ixx := g.sumX2/n - cx*cx
	ixy := g.sumXY/n - cx*cy
	iyy := g.sumY2/n - cy*cy

	sym := mat.NewSymDense(2, []float64{ixx, ixy, ixy, iyy})
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return 0, 0, 0
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// gonum returns eigenvalues ascending; index 1 is the larger (major axis).
	lambdaMajor, lambdaMinor := values[1], values[0]
	majorIdx := 1
	if lambdaMajor < 0 {
		lambdaMajor = 0
	}
	if lambdaMinor < 0 {
		lambdaMinor = 0
	}
	a0, b0 := 2*math.Sqrt(lambdaMajor), 2*math.Sqrt(lambdaMinor)
	if a0 <= 0 || b0 <= 0 || area <= 0 {
		return 0, 0, 0
	}
	k := math.Sqrt(area / (math.Pi * a0 * b0))
	major, minor = k*a0, k*b0
	angle = math.Atan2(vectors.At(1, majorIdx), vectors.At(0, majorIdx))
	return major, minor, angle
}
