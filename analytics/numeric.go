package analytics

import "math"

// linearFit computes the ordinary-least-squares slope and intercept for
// y = slope*x + intercept. Returns ok=false if the x values are degenerate
// (fewer than 2 distinct points).
func linearFit(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	if n < 2 {
		return 0, 0, false
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-9 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}

// quadraticFit fits y = a*x^2 + b*x + c by solving the 3x3 normal-equations
// system via Gaussian elimination. Returns ok=false on a singular/near-
// singular matrix, in which case the caller should fall back to linearFit
// (spec §4.4).
func quadraticFit(xs, ys []float64) (a, b, c float64, ok bool) {
	n := float64(len(xs))
	if n < 3 {
		return 0, 0, 0, false
	}

	var sx, sx2, sx3, sx4, sy, sxy, sx2y float64
	for i := range xs {
		x := xs[i]
		y := ys[i]
		x2 := x * x
		sx += x
		sx2 += x2
		sx3 += x2 * x
		sx4 += x2 * x2
		sy += y
		sxy += x * y
		sx2y += x2 * y
	}

	// Normal equations matrix for [a b c]^T:
	//   [sx4 sx3 sx2] [a]   [sx2y]
	//   [sx3 sx2 sx ] [b] = [sxy ]
	//   [sx2 sx  n  ] [c]   [sy  ]
	m := [3][4]float64{
		{sx4, sx3, sx2, sx2y},
		{sx3, sx2, sx, sxy},
		{sx2, sx, n, sy},
	}

	if !gaussianEliminate(&m) {
		return 0, 0, 0, false
	}
	return m[0][3], m[1][3], m[2][3], true
}

// gaussianEliminate solves a 3x4 augmented matrix in place via Gaussian
// elimination with partial pivoting, leaving the solution in column 3.
// Returns false if the matrix is singular.
func gaussianEliminate(m *[3][4]float64) bool {
	const n = 3
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-9 {
			return false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := m[r][col] / m[col][col]
			for k := col; k < n+1; k++ {
				m[r][k] -= factor * m[col][k]
			}
		}
	}
	for r := 0; r < n; r++ {
		m[r][n] /= m[r][r]
	}
	return true
}
