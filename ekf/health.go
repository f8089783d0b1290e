package ekf

import (
	"errors"

	"github.com/skelterjohn/go.matrix"
	"gonum.org/v1/gonum/mat"
)

// Covariance validation used by tests and offline tuning.  These run full
// eigendecompositions and are far too slow for the fusion cycle itself; the
// hot path relies on the per-axis variance guard in measurementUpdate.

// CovarianceAsymmetry returns the largest |P(i,j) - P(j,i)|.
func CovarianceAsymmetry(P *matrix.DenseMatrix) float64 {
	n := P.Rows()
	worst := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := P.Get(i, j) - P.Get(j, i)
			if d < 0 {
				d = -d
			}
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}

// CovarianceTrace returns the sum of the state variances.
func CovarianceTrace(P *matrix.DenseMatrix) float64 {
	t := 0.0
	for i := 0; i < P.Rows(); i++ {
		t += P.Get(i, i)
	}
	return t
}

// MinCovarianceEigenvalue returns the smallest eigenvalue of the
// symmetrized covariance.
func MinCovarianceEigenvalue(P *matrix.DenseMatrix) (float64, error) {
	n := P.Rows()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(P.Get(i, j)+P.Get(j, i)))
		}
	}

	var es mat.EigenSym
	if !es.Factorize(sym, false) {
		return 0, errors.New("covariance eigendecomposition failed")
	}
	vals := es.Values(nil)
	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// CovarianceHealthy reports whether the covariance is symmetric and at least
// approximately positive semi-definite, within tolerance tol.
func CovarianceHealthy(P *matrix.DenseMatrix, tol float64) bool {
	if CovarianceAsymmetry(P) > tol {
		return false
	}
	min, err := MinCovarianceEigenvalue(P)
	if err != nil {
		return false
	}
	return min > -tol
}
