package ekf

import (
	"testing"

	"github.com/skelterjohn/go.matrix"
)

func TestCovarianceHealthyOnFreshEstimator(t *testing.T) {
	e := New(DefaultParams())
	if !CovarianceHealthy(e.P, 1e-9) {
		t.Error("fresh covariance should be symmetric positive definite")
	}
	min, err := MinCovarianceEigenvalue(e.P)
	if err != nil {
		t.Fatal(err)
	}
	if min <= 0 {
		t.Errorf("fresh covariance has non-positive eigenvalue %g", min)
	}
}

func TestCovarianceAsymmetryDetected(t *testing.T) {
	p := matrix.Eye(StateDim)
	p.Set(0, 1, 0.5)
	if CovarianceAsymmetry(p) != 0.5 {
		t.Errorf("asymmetry %g, expected 0.5", CovarianceAsymmetry(p))
	}
	if CovarianceHealthy(p, 1e-9) {
		t.Error("asymmetric matrix reported healthy")
	}
}

func TestNegativeEigenvalueDetected(t *testing.T) {
	p := matrix.Eye(StateDim)
	p.Set(2, 2, -1)
	if CovarianceHealthy(p, 1e-9) {
		t.Error("indefinite matrix reported healthy")
	}
}

func TestCovarianceTrace(t *testing.T) {
	p := matrix.Eye(StateDim)
	if CovarianceTrace(p) != StateDim {
		t.Errorf("trace of identity should be %d, got %g", StateDim, CovarianceTrace(p))
	}
}
