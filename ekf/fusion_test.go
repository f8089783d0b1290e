package ekf

import (
	"log"
	"math"
	"testing"
)

// newEval builds an n-axis Evaluation with zeroed gain vectors.
func newEval(n int) *Evaluation {
	ev := &Evaluation{
		Innovation:    make([]float64, n),
		InnovationVar: make([]float64, n),
		Gains:         make([][]float64, n),
	}
	for i := range ev.Gains {
		ev.Gains[i] = make([]float64, StateDim)
	}
	return ev
}

func TestMeasurementUpdateAppliesCorrection(t *testing.T) {
	e := New(DefaultParams())
	K := make([]float64, StateDim)
	K[StateVN] = 0.2
	K[StateVE] = -0.1

	trace0 := CovarianceTrace(e.P)
	if !e.measurementUpdate(K, 2.0, 0.5) {
		t.Fatal("well-conditioned update should succeed")
	}

	if math.Abs(e.x[StateVN]-0.1) > Small || math.Abs(e.x[StateVE]+0.05) > Small {
		t.Errorf("state correction wrong: vn %g ve %g", e.x[StateVN], e.x[StateVE])
	}
	if CovarianceTrace(e.P) >= trace0 {
		t.Error("covariance trace should decrease")
	}
	if CovarianceAsymmetry(e.P) > 0 {
		t.Error("rank-1 correction broke symmetry")
	}
}

func TestMeasurementUpdateRejectsNegativeVariance(t *testing.T) {
	e := New(DefaultParams())
	K := make([]float64, StateDim)
	K[StatePN] = 100 // would drive the position variance negative

	var x0 [StateDim]float64
	e.StateCopy(&x0)
	p0 := copyMatrix(e.P)

	if e.measurementUpdate(K, 10.0, 0.5) {
		t.Fatal("update with negative resulting variance should fail")
	}
	var x1 [StateDim]float64
	e.StateCopy(&x1)
	if x0 != x1 {
		t.Error("failed update mutated the state vector")
	}
	if !matricesEqual(p0, e.P) {
		t.Error("failed update mutated the covariance")
	}
}

// A failing middle axis aborts the remaining axes but leaves the earlier
// corrections applied, and the overall call reports failure.
func TestFuseAxesShortCircuit(t *testing.T) {
	e := New(DefaultParams())
	ev := newEval(3)

	ev.Innovation[0], ev.InnovationVar[0] = 1.0, 2.0
	ev.Gains[0][StateVN] = 0.1 // axis 0: fine

	ev.Innovation[1], ev.InnovationVar[1] = 1.0, 10.0
	ev.Gains[1][StatePN] = 100 // axis 1: fails the variance guard

	ev.Innovation[2], ev.InnovationVar[2] = 1.0, 2.0
	ev.Gains[2][StateVE] = 0.1 // axis 2: must never run

	if e.FuseAxes(ev) {
		t.Fatal("overall fusion should report failure")
	}
	if math.Abs(e.x[StateVN]-0.1) > Small {
		log.Printf("Error: axis 0 correction missing, vn = %g\n", e.x[StateVN])
		t.Fail()
	}
	if e.x[StateVE] != 0 {
		log.Printf("Error: axis 2 ran after the axis 1 failure, ve = %g\n", e.x[StateVE])
		t.Fail()
	}
}

func TestFuseAxesAllSucceed(t *testing.T) {
	e := New(DefaultParams())
	ev := newEval(2)
	for i := range ev.Innovation {
		ev.Innovation[i] = 0.1
		ev.InnovationVar[i] = 1.0
		ev.Gains[i][StateVN+i] = 0.05
	}

	if !e.FuseAxes(ev) {
		t.Fatal("all axes well-conditioned, fusion should succeed")
	}
	if !CovarianceHealthy(e.P, 1e-9) {
		t.Error("covariance unhealthy after sequential fusion")
	}
}

// Each axis must see the covariance as left by the axes before it within
// the same call: fusing the same axis twice shrinks its variance less the
// second time.
func TestSequentialAxesShareCovariance(t *testing.T) {
	e := New(DefaultParams())
	K := make([]float64, StateDim)
	K[StateVN] = 0.3

	p0 := e.P.Get(StateVN, StateVN)
	e.measurementUpdate(K, 1.0, 0)
	p1 := e.P.Get(StateVN, StateVN)
	e.measurementUpdate(K, 1.0, 0)
	p2 := e.P.Get(StateVN, StateVN)

	if !(p0 > p1 && p1 > p2) {
		t.Fatalf("variance not monotonically contracting: %g %g %g", p0, p1, p2)
	}
}
