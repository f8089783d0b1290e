// Package ekf implements the sequential aiding-source fusion core of a
// navigation Extended Kalman Filter.  Every sensor modality follows the same
// per-cycle protocol: a gate decides whether the source may fuse, a pure
// function computes innovations and Kalman gains against the shared
// covariance, a diagnostic record is populated regardless of the outcome, and
// eligible observations are fused one scalar axis at a time.
package ekf

import (
	"github.com/skelterjohn/go.matrix"
)

// Ekf owns the shared navigation state vector and covariance matrix.  All
// aiding sources mutate them in place, strictly one source at a time in the
// order fixed by the registry.
type Ekf struct {
	Params Params
	Flags  ControlFlags

	// AccelVecFilt is the low-pass filtered specific force vector, body
	// frame, m/s².  Maintained once per cycle; read by the gravity gate.
	AccelVecFilt [3]float64

	x [StateDim]float64
	P *matrix.DenseMatrix

	accelFilt func([3]float64) [3]float64
	registry  *Registry
}

// New returns an estimator initialized to level attitude at the origin,
// with a gravity aiding source registered.
func New(p Params) *Ekf {
	e := &Ekf{Params: p}
	e.x[StateQ0] = 1

	// Diagonal of initial state uncertainties, squared into variances.
	// These relax quickly; the process noise (owned by the out-of-scope
	// prediction step) dominates the steady state.
	e.P = matrix.Diagonal([]float64{
		0.1, 0.1, 0.1, 0.1, // q*4
		0.5, 0.5, 0.5, // v*3, m/s
		1, 1, 1, // p*3, m
		0.01, 0.01, 0.01, // gyro bias*3, rad/s
		0.2, 0.2, 0.2, // accel bias*3, m/s²
	})
	e.P = matrix.Product(e.P, e.P)

	e.accelFilt = NewVectorLowPass(0.1)
	e.registry = NewRegistry(NewGravitySource(e))
	return e
}

// Registry returns the aiding-source registry driving this estimator.
func (e *Ekf) Registry() *Registry {
	return e.registry
}

// Update runs one fusion cycle: estimator-level IMU bookkeeping followed by
// every registered aiding source, in registry order.
func (e *Ekf) Update(imu *ImuSample) {
	e.AccelVecFilt = e.accelFilt(imu.Accel())
	e.registry.RunCycle(imu)
}

// StateAt returns the state vector element at index i.
func (e *Ekf) StateAt(i int) float64 {
	return e.x[i]
}

// StateCopy copies the state vector into dst.
func (e *Ekf) StateCopy(dst *[StateDim]float64) {
	*dst = e.x
}

// Covariance returns the shared covariance matrix.  Callers other than the
// fusion executor must treat it as read-only.
func (e *Ekf) Covariance() *matrix.DenseMatrix {
	return e.P
}

// RollPitchHeading returns the attitude estimate, radians.
func (e *Ekf) RollPitchHeading() (roll, pitch, heading float64) {
	return FromQuaternion(e.x[StateQ0], e.x[StateQ1], e.x[StateQ2], e.x[StateQ3])
}
