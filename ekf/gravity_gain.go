package ekf

import (
	"github.com/skelterjohn/go.matrix"
)

// InnovGainFunc is the contract for a modality's innovation and gain
// computation: a pure, deterministic function of the shared state, the shared
// covariance, the measurement and its noise variance.  It writes the
// innovation, the per-axis innovation variance (floored at eps) and one
// state-length Kalman gain vector per axis into the caller's buffers, and
// must have no side effects so it can be invoked speculatively for
// diagnostics even when fusion will not occur.
type InnovGainFunc func(x *[StateDim]float64, P *matrix.DenseMatrix,
	meas [3]float64, measVar, eps float64,
	innov, innovVar []float64, gains [][]float64)

// ComputeGravityInnovVarAndK is the gravity instantiation of InnovGainFunc.
// The predicted observation is the gravity vector rotated into the body
// frame by the attitude quaternion, so the observation Jacobian has entries
// only in the quaternion block.
func ComputeGravityInnovVarAndK(x *[StateDim]float64, P *matrix.DenseMatrix,
	meas [3]float64, measVar, eps float64,
	innov, innovVar []float64, gains [][]float64) {

	q0, q1, q2, q3 := x[StateQ0], x[StateQ1], x[StateQ2], x[StateQ3]

	// Predicted specific force under gravity alone: -g times the third row
	// of the body-to-NED rotation matrix.
	pred := [3]float64{
		-G * 2 * (q1*q3 - q0*q2),
		-G * 2 * (q2*q3 + q0*q1),
		-G * (q0*q0 - q1*q1 - q2*q2 + q3*q3),
	}

	// Observation Jacobian rows over the quaternion states.
	var h [3][4]float64
	h[0] = [4]float64{2 * G * q2, -2 * G * q3, 2 * G * q0, -2 * G * q1}
	h[1] = [4]float64{-2 * G * q1, -2 * G * q0, -2 * G * q3, -2 * G * q2}
	h[2] = [4]float64{-2 * G * q0, 2 * G * q1, 2 * G * q2, -2 * G * q3}

	for i := 0; i < 3; i++ {
		// S = H P Hᵀ + R over the quaternion block
		s := measVar
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				s += h[i][a] * P.Get(StateQ0+a, StateQ0+b) * h[i][b]
			}
		}
		if s < eps {
			s = eps
		}
		innovVar[i] = s

		// K = P Hᵀ / S
		for j := 0; j < StateDim; j++ {
			k := 0.0
			for b := 0; b < 4; b++ {
				k += P.Get(j, StateQ0+b) * h[i][b]
			}
			gains[i][j] = k / s
		}

		innov[i] = meas[i] - pred[i]
	}
}
