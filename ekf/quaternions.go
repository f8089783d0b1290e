package ekf

import "math"

// ToQuaternion calculates the 0,1,2,3 components of the quaternion rotating
// body frame to NED earth frame for the Tait-Bryan angles roll, pitch, heading
func ToQuaternion(roll, pitch, heading float64) (float64, float64, float64, float64) {
	cphi := math.Cos(roll / 2)
	sphi := math.Sin(roll / 2)
	ctheta := math.Cos(pitch / 2)
	stheta := math.Sin(pitch / 2)
	cpsi := math.Cos(heading / 2)
	spsi := math.Sin(heading / 2)

	q0 := cphi*ctheta*cpsi + sphi*stheta*spsi
	q1 := sphi*ctheta*cpsi - cphi*stheta*spsi
	q2 := cphi*stheta*cpsi + sphi*ctheta*spsi
	q3 := cphi*ctheta*spsi - sphi*stheta*cpsi
	return q0, q1, q2, q3
}

// FromQuaternion calculates the Tait-Bryan angles roll, pitch, heading
// corresponding to the quaternion
func FromQuaternion(q0, q1, q2, q3 float64) (float64, float64, float64) {
	roll := math.Atan2(2*(q0*q1+q2*q3), q0*q0-q1*q1-q2*q2+q3*q3)
	pitch := math.Asin(2 * (q0*q2 - q3*q1) / (q0*q0 + q1*q1 + q2*q2 + q3*q3))
	heading := math.Atan2(2*(q0*q3+q1*q2), q0*q0+q1*q1-q2*q2-q3*q3)
	if heading < 0 {
		heading += 2 * math.Pi
	}
	return roll, pitch, heading
}
