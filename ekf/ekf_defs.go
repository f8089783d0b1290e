package ekf

import (
	"math"
)

const (
	Pi = math.Pi
	G  = 9.80665 // G is the acceleration due to gravity, m/s²
	// FloatEps is the default floor applied to innovation variances to
	// prevent division by zero in the gain calculations.
	FloatEps = 1.1920929e-07
	Small    = 1e-9
	Big      = 1e9
	Deg      = Pi / 180
)

// StateDim is the length of the navigation state vector.  It is fixed at
// estimator construction; aiding sources may never grow or shrink it.
const StateDim = 16

// Indices into the state vector and covariance matrix.
const (
	StateQ0 = iota // Quaternion rotating body frame to NED earth frame
	StateQ1
	StateQ2
	StateQ3
	StateVN // Velocity, NED earth frame, m/s
	StateVE
	StateVD
	StatePN // Position, NED earth frame, m
	StatePE
	StatePD
	StateGBX // Gyro bias, body frame, rad/s
	StateGBY
	StateGBZ
	StateABX // Accelerometer bias, body frame, m/s²
	StateABY
	StateABZ
)

// Bits of Params.ImuCtrl selecting which IMU-derived aiding is enabled.
const (
	ImuCtrlGyroBias = 1 << iota
	ImuCtrlAccelBias
	ImuCtrlGravityVector
)

// ImuSample is one integrated inertial sample as delivered by the IMU
// front end, at the delayed fusion horizon.
type ImuSample struct {
	TimeUS       uint64     // Sample timestamp, µs
	DeltaVel     [3]float64 // Integrated delta-velocity, body frame, m/s
	DeltaVelDT   float64    // Delta-velocity integration period, s
	DeltaVelClip [3]bool    // Accelerometer clipping detected per axis
}

// Accel returns the average specific force over the integration period, m/s².
func (m *ImuSample) Accel() (a [3]float64) {
	if m.DeltaVelDT < Small {
		return
	}
	a[0] = m.DeltaVel[0] / m.DeltaVelDT
	a[1] = m.DeltaVel[1] / m.DeltaVelDT
	a[2] = m.DeltaVel[2] / m.DeltaVelDT
	return
}

// Clipped reports whether any accelerometer axis saturated during the
// integration period, which disqualifies the sample for fusion.
func (m *ImuSample) Clipped() bool {
	return m.DeltaVelClip[0] || m.DeltaVelClip[1] || m.DeltaVelClip[2]
}

// ControlFlags is the shared aiding-source context.  Each flag has a single
// named writer: the gravity gate writes GravityVector, the motion detector
// writes VehicleAtRest, and the horizontal aiding controllers write the rest.
// Aiding sources treat all flags but their own as read-only.
type ControlFlags struct {
	GravityVector            bool // Gravity observations are eligible to fuse this cycle
	VehicleAtRest            bool // Platform is stationary (motion-state hysteresis)
	GPSHorizontal            bool // GPS is aiding horizontal velocity/position
	OpticalFlow              bool // Optical flow is aiding horizontal velocity
	ExternalVisionHorizontal bool // External vision is aiding horizontal position
}

// HorizontalAidingActive reports whether any source currently constrains
// horizontal attitude, which excludes gravity fusion to avoid double-counting.
func (f *ControlFlags) HorizontalAidingActive() bool {
	return f.GPSHorizontal || f.OpticalFlow || f.ExternalVisionHorizontal
}

func sq(x float64) float64 { return x * x }

func normSq3(v [3]float64) float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}
