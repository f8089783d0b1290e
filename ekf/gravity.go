package ekf

import "math"

// GravitySource fuses the observed gravity vector to constrain roll and
// pitch (a la complementary filter).  The observation is the accelerometer
// specific force, trusted only while the overall acceleration stays close to
// one standard gravity or the vehicle is known to be at rest.
type GravitySource struct {
	ekf    *Ekf
	status *AidSourceStatus
	ev     Evaluation
	meas   [3]float64
}

func NewGravitySource(e *Ekf) *GravitySource {
	g := &GravitySource{
		ekf:    e,
		status: NewAidSourceStatus(3),
	}
	g.ev.Innovation = make([]float64, 3)
	g.ev.InnovationVar = make([]float64, 3)
	g.ev.Gains = make([][]float64, 3)
	for i := range g.ev.Gains {
		g.ev.Gains[i] = make([]float64, StateDim)
	}
	return g
}

func (g *GravitySource) Name() string {
	return "gravity"
}

func (g *GravitySource) Status() *AidSourceStatus {
	return g.status
}

// measurement is the bias-corrected specific force at the delayed horizon.
func (g *GravitySource) measurement(imu *ImuSample) [3]float64 {
	a := imu.Accel()
	e := g.ekf
	return [3]float64{
		a[0] - e.x[StateABX],
		a[1] - e.x[StateABY],
		a[2] - e.x[StateABZ],
	}
}

// EvaluateEligibility fuses gravity only if the overall acceleration isn't
// too big: both the instantaneous and the low-pass filtered specific force
// magnitudes must lie within ±10% of standard gravity.  A vehicle known to
// be at rest overrides the magnitude band, since short-term accelerometer
// noise may violate it even when the gravity observation is sound.  Any
// active horizontal aiding source excludes gravity to avoid double-counting
// attitude information.
func (g *GravitySource) EvaluateEligibility(imu *ImuSample) bool {
	e := g.ekf

	accelNormSq := normSq3(g.measurement(imu))
	accelLpfNormSq := normSq3(e.AccelVecFilt)
	upperLimitSq := sq(G * 1.1)
	lowerLimitSq := sq(G * 0.9)
	accelNormGood := accelNormSq > lowerLimitSq && accelNormSq < upperLimitSq
	accelLpfNormGood := accelLpfNormSq > lowerLimitSq && accelLpfNormSq < upperLimitSq

	e.Flags.GravityVector = e.Params.ImuCtrl&ImuCtrlGravityVector != 0 &&
		((accelNormGood && accelLpfNormGood) || e.Flags.VehicleAtRest) &&
		!e.Flags.HorizontalAidingActive()
	return e.Flags.GravityVector
}

// Evaluate computes the innovation, innovation variances and Kalman gains
// for all three axes and fills the diagnostic record.  It runs every cycle
// so the record reflects what fusion would have done even when ineligible.
func (g *GravitySource) Evaluate(imu *ImuSample) *Evaluation {
	e := g.ekf
	g.meas = g.measurement(imu)
	measVar := math.Max(sq(e.Params.GravityNoise), sq(0.01))

	ComputeGravityInnovVarAndK(&e.x, e.P, g.meas, measVar, e.Params.EpsilonFloor,
		g.ev.Innovation, g.ev.InnovationVar, g.ev.Gains)

	st := g.status
	st.Reset()
	st.TimestampSample = imu.TimeUS
	copy(st.Observation, g.meas[:])
	for i := range st.ObservationVariance {
		st.ObservationVariance[i] = measVar
	}
	copy(st.Innovation, g.ev.Innovation)
	copy(st.InnovationVariance, g.ev.InnovationVar)
	st.SetTestRatio(e.Params.GravityGate)

	g.ev.Disqualified = imu.Clipped()
	return &g.ev
}

func (g *GravitySource) Fuse(ev *Evaluation) bool {
	return g.ekf.FuseAxes(ev)
}
