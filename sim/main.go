// Command sim drives the fusion core with a synthetic IMU stream: an
// at-rest phase, a gentle maneuvering phase, and a phase with GPS
// horizontal aiding active to show the mutual-exclusion behaviour.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/westphae/quaternion"

	"github.com/westphae/navekf/ekf"
	"github.com/westphae/navekf/ekfweb"
)

func main() {
	var (
		dur        = flag.Float64("dur", 30, "Simulation duration, s")
		rate       = flag.Float64("rate", 100, "IMU sample rate, Hz")
		noise      = flag.Float64("noise", 0.15, "Accel noise, 1-sigma, m/s²")
		paramsFile = flag.String("params", "", "YAML tuning file (defaults if empty)")
		csvFile    = flag.String("csv", "fusion.csv", "CSV output file")
		web        = flag.Bool("web", false, "Serve live diagnostics on the ekfweb port")
	)
	flag.Parse()

	p := ekf.DefaultParams()
	if *paramsFile != "" {
		var err error
		if p, err = ekf.LoadParams(*paramsFile); err != nil {
			logrus.WithError(err).Fatal("sim: load params")
		}
	}
	e := ekf.New(p)

	var listener *ekfweb.Listener
	if *web {
		room := ekfweb.NewRoom()
		go room.Run()
		http.Handle("/ekfweb", room)
		go func() {
			addr := fmt.Sprintf(":%d", ekfweb.Port)
			logrus.WithField("addr", addr).Info("sim: serving diagnostics")
			if err := http.ListenAndServe(addr, nil); err != nil {
				logrus.WithError(err).Error("sim: web server stopped")
			}
		}()
		listener = ekfweb.NewListener(e, room)
	}

	l := NewFusionLogger(*csvFile,
		"t", "roll", "pitch", "rollTrue", "pitchTrue",
		"testRatio", "eligible", "fused", "traceP")
	defer l.Close()

	grav := e.Registry().Source("gravity")
	dt := 1 / *rate
	n := int(*dur / dt)
	fused, cycles := 0, 0

	for i := 0; i < n; i++ {
		t := float64(i) * dt

		// Truth attitude: level at rest, then a gentle banked weave.
		var rollTrue, pitchTrue float64
		switch {
		case t < *dur/3:
			e.Flags.VehicleAtRest = true
			e.Flags.GPSHorizontal = false
		case t < 2 * *dur / 3:
			e.Flags.VehicleAtRest = false
			rollTrue = 15 * ekf.Deg * math.Sin(2*ekf.Pi*t/10)
			pitchTrue = 5 * ekf.Deg * math.Sin(2*ekf.Pi*t/17)
		default:
			// GPS constrains horizontal attitude; gravity must stand down.
			e.Flags.GPSHorizontal = true
		}

		imu := synthesizeImu(t, dt, rollTrue, pitchTrue, *noise)
		e.Update(imu)

		st := grav.Status()
		cycles++
		if st.Fused {
			fused++
		}

		roll, pitch, _ := e.RollPitchHeading()
		l.Log(t, roll/ekf.Deg, pitch/ekf.Deg, rollTrue/ekf.Deg, pitchTrue/ekf.Deg,
			st.TestRatio, b2f(e.Flags.GravityVector), b2f(st.Fused),
			ekf.CovarianceTrace(e.Covariance()))

		if listener != nil && i%10 == 0 {
			listener.Update()
		}

		if i%int(*rate) == 0 && !ekf.CovarianceHealthy(e.Covariance(), 1e-9) {
			logrus.WithField("t", t).Warn("sim: covariance unhealthy")
		}
	}

	roll, pitch, _ := e.RollPitchHeading()
	logrus.WithFields(logrus.Fields{
		"cycles": cycles,
		"fused":  fused,
		"roll":   fmt.Sprintf("%.2f°", roll/ekf.Deg),
		"pitch":  fmt.Sprintf("%.2f°", pitch/ekf.Deg),
	}).Info("sim: done")
}

// synthesizeImu builds one IMU sample for the given truth attitude: the
// gravity reaction rotated into the body frame, plus sensor noise.
func synthesizeImu(t, dt, roll, pitch float64, noise float64) *ekf.ImuSample {
	q0, q1, q2, q3 := ekf.ToQuaternion(roll, pitch, 0)
	q := quaternion.Quaternion{W: q0, X: q1, Y: q2, Z: q3}
	gb := quaternion.Prod(q.Conj(), quaternion.Quaternion{Z: ekf.G}, q)

	imu := &ekf.ImuSample{
		TimeUS:     uint64(t * 1e6),
		DeltaVelDT: dt,
	}
	imu.DeltaVel[0] = (-gb.X + rand.NormFloat64()*noise) * dt
	imu.DeltaVel[1] = (-gb.Y + rand.NormFloat64()*noise) * dt
	imu.DeltaVel[2] = (-gb.Z + rand.NormFloat64()*noise) * dt
	return imu
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
