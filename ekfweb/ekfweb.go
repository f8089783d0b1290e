// Package ekfweb pushes the estimator's fusion diagnostics to web clients
// over a websocket, for live tuning and health monitoring.  It only reads
// the diagnostic records; the fusion core never depends on it.
package ekfweb

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/westphae/navekf/ekf"
)

const Port = 8000

// FusionData is the wire format sent to clients after every cycle.
type FusionData struct {
	T float64 // Wall-clock time of the push, s

	// Attitude estimate, degrees
	Roll, Pitch, Heading float64

	// Gravity aid source diagnostic record
	TimestampSample     uint64
	Observation         [3]float64
	ObservationVariance [3]float64
	Innovation          [3]float64
	InnovationVariance  [3]float64
	TestRatio           float64
	InnovationRejected  bool
	Fused               bool
	TimeLastFuse        uint64

	// Control flags
	GravityEligible  bool
	VehicleAtRest    bool
	HorizontalAiding bool
}

// Listener snapshots an estimator's diagnostics and forwards them to a Room.
type Listener struct {
	e    *ekf.Ekf
	room *Room
	data FusionData
}

func NewListener(e *ekf.Ekf, room *Room) *Listener {
	return &Listener{e: e, room: room}
}

// Update snapshots the current fusion state and pushes it to all clients.
// Call it between cycles, never from inside one.
func (l *Listener) Update() {
	d := &l.data
	d.T = float64(time.Now().UnixNano()/1000) / 1e6

	roll, pitch, heading := l.e.RollPitchHeading()
	d.Roll = roll / ekf.Deg
	d.Pitch = pitch / ekf.Deg
	d.Heading = heading / ekf.Deg

	if src := l.e.Registry().Source("gravity"); src != nil {
		st := src.Status()
		d.TimestampSample = st.TimestampSample
		copy(d.Observation[:], st.Observation)
		copy(d.ObservationVariance[:], st.ObservationVariance)
		copy(d.Innovation[:], st.Innovation)
		copy(d.InnovationVariance[:], st.InnovationVariance)
		d.TestRatio = st.TestRatio
		d.InnovationRejected = st.InnovationRejected
		d.Fused = st.Fused
		d.TimeLastFuse = st.TimeLastFuse
	}

	d.GravityEligible = l.e.Flags.GravityVector
	d.VehicleAtRest = l.e.Flags.VehicleAtRest
	d.HorizontalAiding = l.e.Flags.HorizontalAidingActive()

	msg, err := json.Marshal(d)
	if err != nil {
		logrus.WithError(err).Error("ekfweb: marshal fusion data")
		return
	}
	l.room.Send(msg)
}
