package ekf

// AidSourceStatus is the standard diagnostic record kept for every aiding
// source.  It is reset and repopulated every cycle regardless of the fusion
// outcome, so that external telemetry can diagnose near-misses and tune
// gates offline.  Consumers read it between cycles and never mutate it.
type AidSourceStatus struct {
	TimestampSample     uint64    // Timestamp of the fused sample, µs
	Observation         []float64 // Raw observation vector
	ObservationVariance []float64 // Observation noise variance per axis
	Innovation          []float64 // Observation minus predicted observation
	InnovationVariance  []float64 // Innovation variance per axis
	TestRatio           float64   // Worst-axis normalized innovation statistic
	InnovationRejected  bool      // Test ratio exceeded the gate this cycle
	Fused               bool      // All axes fused successfully this cycle
	TimeLastFuse        uint64    // Timestamp of the last successful fuse, µs
}

// NewAidSourceStatus returns a record for a source with n measurement axes.
func NewAidSourceStatus(n int) *AidSourceStatus {
	return &AidSourceStatus{
		Observation:         make([]float64, n),
		ObservationVariance: make([]float64, n),
		Innovation:          make([]float64, n),
		InnovationVariance:  make([]float64, n),
	}
}

// Reset clears the per-cycle fields.  TimeLastFuse persists across cycles;
// its staleness is the health signal monitoring looks for.
func (s *AidSourceStatus) Reset() {
	s.TimestampSample = 0
	for i := range s.Observation {
		s.Observation[i] = 0
		s.ObservationVariance[i] = 0
		s.Innovation[i] = 0
		s.InnovationVariance[i] = 0
	}
	s.TestRatio = 0
	s.InnovationRejected = false
	s.Fused = false
}

// SetTestRatio computes the normalized innovation statistic
// innovation²/(gate²·variance) per axis, records the worst axis, and flags
// rejection when it exceeds one.
func (s *AidSourceStatus) SetTestRatio(gate float64) {
	s.TestRatio = 0
	for i := range s.Innovation {
		v := s.InnovationVariance[i]
		if v < Small {
			v = Small
		}
		r := sq(s.Innovation[i]) / (sq(gate) * v)
		if r > s.TestRatio {
			s.TestRatio = r
		}
	}
	s.InnovationRejected = s.TestRatio > 1
}

// Evaluation carries one cycle's innovation, variance and gain triples from
// an aiding source's gain computation to the fusion executor.  Buffers are
// owned by the source and reused every cycle.
type Evaluation struct {
	Innovation    []float64   // One entry per measurement axis
	InnovationVar []float64   // One entry per measurement axis
	Gains         [][]float64 // One state-length Kalman gain vector per axis
	Disqualified  bool        // Sensor-quality veto (e.g. clipping); blocks fusion only
}

// AidingSource is the per-modality fusion protocol.  The registry drives the
// three operations in order every cycle; implementations mutate the shared
// estimator state only from within Fuse.
type AidingSource interface {
	Name() string
	// EvaluateEligibility runs the modality's gate and updates its
	// eligibility flag in the shared control flags.
	EvaluateEligibility(imu *ImuSample) bool
	// Evaluate computes innovation, innovation variance and Kalman gains
	// from the current shared state, and populates the diagnostic record.
	// It runs unconditionally, even when the source is ineligible.
	Evaluate(imu *ImuSample) *Evaluation
	// Fuse applies the correction to the shared state and covariance,
	// returning true only if every axis fused successfully.
	Fuse(ev *Evaluation) bool
	Status() *AidSourceStatus
}

// Registry holds the aiding sources in their fusion order.  The order is part
// of the numerical contract: each source reads the covariance as left by its
// predecessor within the same cycle, so reordering changes results.
type Registry struct {
	sources []AidingSource
}

func NewRegistry(sources ...AidingSource) *Registry {
	return &Registry{sources: sources}
}

// Sources returns the registered sources in fusion order.
func (r *Registry) Sources() []AidingSource {
	return r.sources
}

// Source returns the registered source with the given name, or nil.
func (r *Registry) Source(name string) AidingSource {
	for _, src := range r.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

// RunCycle drives every source through one fusion cycle.  Diagnostics are
// populated unconditionally; fusion is attempted only when the source is
// eligible, the innovation passed the gate, and no sensor fault disqualifies
// the sample.
func (r *Registry) RunCycle(imu *ImuSample) {
	for _, src := range r.sources {
		eligible := src.EvaluateEligibility(imu)
		ev := src.Evaluate(imu)
		st := src.Status()
		if !eligible || st.InnovationRejected || ev.Disqualified {
			continue
		}
		if src.Fuse(ev) {
			st.Fused = true
			st.TimeLastFuse = imu.TimeUS
		}
	}
}
