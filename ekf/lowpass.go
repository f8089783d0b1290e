package ekf

// NewVectorLowPass returns a function that, when passed a 3-vector,
// accumulates a first-order low-pass with smoothing constant "alpha"
// (0 < alpha <= 1; smaller is smoother) and returns the current filtered
// value.  The filter primes itself with the first observation.
func NewVectorLowPass(alpha float64) func([3]float64) [3]float64 {
	var (
		y      [3]float64
		primed bool
	)

	f := func(obs [3]float64) [3]float64 {
		if !primed {
			y = obs
			primed = true
			return y
		}
		y[0] += alpha * (obs[0] - y[0])
		y[1] += alpha * (obs[1] - y[1])
		y[2] += alpha * (obs[2] - y[2])
		return y
	}
	return f
}
