package ekf

// measurementUpdate applies one scalar observation axis to the shared state
// and covariance: x += K·innov, P -= S·K·Kᵀ.  The rank-1 covariance
// correction is rejected wholesale if it would drive any state variance
// negative, in which case neither the state nor the covariance is touched
// and false is returned.
func (e *Ekf) measurementUpdate(K []float64, innovVar, innov float64) bool {
	for i := 0; i < StateDim; i++ {
		if e.P.Get(i, i)-innovVar*K[i]*K[i] < 0 {
			return false
		}
	}

	// The correction is symmetric, so P stays symmetric by construction.
	for i := 0; i < StateDim; i++ {
		for j := i; j < StateDim; j++ {
			v := e.P.Get(i, j) - innovVar*K[i]*K[j]
			e.P.Set(i, j, v)
			e.P.Set(j, i, v)
		}
	}

	for i := 0; i < StateDim; i++ {
		e.x[i] += K[i] * innov
	}
	return true
}

// FuseAxes applies the per-axis corrections sequentially, each axis seeing
// the covariance as modified by the axes before it.  A failed axis aborts
// the remaining axes but leaves the earlier corrections applied; the overall
// call then reports failure so the cycle is accounted as not fused.
func (e *Ekf) FuseAxes(ev *Evaluation) bool {
	ok := true
	for i := range ev.Innovation {
		ok = ok && e.measurementUpdate(ev.Gains[i], ev.InnovationVar[i], ev.Innovation[i])
	}
	return ok
}
