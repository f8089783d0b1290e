package ekf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds the estimator configuration consumed by the fusion core.
// Values are loaded once at startup; the hot path only reads them.
type Params struct {
	ImuCtrl      int32   `yaml:"imu_ctrl"`      // Bitmask of ImuCtrl* selecting enabled IMU aiding
	GravityNoise float64 `yaml:"gravity_noise"` // Gravity observation noise, 1-sigma, m/s²
	GravityGate  float64 `yaml:"gravity_gate"`  // Innovation gate multiplier, standard deviations
	EpsilonFloor float64 `yaml:"epsilon_floor"` // Floor applied to innovation variances
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		ImuCtrl:      ImuCtrlGyroBias | ImuCtrlAccelBias | ImuCtrlGravityVector,
		GravityNoise: 1.0,
		GravityGate:  1.0,
		EpsilonFloor: FloatEps,
	}
}

// LoadParams reads a YAML tuning file, applying defaults for any field the
// file omits.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params: %w", err)
	}
	if p.EpsilonFloor <= 0 {
		p.EpsilonFloor = FloatEps
	}
	return p, nil
}
