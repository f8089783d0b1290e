package ekf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ekf.yaml")
	data := []byte("imu_ctrl: 7\ngravity_noise: 0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadParams(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.ImuCtrl != 7 || p.GravityNoise != 0.5 {
		t.Errorf("loaded params %+v", p)
	}
	// Omitted fields keep their defaults.
	if p.GravityGate != 1.0 || p.EpsilonFloor != FloatEps {
		t.Errorf("defaults not preserved for omitted fields: %+v", p)
	}
}

func TestLoadParamsMissingFile(t *testing.T) {
	p, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	// The defaults still come back so a caller may choose to continue.
	if p.GravityNoise != DefaultParams().GravityNoise {
		t.Error("defaults not returned alongside the error")
	}
}

func TestDefaultGravityEnabled(t *testing.T) {
	p := DefaultParams()
	if p.ImuCtrl&ImuCtrlGravityVector == 0 {
		t.Error("gravity fusion should be enabled by default")
	}
}
