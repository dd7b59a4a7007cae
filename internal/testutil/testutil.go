// Package testutil provides shared test utilities and fixtures.
//
// The dataset fixture is a synthetic but internally consistent stereo/IMU
// run, small enough to build per test.
package testutil

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/batchest/internal/matfile"
)

// Fixture calibration values.
const (
	FixtureFu = 484.5
	FixtureFv = 484.5
	FixtureCu = 322.0
	FixtureCv = 247.0
	FixtureB  = 0.24
	// FixtureStep is the spacing of the fixture timestamps.
	FixtureStep = 0.1
)

// FixtureRotation is C_c_v for the fixture: camera z forward along the
// vehicle x axis, camera x to the vehicle's right, camera y down.
var FixtureRotation = []float64{
	0, -1, 0,
	0, 0, -1,
	1, 0, 0,
}

// FixtureOffset is rho_v_c_v for the fixture.
var FixtureOffset = []float64{0.1, 0.0, 0.2}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Matrix builds a MATLAB-ordered array from row-major values.
func Matrix(rows, cols int, rowMajor ...float64) matfile.Array {
	return matfile.FromMatrix(mat.NewDense(rows, cols, rowMajor))
}

// Scalar builds a 1x1 array.
func Scalar(v float64) matfile.Array {
	return matfile.Array{Dims: []int{1, 1}, Data: []float64{v}}
}

// Observed reports whether the fixture sees landmark j at step k.
func Observed(k, j int) bool {
	return (k+j)%3 != 0
}

// MeasurementValue is the fixture value of component i of y_k_j.
func MeasurementValue(i, k, j int) float64 {
	return 100*float64(i+1) + float64(k) + 0.01*float64(j)
}

// DatasetFixture returns a container holding every required field for a
// run of steps timestamps and landmarks landmarks.
func DatasetFixture(steps, landmarks int) *matfile.Memory {
	m := matfile.NewMemory()

	m.Set("rho_v_c_v", Matrix(3, 1, FixtureOffset...))
	m.Set("C_c_v", Matrix(3, 3, FixtureRotation...))

	lm := mat.NewDense(3, landmarks, nil)
	for j := 0; j < landmarks; j++ {
		lm.Set(0, j, float64(j))
		lm.Set(1, j, 2*float64(j))
		lm.Set(2, j, 1)
	}
	m.Set("rho_i_pj_i", matfile.FromMatrix(lm))

	// y_k_j is 4 x steps x landmarks, column-major.
	y := make([]float64, 4*steps*landmarks)
	for j := 0; j < landmarks; j++ {
		for k := 0; k < steps; k++ {
			for i := 0; i < 4; i++ {
				v := -1.0
				if Observed(k, j) {
					v = MeasurementValue(i, k, j)
				}
				y[i+4*(k+steps*j)] = v
			}
		}
	}
	m.Set("y_k_j", matfile.Array{Dims: []int{4, steps, landmarks}, Data: y})

	t := make([]float64, steps)
	for k := range t {
		t[k] = FixtureStep * float64(k)
	}
	m.Set("t", matfile.Array{Dims: []int{1, steps}, Data: t})

	for n, key := range []string{"theta_vk_i", "r_i_vk_i", "w_vk_vk_i", "v_vk_vk_i"} {
		series := mat.NewDense(3, steps, nil)
		for k := 0; k < steps; k++ {
			for i := 0; i < 3; i++ {
				series.Set(i, k, float64(10*n+i)+0.01*float64(k))
			}
		}
		m.Set(key, matfile.FromMatrix(series))
	}

	m.Set("v_var", Matrix(3, 1, 0.01, 0.02, 0.03))
	m.Set("w_var", Matrix(3, 1, 0.001, 0.002, 0.003))
	m.Set("y_var", Matrix(4, 1, 4, 4, 4, 4))

	m.Set("fu", Scalar(FixtureFu))
	m.Set("fv", Scalar(FixtureFv))
	m.Set("cu", Scalar(FixtureCu))
	m.Set("cv", Scalar(FixtureCv))
	m.Set("b", Scalar(FixtureB))

	return m
}
