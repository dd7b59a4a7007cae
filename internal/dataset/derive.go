package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultRotationTolerance bounds how far C_c_v may stray from a proper
// rotation (orthonormal, det +1) before it is rejected.
const DefaultRotationTolerance = 0.01

// TimeSteps returns the consecutive differences of t: out[i] = t[i+1]-t[i].
// The result has len(t)-1 entries; there is no leading zero.
func TimeSteps(t []float64) []float64 {
	if len(t) < 2 {
		return []float64{}
	}
	out := make([]float64, len(t)-1)
	floats.SubTo(out, t[1:], t[:len(t)-1])
	return out
}

// checkMonotonic returns an error naming the first index where t decreases.
func checkMonotonic(t []float64) error {
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return fmt.Errorf("timestamps decrease at index %d (%g after %g)", i, t[i], t[i-1])
		}
	}
	return nil
}

// CameraVehicleTransform builds T_cv, the 4x4 homogeneous transform that
// maps vehicle-frame points into the camera frame:
//
//	T_cv = | C_cv  -C_cv*rho |
//	       |  0       1      |
//
// where rho is the camera origin expressed in the vehicle frame
// (rho_v_c_v). C must be a proper rotation within tol.
func CameraVehicleTransform(C mat.Matrix, rho []float64, tol float64) (*mat.Dense, error) {
	if len(rho) != 3 {
		return nil, fmt.Errorf("translation has %d elements, want 3", len(rho))
	}
	if err := checkRotation(C, tol); err != nil {
		return nil, err
	}

	var t mat.VecDense
	t.MulVec(C, mat.NewVecDense(3, append([]float64(nil), rho...)))
	t.ScaleVec(-1, &t)

	return homogeneous(C, &t), nil
}

// InvertTransform returns the inverse of a rigid 4x4 transform,
// [R t; 0 1]^-1 = [R^T -R^T*t; 0 1].
func InvertTransform(T mat.Matrix) (*mat.Dense, error) {
	if r, c := T.Dims(); r != 4 || c != 4 {
		return nil, fmt.Errorf("transform is %dx%d, want 4x4", r, c)
	}
	R := mat.DenseCopyOf(T).Slice(0, 3, 0, 3)
	t := mat.NewVecDense(3, []float64{T.At(0, 3), T.At(1, 3), T.At(2, 3)})

	var inv mat.VecDense
	inv.MulVec(R.T(), t)
	inv.ScaleVec(-1, &inv)

	return homogeneous(R.T(), &inv), nil
}

func homogeneous(R mat.Matrix, t mat.Vector) *mat.Dense {
	T := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			T.Set(i, j, R.At(i, j))
		}
		T.Set(i, 3, t.AtVec(i))
	}
	T.Set(3, 3, 1)
	return T
}

// checkRotation verifies C is 3x3 with C*C^T = I and det(C) = +1 within tol.
func checkRotation(C mat.Matrix, tol float64) error {
	if r, c := C.Dims(); r != 3 || c != 3 {
		return fmt.Errorf("rotation is %dx%d, want 3x3", r, c)
	}
	var cct mat.Dense
	cct.Mul(C, C.T())
	eye := mat.NewDiagDense(3, []float64{1, 1, 1})
	if !mat.EqualApprox(&cct, eye, tol) {
		return fmt.Errorf("rotation is not orthonormal")
	}
	if det := mat.Det(C); math.Abs(det-1) > tol {
		return fmt.Errorf("rotation determinant is %g, want 1", det)
	}
	return nil
}
