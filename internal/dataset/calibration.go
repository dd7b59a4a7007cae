package dataset

import (
	"gonum.org/v1/gonum/mat"
)

// StereoCamera holds the intrinsics shared by both lenses of the rig.
type StereoCamera struct {
	Fu, Fv float64 // focal lengths, pixels
	Cu, Cv float64 // principal point, pixels
	B      float64 // baseline, metres
}

// NoiseVariances are the per-axis variances of the inputs and of the
// stereo measurements (u_left, v_left, u_right, v_right).
type NoiseVariances struct {
	Velocity        [3]float64
	AngularVelocity [3]float64
	Measurement     [4]float64
}

// Q returns the 6x6 diagonal input covariance, linear velocity first.
func (n NoiseVariances) Q() *mat.DiagDense {
	d := make([]float64, 0, 6)
	d = append(d, n.Velocity[:]...)
	d = append(d, n.AngularVelocity[:]...)
	return mat.NewDiagDense(6, d)
}

// R returns the 4x4 diagonal measurement covariance.
func (n NoiseVariances) R() *mat.DiagDense {
	return mat.NewDiagDense(4, append([]float64(nil), n.Measurement[:]...))
}
