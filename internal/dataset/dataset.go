// Package dataset assembles the inputs of a stereo camera / IMU batch
// estimation problem from a MATLAB container: calibration constants,
// timestamped inputs, landmark observations and noise variances, plus
// the per-step time deltas and the camera/vehicle transform derived
// from them.
//
// A Dataset is built in one pass and never changes afterwards. Any
// failure aborts construction; no partially loaded dataset is returned.
package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/batchest/internal/matfile"
	"github.com/banshee-data/batchest/internal/monitoring"
)

// Config tunes validation during construction.
type Config struct {
	// RotationTolerance bounds the orthonormality and determinant error
	// accepted for C_c_v. Zero means DefaultRotationTolerance.
	RotationTolerance float64
	// RequireMonotonicTime rejects timestamps that decrease.
	RequireMonotonicTime bool
}

// DefaultConfig returns the validation settings used by the command.
func DefaultConfig() Config {
	return Config{
		RotationTolerance:    DefaultRotationTolerance,
		RequireMonotonicTime: true,
	}
}

// Dataset is the validated, immutable input record. Accessors return
// copies.
type Dataset struct {
	source    string
	fields    map[string]matfile.Array
	steps     int
	landmarks int
	camera    StereoCamera
	noise     NoiseVariances
	timeSteps []float64
	transform *mat.Dense
}

// New opens the container at path and assembles a Dataset from it.
// Errors are *Error values: FileNotFound when the file cannot be
// reached, ParseError for everything after that.
func New(path string, cfg Config) (*Dataset, error) {
	f, err := matfile.Open(path)
	if err != nil {
		return nil, openErr(path, err)
	}
	defer f.Close()

	d, err := FromContainer(f, cfg)
	if err != nil {
		return nil, withPath(path, err)
	}
	d.source = path
	monitoring.Logf("[Dataset] loaded %s: %d steps, %d landmarks", path, d.steps, d.landmarks)
	return d, nil
}

// FromContainer assembles a Dataset from an already open container.
func FromContainer(c matfile.Container, cfg Config) (*Dataset, error) {
	if cfg.RotationTolerance <= 0 {
		cfg.RotationTolerance = DefaultRotationTolerance
	}

	fields := make(map[string]matfile.Array, len(Schema))
	bound := make(map[byte]int, 2)
	for _, f := range Schema {
		a, err := LoadField(c, f.Key)
		if err != nil {
			return nil, err
		}
		if err := f.checkShape(a, bound); err != nil {
			return nil, err
		}
		a.Dims = f.normalize(a.Dims)
		fields[f.Key] = a
		monitoring.Debugf("[Dataset] field %s: %s", f.Key, a.Shape())
	}

	if bound[symLandmarks] == 0 {
		return nil, parseErrf(KeyLandmarks, "no landmarks")
	}

	d := &Dataset{
		fields:    fields,
		steps:     bound[symSteps],
		landmarks: bound[symLandmarks],
	}

	intrinsics := []struct {
		key string
		dst *float64
	}{
		{KeyFocalU, &d.camera.Fu},
		{KeyFocalV, &d.camera.Fv},
		{KeyPrincipalU, &d.camera.Cu},
		{KeyPrincipalV, &d.camera.Cv},
		{KeyBaseline, &d.camera.B},
	}
	// checkShape bound these to 1x1 and LoadField to one element each.
	for _, in := range intrinsics {
		*in.dst = fields[in.key].Data[0]
	}

	copy(d.noise.Velocity[:], fields[KeyVelocityVar].Data)
	copy(d.noise.AngularVelocity[:], fields[KeyAngularVelVar].Data)
	copy(d.noise.Measurement[:], fields[KeyMeasurementVar].Data)

	t := fields[KeyTimestamps].Data
	if len(t) == 0 {
		return nil, parseErrf(KeyTimestamps, "no timestamps")
	}
	if floats.HasNaN(t) || math.IsInf(floats.Max(t), 0) || math.IsInf(floats.Min(t), 0) {
		return nil, parseErrf(KeyTimestamps, "timestamps must be finite")
	}
	if cfg.RequireMonotonicTime {
		if err := checkMonotonic(t); err != nil {
			return nil, parseErr(KeyTimestamps, err)
		}
	}
	d.timeSteps = TimeSteps(t)

	C, err := fields[KeyCameraRotation].Matrix()
	if err != nil {
		return nil, parseErr(KeyCameraRotation, err)
	}
	T, err := CameraVehicleTransform(C, fields[KeyCameraOffset].Data, cfg.RotationTolerance)
	if err != nil {
		return nil, parseErr(KeyCameraRotation, err)
	}
	d.transform = T

	return d, nil
}

// Source returns the path the dataset was read from, or "" when it was
// assembled from an in-memory container.
func (d *Dataset) Source() string { return d.source }

// NumSteps returns N, the number of timestamps.
func (d *Dataset) NumSteps() int { return d.steps }

// NumLandmarks returns M, the number of landmarks.
func (d *Dataset) NumLandmarks() int { return d.landmarks }

// Field returns a copy of a raw field by container key.
func (d *Dataset) Field(key string) (matfile.Array, bool) {
	a, ok := d.fields[key]
	if !ok {
		return matfile.Array{}, false
	}
	return a.Clone(), true
}

// Timestamps returns t as a length-N slice.
func (d *Dataset) Timestamps() []float64 {
	return append([]float64(nil), d.fields[KeyTimestamps].Data...)
}

// TimeSteps returns the N-1 consecutive timestamp differences.
func (d *Dataset) TimeSteps() []float64 {
	return append([]float64(nil), d.timeSteps...)
}

// CameraOffset returns rho_v_c_v, the camera origin in the vehicle frame.
func (d *Dataset) CameraOffset() [3]float64 {
	var out [3]float64
	copy(out[:], d.fields[KeyCameraOffset].Data)
	return out
}

// CameraRotation returns C_c_v.
func (d *Dataset) CameraRotation() *mat.Dense { return d.matrix(KeyCameraRotation) }

// Landmarks returns the 3xM landmark positions in the inertial frame.
func (d *Dataset) Landmarks() *mat.Dense { return d.matrix(KeyLandmarks) }

// Orientations returns the 3xN axis-angle vehicle orientations.
func (d *Dataset) Orientations() *mat.Dense { return d.matrix(KeyOrientations) }

// Positions returns the 3xN vehicle positions in the inertial frame.
func (d *Dataset) Positions() *mat.Dense { return d.matrix(KeyPositions) }

// AngularVelocities returns the 3xN angular velocity inputs.
func (d *Dataset) AngularVelocities() *mat.Dense { return d.matrix(KeyAngularVelocity) }

// Velocities returns the 3xN linear velocity inputs.
func (d *Dataset) Velocities() *mat.Dense { return d.matrix(KeyVelocity) }

// Measurements returns a copy of the 4xNxM stereo measurements.
func (d *Dataset) Measurements() matfile.Array {
	return d.fields[KeyMeasurements].Clone()
}

// Measurement returns the stereo pixel measurement of landmark j at step k.
func (d *Dataset) Measurement(k, j int) ([4]float64, error) {
	var out [4]float64
	if k < 0 || k >= d.steps || j < 0 || j >= d.landmarks {
		return out, fmt.Errorf("measurement (%d, %d) out of range %dx%d", k, j, d.steps, d.landmarks)
	}
	y := d.fields[KeyMeasurements]
	for i := range out {
		v, err := y.At(i, k, j)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// Camera returns the stereo intrinsics.
func (d *Dataset) Camera() StereoCamera { return d.camera }

// Noise returns the input and measurement variances.
func (d *Dataset) Noise() NoiseVariances { return d.noise }

// Transform returns T_cv, mapping vehicle-frame points into the camera
// frame.
func (d *Dataset) Transform() *mat.Dense { return mat.DenseCopyOf(d.transform) }

// InverseTransform returns T_vc, mapping camera-frame points into the
// vehicle frame.
func (d *Dataset) InverseTransform() *mat.Dense {
	T, err := InvertTransform(d.transform)
	if err != nil {
		// d.transform is always 4x4
		panic(err)
	}
	return T
}

func (d *Dataset) matrix(key string) *mat.Dense {
	m, err := d.fields[key].Matrix()
	if err != nil {
		// shapes were checked during construction
		panic(fmt.Sprintf("dataset: field %s: %v", key, err))
	}
	return m
}
