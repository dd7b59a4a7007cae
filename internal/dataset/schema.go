package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/batchest/internal/matfile"
)

// Container keys of the required fields.
const (
	KeyCameraOffset    = "rho_v_c_v"
	KeyLandmarks       = "rho_i_pj_i"
	KeyMeasurements    = "y_k_j"
	KeyCameraRotation  = "C_c_v"
	KeyOrientations    = "theta_vk_i"
	KeyPositions       = "r_i_vk_i"
	KeyTimestamps      = "t"
	KeyAngularVelocity = "w_vk_vk_i"
	KeyVelocity        = "v_vk_vk_i"
	KeyVelocityVar     = "v_var"
	KeyAngularVelVar   = "w_var"
	KeyMeasurementVar  = "y_var"
	KeyFocalU          = "fu"
	KeyFocalV          = "fv"
	KeyPrincipalU      = "cu"
	KeyPrincipalV      = "cv"
	KeyBaseline        = "b"
)

// Shape symbols bound from the data: N is the number of timesteps and
// M the number of landmarks.
const (
	symSteps     = 'N'
	symLandmarks = 'M'
)

// dim is one extent of a shape pattern: a fixed size, or a symbol that
// must take the same value everywhere it appears.
type dim struct {
	size int
	sym  byte
}

func fixed(n int) dim { return dim{size: n} }
func sym(s byte) dim { return dim{sym: s} }

func (d dim) String() string {
	if d.sym != 0 {
		return string(d.sym)
	}
	return strconv.Itoa(d.size)
}

// Field describes one required container variable.
type Field struct {
	Key    string
	Role   string
	Scalar bool
	shape  []dim
}

// Shape returns the expected shape, e.g. "3xN".
func (f Field) Shape() string {
	parts := make([]string, len(f.shape))
	for i, d := range f.shape {
		parts[i] = d.String()
	}
	return strings.Join(parts, "x")
}

// Schema lists the required fields in load order.
var Schema = []Field{
	{Key: KeyCameraOffset, Role: "camera position in vehicle frame", shape: []dim{fixed(3), fixed(1)}},
	{Key: KeyLandmarks, Role: "landmark positions in inertial frame", shape: []dim{fixed(3), sym(symLandmarks)}},
	{Key: KeyMeasurements, Role: "stereo pixel measurements per timestep and landmark", shape: []dim{fixed(4), sym(symSteps), sym(symLandmarks)}},
	{Key: KeyCameraRotation, Role: "vehicle to camera rotation", shape: []dim{fixed(3), fixed(3)}},
	{Key: KeyOrientations, Role: "vehicle orientation (axis-angle) over time", shape: []dim{fixed(3), sym(symSteps)}},
	{Key: KeyPositions, Role: "vehicle position over time", shape: []dim{fixed(3), sym(symSteps)}},
	{Key: KeyTimestamps, Role: "timestamps", shape: []dim{fixed(1), sym(symSteps)}},
	{Key: KeyAngularVelocity, Role: "angular velocity input", shape: []dim{fixed(3), sym(symSteps)}},
	{Key: KeyVelocity, Role: "linear velocity input", shape: []dim{fixed(3), sym(symSteps)}},
	{Key: KeyVelocityVar, Role: "linear velocity noise variance", shape: []dim{fixed(3), fixed(1)}},
	{Key: KeyAngularVelVar, Role: "angular velocity noise variance", shape: []dim{fixed(3), fixed(1)}},
	{Key: KeyMeasurementVar, Role: "measurement noise variance", shape: []dim{fixed(4), fixed(1)}},
	{Key: KeyFocalU, Role: "horizontal focal length", Scalar: true, shape: []dim{fixed(1), fixed(1)}},
	{Key: KeyFocalV, Role: "vertical focal length", Scalar: true, shape: []dim{fixed(1), fixed(1)}},
	{Key: KeyPrincipalU, Role: "horizontal principal point", Scalar: true, shape: []dim{fixed(1), fixed(1)}},
	{Key: KeyPrincipalV, Role: "vertical principal point", Scalar: true, shape: []dim{fixed(1), fixed(1)}},
	{Key: KeyBaseline, Role: "stereo baseline", Scalar: true, shape: []dim{fixed(1), fixed(1)}},
}

// FieldKeys returns the required keys in load order.
func FieldKeys() []string {
	keys := make([]string, len(Schema))
	for i, f := range Schema {
		keys[i] = f.Key
	}
	return keys
}

// checkShape matches a against the field's pattern, binding symbols on
// first use. Extents past either rank count as 1, so MATLAB's dropped
// trailing singletons still match.
func (f Field) checkShape(a matfile.Array, bound map[byte]int) error {
	rank := len(f.shape)
	if len(a.Dims) > rank {
		rank = len(a.Dims)
	}
	for i := 0; i < rank; i++ {
		got := 1
		if i < len(a.Dims) {
			got = a.Dims[i]
		}
		want := fixed(1)
		if i < len(f.shape) {
			want = f.shape[i]
		}

		if want.sym == 0 {
			if got != want.size {
				return parseErrf(f.Key, "shape %s does not match %s", a.Shape(), f.Shape())
			}
			continue
		}
		if n, ok := bound[want.sym]; ok && n != got {
			return parseErrf(f.Key, "shape %s does not match %s with %c=%d", a.Shape(), f.Shape(), want.sym, n)
		}
		bound[want.sym] = got
	}
	return nil
}

// normalize pads or trims dims to the pattern's rank. Only call it after
// checkShape, which guarantees any dropped extents are 1.
func (f Field) normalize(dims []int) []int {
	out := make([]int, len(f.shape))
	for i := range out {
		out[i] = 1
		if i < len(dims) {
			out[i] = dims[i]
		}
	}
	return out
}

func (f Field) String() string {
	return fmt.Sprintf("%s (%s, %s)", f.Key, f.Shape(), f.Role)
}
