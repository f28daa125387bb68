// Package transform provides rigid-body poses and the transform-distribution
// service used to share them between processes.
package transform

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/skelterjohn/go.matrix"
)

// Pose is a rigid transform: a rotation followed by a translation in meters.
type Pose struct {
	Translation r3.Vector
	Rotation    [3][3]float64
}

// Identity returns the pose with no rotation and no translation.
func Identity() Pose {
	return Pose{Rotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// FromRPY returns a pure rotation built from roll, pitch and yaw in degrees,
// applied in that order about the fixed x, y and z axes.
func FromRPY(roll, pitch, yaw float64) Pose {
	r, p, y := roll*math.Pi/180, pitch*math.Pi/180, yaw*math.Pi/180
	cr, sr := math.Cos(r), math.Sin(r)
	cp, sp := math.Cos(p), math.Sin(p)
	cy, sy := math.Cos(y), math.Sin(y)
	return Pose{Rotation: [3][3]float64{
		{cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr},
		{sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr},
		{-sp, cp * sr, cp * cr},
	}}
}

// Matrix returns the pose as a 4x4 homogeneous matrix.
func (p Pose) Matrix() *matrix.DenseMatrix {
	r := p.Rotation
	t := p.Translation
	return matrix.MakeDenseMatrix([]float64{
		r[0][0], r[0][1], r[0][2], t.X,
		r[1][0], r[1][1], r[1][2], t.Y,
		r[2][0], r[2][1], r[2][2], t.Z,
		0, 0, 0, 1,
	}, 4, 4)
}

// FromMatrix converts a 4x4 homogeneous matrix into a pose. The bottom row is
// not checked.
func FromMatrix(m *matrix.DenseMatrix) (Pose, error) {
	if m == nil || m.Rows() != 4 || m.Cols() != 4 {
		return Pose{}, fmt.Errorf("transform matrix must be 4x4")
	}
	var p Pose
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p.Rotation[i][j] = m.Get(i, j)
		}
	}
	p.Translation = r3.Vector{X: m.Get(0, 3), Y: m.Get(1, 3), Z: m.Get(2, 3)}
	return p, nil
}

// Compose returns p·q, the pose q expressed in the frame p is expressed in.
func (p Pose) Compose(q Pose) Pose {
	out, _ := FromMatrix(matrix.Product(p.Matrix(), q.Matrix()))
	return out
}

// Inverse returns the inverse rigid transform.
func (p Pose) Inverse() Pose {
	var inv Pose
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.Rotation[i][j] = p.Rotation[j][i]
		}
	}
	t := p.Translation
	inv.Translation = r3.Vector{
		X: -(inv.Rotation[0][0]*t.X + inv.Rotation[0][1]*t.Y + inv.Rotation[0][2]*t.Z),
		Y: -(inv.Rotation[1][0]*t.X + inv.Rotation[1][1]*t.Y + inv.Rotation[1][2]*t.Z),
		Z: -(inv.Rotation[2][0]*t.X + inv.Rotation[2][1]*t.Y + inv.Rotation[2][2]*t.Z),
	}
	return inv
}

// WithTranslation returns a copy of p with its translation replaced.
func (p Pose) WithTranslation(t r3.Vector) Pose {
	p.Translation = t
	return p
}

type wirePose struct {
	Matrix []float64 `json:"matrix"`
}

// MarshalJSON encodes the pose as a row-major 4x4 matrix.
func (p Pose) MarshalJSON() ([]byte, error) {
	m := p.Matrix()
	elems := make([]float64, 0, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			elems = append(elems, m.Get(i, j))
		}
	}
	return json.Marshal(wirePose{Matrix: elems})
}

// UnmarshalJSON decodes a row-major 4x4 matrix.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var w wirePose
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Matrix) != 16 {
		return fmt.Errorf("transform matrix has %d elements, want 16", len(w.Matrix))
	}
	out, err := FromMatrix(matrix.MakeDenseMatrix(w.Matrix, 4, 4))
	if err != nil {
		return err
	}
	*p = out
	return nil
}
