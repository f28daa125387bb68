package transform

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPose(t *testing.T, want, got Pose) {
	t.Helper()
	assert.InDelta(t, want.Translation.X, got.Translation.X, 1e-9, "tx")
	assert.InDelta(t, want.Translation.Y, got.Translation.Y, 1e-9, "ty")
	assert.InDelta(t, want.Translation.Z, got.Translation.Z, 1e-9, "tz")
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want.Rotation[i][j], got.Rotation[i][j], 1e-9, "r[%d][%d]", i, j)
		}
	}
}

func TestPose_Matrix(t *testing.T) {
	p := FromRPY(10, 20, 30).WithTranslation(r3.Vector{X: 1, Y: 2, Z: 3})
	m := p.Matrix()
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, 4, m.Cols())
	assert.Equal(t, 3.0, m.Get(2, 3))
	assert.Equal(t, 1.0, m.Get(3, 3))

	back, err := FromMatrix(m)
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestFromRPY_Yaw(t *testing.T) {
	p := FromRPY(0, 0, 90)
	// x axis of the rotated frame points along y.
	assert.InDelta(t, 0, p.Rotation[0][0], 1e-12)
	assert.InDelta(t, 1, p.Rotation[1][0], 1e-12)
	assert.InDelta(t, -1, p.Rotation[0][1], 1e-12)
}

func TestPose_InverseCompose(t *testing.T) {
	p := FromRPY(-15, 40, 100).WithTranslation(r3.Vector{X: 0.3, Y: -1.2, Z: 0.8})
	assertPose(t, Identity(), p.Compose(p.Inverse()))
	assertPose(t, Identity(), p.Inverse().Compose(p))
}

func TestPose_JSON(t *testing.T) {
	p := FromRPY(0, 0, 45).WithTranslation(r3.Vector{X: 0.5, Y: 0.25, Z: -1})
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Pose
	require.NoError(t, json.Unmarshal(data, &back))
	assertPose(t, p, back)

	assert.Error(t, json.Unmarshal([]byte(`{"matrix":[1,2,3]}`), &back))
}
