package vmath

import "math"

// Matrix4 is a row-major 4x4 matrix used with row vectors (v * M), matching the
// DirectX convention the asset pipeline expects.
type Matrix4 [16]float32

func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Translation(v Vector3) Matrix4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

func Scaling(v Vector3) Matrix4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotationEuler builds the rotation for pitch (X), yaw (Y), roll (Z) in radians,
// applied roll, then pitch, then yaw.
func RotationEuler(pitch, yaw, roll float32) Matrix4 {
	sp, cp := sincos(pitch)
	sy, cy := sincos(yaw)
	sr, cr := sincos(roll)
	return Matrix4{
		cr*cy + sr*sp*sy, sr * cp, sr*sp*cy - cr*sy, 0,
		cr*sp*sy - sr*cy, cr * cp, sr*sy + cr*sp*cy, 0,
		cp * sy, -sp, cp * cy, 0,
		0, 0, 0, 1,
	}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// Mul returns a * b.
func (a Matrix4) Mul(b Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[r*4+k] * b[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// TransformPoint returns (p, 1) * m.
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12],
		p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13],
		p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14],
	}
}

// TransformDir returns (d, 0) * m.
func (m Matrix4) TransformDir(d Vector3) Vector3 {
	return Vector3{
		d.X*m[0] + d.Y*m[4] + d.Z*m[8],
		d.X*m[1] + d.Y*m[5] + d.Z*m[9],
		d.X*m[2] + d.Y*m[6] + d.Z*m[10],
	}
}

// SRT composes scale, rotation and translation in that order.
func SRT(scale, rotation, translation Vector3) Matrix4 {
	return Scaling(scale).Mul(RotationEuler(rotation.X, rotation.Y, rotation.Z)).Mul(Translation(translation))
}
