// Package vmath holds the small float32 vector and matrix types the engine uses
// for transforms, physics and collision.
package vmath

import "math"

// Vector3 is a 3-component float32 vector.
type Vector3 struct {
	X, Y, Z float32
}

func V3(x, y, z float32) Vector3 { return Vector3{x, y, z} }

func (a Vector3) Add(b Vector3) Vector3       { return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vector3) Sub(b Vector3) Vector3       { return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vector3) Scale(s float32) Vector3     { return Vector3{a.X * s, a.Y * s, a.Z * s} }
func (a Vector3) Mul(b Vector3) Vector3       { return Vector3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }
func (a Vector3) Dot(b Vector3) float32       { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vector3) LengthSq() float32           { return a.Dot(a) }
func (a Vector3) Length() float32             { return float32(math.Sqrt(float64(a.LengthSq()))) }
func (a Vector3) XYZW(w float32) Vector4      { return Vector4{a.X, a.Y, a.Z, w} }
func (a Vector3) Min(b Vector3) Vector3       { return Vector3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)} }
func (a Vector3) Max(b Vector3) Vector3       { return Vector3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)} }
func (a Vector3) Clamp(lo, hi Vector3) Vector3 { return a.Max(lo).Min(hi) }

func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Normalise returns the unit vector, or the zero vector for zero length.
func (a Vector3) Normalise() Vector3 {
	l := a.Length()
	if l == 0 {
		return Vector3{}
	}
	return a.Scale(1 / l)
}

// Vector4 is a homogeneous float32 vector. Positions use W=1, directions W=0.
type Vector4 struct {
	X, Y, Z, W float32
}

func V4(x, y, z, w float32) Vector4 { return Vector4{x, y, z, w} }

// Point returns (x, y, z, 1).
func Point(x, y, z float32) Vector4 { return Vector4{x, y, z, 1} }

func (a Vector4) XYZ() Vector3 { return Vector3{a.X, a.Y, a.Z} }

// Add adds the xyz parts and keeps a.W.
func (a Vector4) Add(b Vector4) Vector4 {
	return Vector4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W}
}

// Sub subtracts the xyz parts and keeps a.W.
func (a Vector4) Sub(b Vector4) Vector4 {
	return Vector4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W}
}

// Scale scales the xyz parts and keeps a.W.
func (a Vector4) Scale(s float32) Vector4 {
	return Vector4{a.X * s, a.Y * s, a.Z * s, a.W}
}

func (a Vector4) Length3() float32 { return a.XYZ().Length() }

func (a Vector4) IsZero3() bool { return a.X == 0 && a.Y == 0 && a.Z == 0 }
