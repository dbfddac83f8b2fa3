package core

import "math"

// Vec3 is a float32 3D vector, the storage type of every agent buffer.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// LenSq returns the squared length.
func (v Vec3) LenSq() float32 { return v.Dot(v) }

// Len returns the Euclidean length.
func (v Vec3) Len() float32 { return float32(math.Sqrt(float64(v.LenSq()))) }

// Dist returns the distance between two points.
func Dist(a, b Vec3) float32 { return a.Sub(b).Len() }

// Axis returns the component for axis 0, 1 or 2.
func (v Vec3) Axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
