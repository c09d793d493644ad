// Package rbt works with rigid-body transforms stored as 4x4 homogeneous
// matrices: a rotation in the upper-left 3x3 block and a translation in the
// fourth column.
package rbt

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the default tolerance used when comparing transforms
const Epsilon = 1e-5

// Identity returns the identity transform
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// Translation extracts the translation vector (fourth column)
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}

// Rotation extracts the rotation as a unit quaternion
func Rotation(m mgl32.Mat4) mgl32.Quat {
	return mgl32.Mat4ToQuat(LinFact(m)).Normalize()
}

// Compose builds translate(t) * rotate(q)
func Compose(t mgl32.Vec3, q mgl32.Quat) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).Mul4(q.Normalize().Mat4())
}

// TransFact keeps only the translation part of m
func TransFact(m mgl32.Mat4) mgl32.Mat4 {
	t := Translation(m)
	return mgl32.Translate3D(t.X(), t.Y(), t.Z())
}

// LinFact keeps only the linear (rotation) part of m
func LinFact(m mgl32.Mat4) mgl32.Mat4 {
	return m.Mat3().Mat4()
}

// Inverse inverts a rigid transform without a general 4x4 inversion:
// the inverse of [R|t] is [R^T|-R^T t].
func Inverse(m mgl32.Mat4) mgl32.Mat4 {
	rt := m.Mat3().Transpose()
	t := rt.Mul3x1(Translation(m)).Mul(-1)
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).Mul4(rt.Mat4())
}

// DoWrt applies the motion q to the frame o with respect to the auxiliary
// frame a, i.e. a * q * a^-1 * o.
func DoWrt(o, q, a mgl32.Mat4) mgl32.Mat4 {
	return a.Mul4(q).Mul4(Inverse(a)).Mul4(o)
}

// AuxFrame returns the frame with the origin of o and the axes of e
func AuxFrame(o, e mgl32.Mat4) mgl32.Mat4 {
	return TransFact(o).Mul4(LinFact(e))
}

// IsRigid reports whether m is a rotation plus a translation: orthonormal
// upper-left block with determinant +1 and a last row of (0, 0, 0, 1).
func IsRigid(m mgl32.Mat4, eps float32) bool {
	row := m.Row(3)
	if !approxEqual(row[:], []float32{0, 0, 0, 1}, eps) {
		return false
	}
	r := m.Mat3()
	rtr, ident := r.Transpose().Mul3(r), mgl32.Ident3()
	if !approxEqual(rtr[:], ident[:], eps) {
		return false
	}
	return math32.Abs(r.Det()-1) <= eps
}

// ApproxEqual compares two matrices element-wise with an absolute tolerance.
// mgl32's own comparison is relative and too strict around zero.
func ApproxEqual(a, b mgl32.Mat4, eps float32) bool {
	return approxEqual(a[:], b[:], eps)
}

// ApproxEqualVec3 compares two vectors with an absolute tolerance
func ApproxEqualVec3(a, b mgl32.Vec3, eps float32) bool {
	return approxEqual(a[:], b[:], eps)
}

func approxEqual(a, b []float32, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
