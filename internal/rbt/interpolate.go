package rbt

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Interpolate blends two rigid transforms: the translations are lerped and
// the rotations are slerped along the shorter arc. alpha is expected in [0, 1).
func Interpolate(a, b mgl32.Mat4, alpha float32) mgl32.Mat4 {
	t := Lerp(Translation(a), Translation(b), alpha)
	q := Slerp(Rotation(a), Rotation(b), alpha)
	return Compose(t, q)
}

// Lerp performs linear interpolation between a and b
func Lerp(a, b mgl32.Vec3, alpha float32) mgl32.Vec3 {
	return a.Mul(1 - alpha).Add(b.Mul(alpha))
}

// Slerp interpolates between two rotations at constant angular velocity.
// q and -q encode the same rotation, so q2 is flipped when needed to keep
// the path on the shorter arc.
func Slerp(q1, q2 mgl32.Quat, alpha float32) mgl32.Quat {
	if q1.Dot(q2) < 0 {
		q2 = q2.Scale(-1)
	}
	return mgl32.QuatSlerp(q1, q2, alpha)
}
