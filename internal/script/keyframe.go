package script

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ivlev/keyframer/internal/rbt"
)

// ErrSlotMismatch is returned when a keyframe does not have one transform per
// animated slot.
var ErrSlotMismatch = errors.New("keyframe slot count mismatch")

// Keyframe is a complete pose of the animated slots at one instant
type Keyframe []mgl32.Mat4

// Clone returns an independent copy of the keyframe
func (k Keyframe) Clone() Keyframe {
	return slices.Clone(k)
}

// Equal reports whether both keyframes hold the same transforms within eps
func (k Keyframe) Equal(other Keyframe, eps float32) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if !rbt.ApproxEqual(k[i], other[i], eps) {
			return false
		}
	}
	return true
}

// InterpolateKeyframes blends two keyframes slot by slot
func InterpolateKeyframes(first, second Keyframe, alpha float32) (Keyframe, error) {
	if len(first) != len(second) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrSlotMismatch, len(first), len(second))
	}

	interpolated := make(Keyframe, len(first))
	interpolateInto(interpolated, first, second, alpha)
	return interpolated, nil
}

// interpolateInto writes the blend of equally sized keyframes into dst
func interpolateInto(dst, first, second Keyframe, alpha float32) {
	for i := range first {
		dst[i] = rbt.Interpolate(first[i], second[i], alpha)
	}
}
