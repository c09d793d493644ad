package script

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/keyframer/internal/system"
)

// ErrTooFewKeyframes is returned when playback is started without at least
// two keyframes to interpolate between.
var ErrTooFewKeyframes = errors.New("you cannot start an animation with less than 2 keyframes")

// playbackEpsilon absorbs the drift of t, which advances by discrete frame
// steps and rarely lands exactly on an integer.
const playbackEpsilon = 1e-4

type playback struct {
	active bool
	index  int
	alpha  float32
}

// InitPlayback rewinds to the first keyframe and resets the playback state
func (s *Script) InitPlayback() error {
	if len(s.keyframes) < 2 {
		return ErrTooFewKeyframes
	}
	s.cur = at(0)
	s.play = playback{active: true}
	s.log.Printf("[*] Starting the animation")
	return nil
}

// EndPlayback moves to the last keyframe and shows it
func (s *Script) EndPlayback() {
	s.play = playback{}
	if len(s.keyframes) == 0 {
		return
	}
	s.cur = at(len(s.keyframes) - 1)
	s.CopyToScene()
}

// Playing reports whether playback was initialized and not ended
func (s *Script) Playing() bool {
	return s.play.active
}

// PlaybackPosition returns the keyframe being interpolated from and the
// progress toward the next one.
func (s *Script) PlaybackPosition() (int, float32) {
	return s.play.index, s.play.alpha
}

// StepPlayback writes the pose at time t into the scene. t counts keyframe
// intervals since the start of playback, so 1.5 is halfway between
// keyframes 1 and 2. It returns true once t reaches the last keyframe, after
// which the caller stops stepping and calls EndPlayback.
//
// The current keyframe always tracks floor(t), however far t jumped since
// the previous call.
func (s *Script) StepPlayback(t float64) bool {
	last := len(s.keyframes) - 1
	if float64(last)-t < playbackEpsilon {
		return true
	}
	if t < 0 {
		t = 0
	}

	target := int(math.Floor(t + playbackEpsilon))
	alpha := math.Max(t-float64(target), 0)

	if s.cur.state != cursorAt || s.cur.index != target {
		s.cur = at(target)
		s.log.Printf("[*] Playback reached keyframe %d (t = %.4f)", target, t)
	}

	s.play = playback{active: true, index: target, alpha: float32(alpha)}
	s.interpolateFromCurrent(float32(alpha))
	return false
}

// interpolateFromCurrent requires a keyframe after the current one; callers
// must stop once StepPlayback has reported completion.
func (s *Script) interpolateFromCurrent(alpha float32) {
	if s.cur.state != cursorAt || s.cur.index+1 >= len(s.keyframes) {
		panic(fmt.Sprintf("script: no keyframe after %d to interpolate toward", s.CurrentIndex()))
	}

	first, second := s.keyframes[s.cur.index], s.keyframes[s.cur.index+1]
	if len(first) != len(second) {
		panic(fmt.Errorf("%w: %d vs %d", ErrSlotMismatch, len(first), len(second)))
	}

	buf := system.GetPose(len(first))
	defer system.PutPose(buf)
	interpolateInto(buf, first, second, alpha)
	s.copyFrameToScene(buf)
}
