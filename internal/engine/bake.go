package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/keyframer/internal/config"
	"github.com/ivlev/keyframer/internal/script"
)

// Frame is one sampled pose of a baked animation
type Frame struct {
	Index int
	Time  float64 // in keyframe intervals
	Pose  script.Keyframe
}

// Bake samples the animation described by kfs at the playback frame rate.
// Every keyframe interval contributes FramesPerInterval frames and the last
// keyframe closes the track. Intervals are computed in parallel.
func Bake(ctx context.Context, kfs []script.Keyframe, cfg *config.Config) ([]Frame, error) {
	if len(kfs) < 2 {
		return nil, script.ErrTooFewKeyframes
	}

	per := cfg.FramesPerInterval()
	intervals := len(kfs) - 1
	frames := make([]Frame, intervals*per+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for seg := 0; seg < intervals; seg++ {
		seg := seg // per-iteration copy; go.mod targets go 1.21 loop semantics
		g.Go(func() error {
			for step := 0; step < per; step++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				alpha := float32(step) / float32(per)
				pose, err := script.InterpolateKeyframes(kfs[seg], kfs[seg+1], alpha)
				if err != nil {
					return fmt.Errorf("interval %d: %w", seg, err)
				}
				i := seg*per + step
				frames[i] = Frame{Index: i, Time: float64(seg) + float64(alpha), Pose: pose}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	last := len(frames) - 1
	frames[last] = Frame{Index: last, Time: float64(intervals), Pose: kfs[intervals].Clone()}
	return frames, nil
}

// WriteFrames stores baked poses in the script text format, one line per
// frame.
func WriteFrames(path string, frames []Frame) error {
	poses := make([]script.Keyframe, len(frames))
	for i, f := range frames {
		poses[i] = f.Pose
	}
	return script.WriteKeyframes(path, poses)
}
