package engine

import (
	"context"
	"log"
	"time"

	"github.com/ivlev/keyframer/internal/config"
	"github.com/ivlev/keyframer/internal/script"
)

// Player drives script playback from a render loop. Each Tick advances the
// animation clock by one frame and asks the script for the pose at that time.
type Player struct {
	Script   *script.Script
	Config   *config.Config
	animTime float64 // ms since playback start
	on       bool
}

func NewPlayer(s *script.Script, cfg *config.Config) *Player {
	return &Player{
		Script: s,
		Config: cfg,
	}
}

// Playing reports whether an animation is running
func (p *Player) Playing() bool {
	return p.on
}

// Start rewinds the script and the clock. It fails with
// script.ErrTooFewKeyframes when there is nothing to interpolate.
func (p *Player) Start() error {
	if err := p.Script.InitPlayback(); err != nil {
		return err
	}
	p.animTime = 0
	p.on = true
	return nil
}

// Stop ends a running animation on its last keyframe
func (p *Player) Stop() {
	if !p.on {
		return
	}
	p.on = false
	p.animTime = 0
	p.Script.EndPlayback()
}

// Toggle starts playback, or stops it when already running
func (p *Player) Toggle() error {
	if p.on {
		p.Stop()
		return nil
	}
	return p.Start()
}

// Tick performs one frame of playback and reports whether the animation is
// over. The interval length is read on every tick so speed changes apply
// immediately.
func (p *Player) Tick() bool {
	if !p.on {
		return true
	}

	t := p.animTime / float64(p.Config.MsBetweenKeyframes)
	if p.Script.StepPlayback(t) {
		p.on = false
		p.animTime = 0
		log.Printf("[+] Finished playing animation")
		p.Script.EndPlayback()
		return true
	}

	p.animTime += p.Config.FrameMs()
	return false
}

// Run plays the animation in real time at the configured frame rate,
// calling onFrame after every tick. Cancelling ctx stops playback on the
// last keyframe and returns the context error.
func (p *Player) Run(ctx context.Context, onFrame func()) error {
	if !p.on {
		if err := p.Start(); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(time.Second / time.Duration(p.Config.AnimateFPS))
	defer ticker.Stop()

	for {
		done := p.Tick()
		if onFrame != nil {
			onFrame()
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			p.Stop()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
