// Package script implements the keyframe timeline: an ordered list of scene
// snapshots, a cursor into it, and the playback driver that interpolates
// between consecutive keyframes.
package script

import (
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"

	"github.com/ivlev/keyframer/internal/scene"
)

type cursorState int

const (
	cursorEmpty   cursorState = iota // no keyframes
	cursorAt                         // on keyframes[index]
	cursorPastEnd                    // advanced beyond the last keyframe
)

type cursor struct {
	state cursorState
	index int
}

func at(i int) cursor {
	return cursor{state: cursorAt, index: i}
}

// Option configures a Script
type Option func(*Script)

// WithLogger routes user notices to l instead of the standard logger
func WithLogger(l *log.Logger) Option {
	return func(s *Script) {
		s.log = l
	}
}

// Script owns the keyframes and holds non-owning references to the scene
// slots it animates.
type Script struct {
	scene     scene.Binding
	slots     []scene.SlotID
	keyframes []Keyframe
	cur       cursor
	play      playback
	log       *log.Logger
}

// New creates an empty script bound to the given slots of b
func New(b scene.Binding, slots []scene.SlotID, opts ...Option) *Script {
	s := &Script{
		scene: b,
		slots: slices.Clone(slots),
		log:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SlotCount returns the number of animated slots
func (s *Script) SlotCount() int {
	return len(s.slots)
}

// KeyframeCount returns the number of stored keyframes
func (s *Script) KeyframeCount() int {
	return len(s.keyframes)
}

// CurrentIndex returns the position of the current keyframe, or -1 when the
// timeline is empty or the cursor is past the end.
func (s *Script) CurrentIndex() int {
	if s.cur.state != cursorAt {
		return -1
	}
	return s.cur.index
}

// Current returns a copy of the current keyframe
func (s *Script) Current() (Keyframe, bool) {
	if s.cur.state != cursorAt {
		return nil, false
	}
	return s.keyframes[s.cur.index].Clone(), true
}

// Keyframes returns a deep copy of the timeline
func (s *Script) Keyframes() []Keyframe {
	out := make([]Keyframe, len(s.keyframes))
	for i, kf := range s.keyframes {
		out[i] = kf.Clone()
	}
	return out
}

// CopyToScene overwrites the scene slots with the current keyframe
func (s *Script) CopyToScene() {
	if s.cur.state != cursorAt {
		s.log.Printf("[!] Current frame is undefined, nothing copied")
		return
	}
	s.copyFrameToScene(s.keyframes[s.cur.index])
	s.log.Printf("[*] Keyframe copied from keyframe %d", s.cur.index)
}

// AddFromScene snapshots the scene into a new keyframe right after the
// current one and makes it current.
func (s *Script) AddFromScene() {
	kf := s.snapshot()

	if s.cur.state == cursorAt {
		i := s.cur.index + 1
		s.keyframes = slices.Insert(s.keyframes, i, kf)
		s.cur = at(i)
	} else {
		s.keyframes = append(s.keyframes, kf)
		s.cur = at(len(s.keyframes) - 1)
	}

	s.log.Printf("[*] Keyframe added at position %d", s.cur.index)
}

// UpdateFromScene overwrites the current keyframe with the scene. Without a
// current keyframe it adds one instead.
func (s *Script) UpdateFromScene() {
	if s.cur.state != cursorAt {
		s.AddFromScene()
		return
	}

	kf := s.keyframes[s.cur.index]
	for i, id := range s.slots {
		kf[i] = s.scene.Transform(id)
	}
	s.log.Printf("[*] Keyframe %d was updated", s.cur.index)
}

// DeleteCurrentFrame removes the current keyframe. The cursor moves to the
// previous keyframe, or the next one when the first was deleted, and the
// new current keyframe is shown in the scene.
func (s *Script) DeleteCurrentFrame() {
	if s.cur.state != cursorAt {
		s.log.Printf("[!] Current frame is undefined, nothing deleted")
		return
	}

	i := s.cur.index
	s.keyframes = slices.Delete(s.keyframes, i, i+1)
	s.log.Printf("[*] Deleted keyframe %d", i)

	switch {
	case len(s.keyframes) == 0:
		s.cur = cursor{}
		return
	case i > 0:
		s.cur = at(i - 1)
	default:
		s.cur = at(0)
	}

	s.log.Printf("[*] Cursor reassigned to keyframe %d", s.cur.index)
	s.CopyToScene()
}

// Advance moves to the next keyframe and shows it. Advancing from the last
// keyframe leaves the cursor past the end.
func (s *Script) Advance() {
	switch s.cur.state {
	case cursorEmpty:
		s.log.Printf("[!] You are already at the end of the list")
	case cursorPastEnd:
		s.log.Printf("[!] You are already at the last keyframe")
	case cursorAt:
		if s.cur.index == len(s.keyframes)-1 {
			s.cur = cursor{state: cursorPastEnd}
			s.log.Printf("[*] You are now at the end of the list")
			return
		}
		s.cur = at(s.cur.index + 1)
		s.log.Printf("[*] Advancing to keyframe %d", s.cur.index)
		s.CopyToScene()
	}
}

// Retreat moves to the previous keyframe and shows it. From past the end it
// returns to the last keyframe.
func (s *Script) Retreat() {
	switch {
	case s.cur.state == cursorPastEnd:
		s.cur = at(len(s.keyframes) - 1)
	case s.cur.state == cursorAt && s.cur.index > 0:
		s.cur = at(s.cur.index - 1)
	default:
		s.log.Printf("[!] You are already at the first keyframe")
		return
	}
	s.log.Printf("[*] Retreating to keyframe %d", s.cur.index)
	s.CopyToScene()
}

// ReplaceKeyframes swaps the whole timeline. Every keyframe must have one
// transform per slot; on error the timeline is left untouched. The cursor
// goes to the first keyframe, which is copied to the scene.
func (s *Script) ReplaceKeyframes(kfs []Keyframe) error {
	for i, kf := range kfs {
		if len(kf) != len(s.slots) {
			return fmt.Errorf("keyframe %d: %w: have %d, want %d", i, ErrSlotMismatch, len(kf), len(s.slots))
		}
	}

	s.keyframes = make([]Keyframe, len(kfs))
	for i, kf := range kfs {
		s.keyframes[i] = kf.Clone()
	}
	s.play = playback{}

	if len(s.keyframes) == 0 {
		s.cur = cursor{}
		return nil
	}
	s.cur = at(0)
	s.CopyToScene()
	return nil
}

// PrintCurrent writes the current keyframe, one slot per line
func (s *Script) PrintCurrent(w io.Writer) error {
	if s.cur.state != cursorAt {
		_, err := fmt.Fprintln(w, "(no current keyframe)")
		return err
	}
	for _, m := range s.keyframes[s.cur.index] {
		line := make([]byte, 0, 16*10)
		for _, v := range m {
			line = strconv.AppendFloat(line, float64(v), 'g', 6, 32)
			line = append(line, ',')
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func (s *Script) snapshot() Keyframe {
	kf := make(Keyframe, len(s.slots))
	for i, id := range s.slots {
		kf[i] = s.scene.Transform(id)
	}
	return kf
}

func (s *Script) copyFrameToScene(kf Keyframe) {
	for i, id := range s.slots {
		s.scene.SetTransform(id, kf[i])
	}
}
