package script

import (
	"bytes"
	"log"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ivlev/keyframer/internal/rbt"
	"github.com/ivlev/keyframer/internal/scene"
)

const eps = 1e-5

// newTestScript binds a script to n identity slots and captures its notices
func newTestScript(n int) (*Script, *scene.Scene, *bytes.Buffer) {
	sc := scene.New()
	for i := 0; i < n; i++ {
		sc.Add(string(rune('a'+i)), mgl32.Ident4(), mgl32.Vec3{})
	}
	var buf bytes.Buffer
	s := New(sc, sc.Slots(), WithLogger(log.New(&buf, "", 0)))
	return s, sc, &buf
}

func TestEmptyScript(t *testing.T) {
	s, _, out := newTestScript(3)

	if s.KeyframeCount() != 0 {
		t.Errorf("Expected 0 keyframes, got %d", s.KeyframeCount())
	}
	if s.CurrentIndex() != -1 {
		t.Errorf("Expected index -1, got %d", s.CurrentIndex())
	}
	if _, ok := s.Current(); ok {
		t.Error("Empty script should have no current keyframe")
	}

	s.CopyToScene()
	s.Advance()
	s.Retreat()
	s.DeleteCurrentFrame()

	if s.KeyframeCount() != 0 || s.CurrentIndex() != -1 {
		t.Errorf("no-ops changed state: count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}
	for _, notice := range []string{"undefined", "end of the list", "first keyframe"} {
		if !strings.Contains(out.String(), notice) {
			t.Errorf("Expected a notice containing %q, log:\n%s", notice, out.String())
		}
	}
}

func TestAddRetreatCopy(t *testing.T) {
	s, sc, _ := newTestScript(3)

	s.AddFromScene()
	if s.KeyframeCount() != 1 || s.CurrentIndex() != 0 {
		t.Fatalf("after first add: count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}

	sc.SetTransform(0, mgl32.Translate3D(1, 0, 0))
	s.AddFromScene()
	if s.KeyframeCount() != 2 || s.CurrentIndex() != 1 {
		t.Fatalf("after second add: count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}

	s.Retreat()
	s.CopyToScene()
	if got := sc.Transform(0); !rbt.ApproxEqual(got, mgl32.Ident4(), eps) {
		t.Errorf("slot 0 = \n%v, want identity", got)
	}
}

func TestAddInsertsAfterCurrent(t *testing.T) {
	s, sc, _ := newTestScript(1)

	for i := 0; i < 3; i++ {
		sc.SetTransform(0, mgl32.Translate3D(float32(i), 0, 0))
		s.AddFromScene()
	}

	// back to keyframe 0, then insert: the new frame lands at index 1
	s.Retreat()
	s.Retreat()
	sc.SetTransform(0, mgl32.Translate3D(10, 0, 0))
	s.AddFromScene()

	if s.CurrentIndex() != 1 {
		t.Fatalf("Expected cursor at 1, got %d", s.CurrentIndex())
	}

	want := []float32{0, 10, 1, 2}
	kfs := s.Keyframes()
	if len(kfs) != len(want) {
		t.Fatalf("Expected %d keyframes, got %d", len(want), len(kfs))
	}
	for i, x := range want {
		if got := rbt.Translation(kfs[i][0]).X(); got != x {
			t.Errorf("keyframe %d: x=%v, want %v", i, got, x)
		}
	}
}

func TestUpdateFromScene(t *testing.T) {
	s, sc, _ := newTestScript(2)

	// bootstraps the first keyframe
	s.UpdateFromScene()
	if s.KeyframeCount() != 1 || s.CurrentIndex() != 0 {
		t.Fatalf("update on empty script: count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}

	sc.SetTransform(1, mgl32.Translate3D(0, 3, 0))
	s.UpdateFromScene()
	first, _ := s.Current()
	s.UpdateFromScene()
	second, _ := s.Current()

	if s.KeyframeCount() != 1 {
		t.Errorf("update must not add keyframes, have %d", s.KeyframeCount())
	}
	if !first.Equal(second, 0) {
		t.Errorf("repeated update changed the keyframe:\n%v\n%v", first, second)
	}
	if !rbt.ApproxEqual(first[1], mgl32.Translate3D(0, 3, 0), eps) {
		t.Errorf("slot 1 not updated: \n%v", first[1])
	}
}

func TestDeleteSingleKeyframe(t *testing.T) {
	s, sc, _ := newTestScript(2)
	s.AddFromScene()

	s.DeleteCurrentFrame()

	if s.KeyframeCount() != 0 || s.CurrentIndex() != -1 {
		t.Fatalf("Expected empty script, count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}

	sc.SetTransform(0, mgl32.Translate3D(5, 5, 5))
	s.CopyToScene()
	if got := sc.Transform(0); got != mgl32.Translate3D(5, 5, 5) {
		t.Error("CopyToScene on an empty script modified the scene")
	}
}

func TestDeleteMovesCursorAndSyncsScene(t *testing.T) {
	tests := []struct {
		name      string
		retreats  int // from the last keyframe
		wantIndex int
		wantX     float32
	}{
		{"last goes to previous", 0, 1, 1},
		{"middle goes to previous", 1, 0, 0},
		{"first goes to next", 2, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, sc, _ := newTestScript(1)
			for i := 0; i < 3; i++ {
				sc.SetTransform(0, mgl32.Translate3D(float32(i), 0, 0))
				s.AddFromScene()
			}
			for i := 0; i < tt.retreats; i++ {
				s.Retreat()
			}

			s.DeleteCurrentFrame()

			if s.KeyframeCount() != 2 {
				t.Errorf("Expected 2 keyframes, got %d", s.KeyframeCount())
			}
			if s.CurrentIndex() != tt.wantIndex {
				t.Errorf("Expected index %d, got %d", tt.wantIndex, s.CurrentIndex())
			}
			if got := rbt.Translation(sc.Transform(0)).X(); got != tt.wantX {
				t.Errorf("scene shows x=%v, want %v", got, tt.wantX)
			}
		})
	}
}

func TestAdvancePastEnd(t *testing.T) {
	s, sc, out := newTestScript(1)
	s.AddFromScene()
	sc.SetTransform(0, mgl32.Translate3D(1, 0, 0))
	s.AddFromScene()

	s.Retreat()
	s.Advance()
	if s.CurrentIndex() != 1 {
		t.Fatalf("Expected index 1, got %d", s.CurrentIndex())
	}

	sc.SetTransform(0, mgl32.Translate3D(9, 9, 9))
	s.Advance()
	if s.CurrentIndex() != -1 || s.KeyframeCount() != 2 {
		t.Errorf("Expected past-end cursor, index=%d count=%d", s.CurrentIndex(), s.KeyframeCount())
	}
	if got := sc.Transform(0); got != mgl32.Translate3D(9, 9, 9) {
		t.Error("advancing past the end must not copy to the scene")
	}

	out.Reset()
	s.Advance()
	if !strings.Contains(out.String(), "already at the last keyframe") {
		t.Errorf("unexpected notice: %q", out.String())
	}

	// past the end nothing is current
	s.CopyToScene()
	s.DeleteCurrentFrame()
	if s.KeyframeCount() != 2 {
		t.Errorf("delete past the end removed a keyframe")
	}

	s.Retreat()
	if s.CurrentIndex() != 1 {
		t.Errorf("retreat from past the end: index=%d, want 1", s.CurrentIndex())
	}
	if got := rbt.Translation(sc.Transform(0)).X(); got != 1 {
		t.Errorf("retreat did not show keyframe 1, x=%v", got)
	}
}

func TestAddFromPastEndAppends(t *testing.T) {
	s, _, _ := newTestScript(1)
	s.AddFromScene()
	s.AddFromScene()
	s.Advance()

	s.UpdateFromScene()

	if s.KeyframeCount() != 3 || s.CurrentIndex() != 2 {
		t.Errorf("Expected append at tail, count=%d index=%d", s.KeyframeCount(), s.CurrentIndex())
	}
}

func TestCursorInvariant(t *testing.T) {
	s, sc, _ := newTestScript(2)
	r := rand.New(rand.NewSource(7))

	for step := 0; step < 2000; step++ {
		sc.SetTransform(0, mgl32.Translate3D(r.Float32(), 0, 0))
		switch r.Intn(5) {
		case 0:
			s.AddFromScene()
		case 1:
			s.UpdateFromScene()
		case 2:
			s.DeleteCurrentFrame()
		case 3:
			s.Advance()
		case 4:
			s.Retreat()
		}

		idx, n := s.CurrentIndex(), s.KeyframeCount()
		if idx < -1 || idx >= n || (n == 0 && idx != -1) {
			t.Fatalf("step %d: index %d out of range for %d keyframes", step, idx, n)
		}
	}
}

func TestKeyframesAreCopies(t *testing.T) {
	s, _, _ := newTestScript(1)
	s.AddFromScene()

	kfs := s.Keyframes()
	kfs[0][0] = mgl32.Translate3D(4, 4, 4)

	cur, _ := s.Current()
	if !rbt.ApproxEqual(cur[0], mgl32.Ident4(), eps) {
		t.Error("modifying the returned keyframes changed the script")
	}
}

func TestInterpolateKeyframesMismatch(t *testing.T) {
	_, err := InterpolateKeyframes(Keyframe{mgl32.Ident4()}, Keyframe{}, 0.5)
	if err == nil {
		t.Fatal("Expected ErrSlotMismatch")
	}
}

func TestPrintCurrent(t *testing.T) {
	s, _, _ := newTestScript(2)

	var buf bytes.Buffer
	s.PrintCurrent(&buf)
	if !strings.Contains(buf.String(), "no current keyframe") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	s.AddFromScene()
	buf.Reset()
	if err := s.PrintCurrent(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1," {
		t.Errorf("unexpected line: %q", lines[0])
	}
}
