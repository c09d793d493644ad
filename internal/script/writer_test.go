package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ivlev/keyframer/internal/rbt"
)

func buildScript(t *testing.T) *Script {
	t.Helper()
	s, sc, _ := newTestScript(2)
	s.AddFromScene()
	sc.SetTransform(0, mgl32.Translate3D(0.5, -1.25, 3))
	sc.SetTransform(1, mgl32.HomogRotate3DX(0.3))
	s.AddFromScene()
	return s
}

func TestWriteScriptFormat(t *testing.T) {
	s := buildScript(t)
	path := filepath.Join(t.TempDir(), "script.txt")

	if err := s.WriteScript(path); err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 3 || lines[2] != "" {
		t.Fatalf("Expected 2 newline-terminated lines, got %q", string(data))
	}

	identity := "1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1, "
	if lines[0] != identity+identity {
		t.Errorf("unexpected first line: %q", lines[0])
	}

	// column-major: the translation is in the last four values
	if !strings.HasPrefix(lines[1], "1,0,0,0,0,1,0,0,0,0,1,0,0.5,-1.25,3,1, ") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestReadScriptRoundTrip(t *testing.T) {
	s := buildScript(t)
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := s.WriteScript(path); err != nil {
		t.Fatal(err)
	}

	r, sc, _ := newTestScript(2)
	if err := r.ReadScript(path); err != nil {
		t.Fatalf("ReadScript failed: %v", err)
	}

	if r.KeyframeCount() != 2 || r.CurrentIndex() != 0 {
		t.Errorf("count=%d index=%d", r.KeyframeCount(), r.CurrentIndex())
	}
	want := s.Keyframes()
	for i, kf := range r.Keyframes() {
		if !kf.Equal(want[i], 0) {
			t.Errorf("keyframe %d differs after round trip", i)
		}
	}
	if sc.Transform(0) != want[0][0] {
		t.Error("ReadScript should show the first keyframe")
	}
}

func TestReadScriptErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"short block", "1,2,3, 1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1,\n", ErrMalformed},
		{"not a number", strings.Repeat("x,", 16) + " " + strings.Repeat("0,", 16) + "\n", ErrMalformed},
		{"wrong slot count", strings.Repeat("0,", 16) + "\n", ErrSlotMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".txt")
			os.WriteFile(path, []byte(tt.content), 0644)

			s := buildScript(t)
			err := s.ReadScript(path)
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
			if s.KeyframeCount() != 2 {
				t.Errorf("failed read changed the timeline: %d keyframes", s.KeyframeCount())
			}
		})
	}

	s := buildScript(t)
	if err := s.ReadScript(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestDocumentWriteRead(t *testing.T) {
	s := buildScript(t)
	names := []string{"a", "b"}

	doc, err := NewDocument(names, s.Keyframes())
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := WriteDocument(doc, path); err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}

	read, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if read.Version != DocumentVersion {
		t.Errorf("Version mismatch: %s", read.Version)
	}

	// slot order in the file does not matter, names do
	kfs, err := read.KeyframesFor([]string{"b", "a"})
	if err != nil {
		t.Fatalf("KeyframesFor failed: %v", err)
	}
	want := s.Keyframes()
	for i := range kfs {
		if !rbt.ApproxEqual(kfs[i][0], want[i][1], 1e-5) || !rbt.ApproxEqual(kfs[i][1], want[i][0], 1e-5) {
			t.Errorf("keyframe %d differs after round trip", i)
		}
	}

	if _, err := read.KeyframesFor([]string{"a", "c"}); !errors.Is(err, ErrSlotMismatch) {
		t.Errorf("Expected ErrSlotMismatch for unknown slot, got %v", err)
	}
	if _, err := NewDocument([]string{"a"}, s.Keyframes()); !errors.Is(err, ErrSlotMismatch) {
		t.Errorf("Expected ErrSlotMismatch for short name list, got %v", err)
	}
}

func TestGenerateScriptPath(t *testing.T) {
	path := GenerateScriptPath("scripts")

	if !strings.HasPrefix(path, filepath.Join("scripts", "script_")) || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("unexpected path: %s", path)
	}
	if IsTextScript(path) {
		t.Error("yaml path reported as text script")
	}
	if !IsTextScript("anim.TXT") {
		t.Error("txt path not reported as text script")
	}
}
