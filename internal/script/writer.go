package script

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMalformed is returned when a script line cannot be parsed
var ErrMalformed = errors.New("malformed script line")

// WriteScript exports the timeline as plain text: one line per keyframe,
// each slot as 16 comma-terminated column-major values, slots separated by
// a space.
func (s *Script) WriteScript(path string) error {
	return WriteKeyframes(path, s.keyframes)
}

// ReadScript loads a file produced by WriteScript and replaces the timeline
// with it. Nothing changes if the file does not parse or has the wrong
// number of slots.
func (s *Script) ReadScript(path string) error {
	kfs, err := ReadKeyframes(path)
	if err != nil {
		return err
	}
	if err := s.ReplaceKeyframes(kfs); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteKeyframes writes keyframes in the script text format
func WriteKeyframes(path string, kfs []Keyframe) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, kf := range kfs {
		w.Write(AppendKeyframe(nil, kf))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// AppendKeyframe appends one encoded keyframe line, newline included
func AppendKeyframe(dst []byte, kf Keyframe) []byte {
	for _, m := range kf {
		for _, v := range m {
			dst = strconv.AppendFloat(dst, float64(v), 'g', -1, 32)
			dst = append(dst, ',')
		}
		dst = append(dst, ' ')
	}
	return append(dst, '\n')
}

// ReadKeyframes parses a script text file. Blank lines are skipped.
func ReadKeyframes(path string) ([]Keyframe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var kfs []Keyframe
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		kf, err := ParseKeyframe(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		kfs = append(kfs, kf)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return kfs, nil
}

// ParseKeyframe decodes one line of the script text format
func ParseKeyframe(line string) (Keyframe, error) {
	blocks := strings.Fields(line)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	kf := make(Keyframe, len(blocks))
	for i, block := range blocks {
		values := strings.Split(strings.TrimSuffix(block, ","), ",")
		if len(values) != 16 {
			return nil, fmt.Errorf("%w: slot %d has %d values, want 16", ErrMalformed, i, len(values))
		}
		var m mgl32.Mat4
		for k, v := range values {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: slot %d value %d: %v", ErrMalformed, i, k, err)
			}
			m[k] = float32(f)
		}
		kf[i] = m
	}
	return kf, nil
}
