package script

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/keyframer/internal/rbt"
)

// DocumentVersion is written into every saved document
const DocumentVersion = "1.0"

// Document is the YAML form of a script: slot names plus, for each keyframe,
// every slot's translation and rotation.
type Document struct {
	Version   string          `yaml:"version"`
	Slots     []string        `yaml:"slots"`
	Keyframes []KeyframeEntry `yaml:"keyframes"`
}

// KeyframeEntry is one keyframe of a document
type KeyframeEntry struct {
	Index int    `yaml:"index"`
	Poses []Pose `yaml:"poses"`
}

// Pose is a rigid transform of one slot
type Pose struct {
	Slot        string     `yaml:"slot"`
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    [4]float32 `yaml:"rotation,flow"` // w, x, y, z
}

// NewDocument describes keyframes whose slots are named by names
func NewDocument(names []string, kfs []Keyframe) (*Document, error) {
	doc := &Document{
		Version:   DocumentVersion,
		Slots:     append([]string(nil), names...),
		Keyframes: make([]KeyframeEntry, 0, len(kfs)),
	}

	for i, kf := range kfs {
		if len(kf) != len(names) {
			return nil, fmt.Errorf("keyframe %d: %w: have %d, want %d", i, ErrSlotMismatch, len(kf), len(names))
		}
		entry := KeyframeEntry{Index: i, Poses: make([]Pose, len(kf))}
		for j, m := range kf {
			t := rbt.Translation(m)
			q := rbt.Rotation(m)
			entry.Poses[j] = Pose{
				Slot:        names[j],
				Translation: [3]float32{t.X(), t.Y(), t.Z()},
				Rotation:    [4]float32{q.W, q.V.X(), q.V.Y(), q.V.Z()},
			}
		}
		doc.Keyframes = append(doc.Keyframes, entry)
	}
	return doc, nil
}

// KeyframesFor rebuilds the keyframes with slots ordered as names. Every
// keyframe must carry a pose for each name.
func (d *Document) KeyframesFor(names []string) ([]Keyframe, error) {
	kfs := make([]Keyframe, 0, len(d.Keyframes))
	for i, entry := range d.Keyframes {
		poses := make(map[string]Pose, len(entry.Poses))
		for _, p := range entry.Poses {
			poses[p.Slot] = p
		}

		kf := make(Keyframe, len(names))
		for j, name := range names {
			p, ok := poses[name]
			if !ok {
				return nil, fmt.Errorf("keyframe %d: %w: no pose for slot %q", i, ErrSlotMismatch, name)
			}
			kf[j] = p.Transform()
		}
		kfs = append(kfs, kf)
	}
	return kfs, nil
}

// Transform converts the pose back to a matrix
func (p Pose) Transform() mgl32.Mat4 {
	t := mgl32.Vec3{p.Translation[0], p.Translation[1], p.Translation[2]}
	q := mgl32.Quat{W: p.Rotation[0], V: mgl32.Vec3{p.Rotation[1], p.Rotation[2], p.Rotation[3]}}
	// hand-edited documents may carry unnormalized or zero quaternions
	return rbt.Compose(t, q.Normalize())
}

// WriteDocument writes a document to a YAML file
func WriteDocument(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a document from a YAML file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
