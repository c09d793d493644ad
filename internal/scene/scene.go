// Package scene holds the live, application-owned transforms that the
// keyframe script reads from and writes to.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ivlev/keyframer/internal/rbt"
)

// SlotID identifies one transform slot of a scene
type SlotID int

// Binding exposes scene slots by identifier. The script never owns the
// transforms behind it, it only reads and overwrites them.
type Binding interface {
	Transform(id SlotID) mgl32.Mat4
	SetTransform(id SlotID, m mgl32.Mat4)
}

// Object is a named rigid body of the scene
type Object struct {
	Name  string
	Frame mgl32.Mat4
	Color mgl32.Vec3
}

// Scene is an ordered set of objects addressed by SlotID
type Scene struct {
	objects []Object
	byName  map[string]SlotID
}

// New creates an empty scene
func New() *Scene {
	return &Scene{byName: make(map[string]SlotID)}
}

// Default builds the viewer's scene: the sky camera and two cubes
func Default() *Scene {
	s := New()
	s.Add("sky", mgl32.Translate3D(0, 0.25, 4), mgl32.Vec3{0, 0, 0})
	s.Add("cube0", mgl32.Translate3D(-1, 0, 0), mgl32.Vec3{1, 0, 0})
	s.Add("cube1", mgl32.Translate3D(1, 0, 0), mgl32.Vec3{0, 0, 1})
	return s
}

// Add appends an object and returns its slot
func (s *Scene) Add(name string, frame mgl32.Mat4, color mgl32.Vec3) SlotID {
	id := SlotID(len(s.objects))
	s.objects = append(s.objects, Object{Name: name, Frame: frame, Color: color})
	s.byName[name] = id
	return id
}

// Len returns the number of slots
func (s *Scene) Len() int {
	return len(s.objects)
}

// Slots returns every slot id in scene order
func (s *Scene) Slots() []SlotID {
	ids := make([]SlotID, len(s.objects))
	for i := range ids {
		ids[i] = SlotID(i)
	}
	return ids
}

// Lookup finds a slot by object name
func (s *Scene) Lookup(name string) (SlotID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Name returns the object name of a slot
func (s *Scene) Name(id SlotID) string {
	return s.objects[id].Name
}

// Names returns all object names in slot order
func (s *Scene) Names() []string {
	names := make([]string, len(s.objects))
	for i, o := range s.objects {
		names[i] = o.Name
	}
	return names
}

// Object returns a copy of the object in a slot
func (s *Scene) Object(id SlotID) Object {
	return s.objects[id]
}

func (s *Scene) Transform(id SlotID) mgl32.Mat4 {
	return s.objects[id].Frame
}

func (s *Scene) SetTransform(id SlotID, m mgl32.Mat4) {
	s.objects[id].Frame = m
}

// Translate moves object id by v expressed in the auxiliary frame of the
// object relative to the eye.
func (s *Scene) Translate(id, eye SlotID, v mgl32.Vec3) {
	s.apply(id, eye, mgl32.Translate3D(v.X(), v.Y(), v.Z()))
}

// Rotate turns object id about axis (eye-aligned, object-centered) by degrees
func (s *Scene) Rotate(id, eye SlotID, axis mgl32.Vec3, degrees float32) error {
	if axis.Len() == 0 {
		return fmt.Errorf("rotate %s: zero axis", s.Name(id))
	}
	s.apply(id, eye, mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize()))
	return nil
}

func (s *Scene) apply(id, eye SlotID, q mgl32.Mat4) {
	o := s.objects[id].Frame
	a := rbt.AuxFrame(o, s.objects[eye].Frame)
	s.objects[id].Frame = rbt.DoWrt(o, q, a)
}
