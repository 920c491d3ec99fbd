package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the root container plus the model group that acts as the
// showcase's rotation and scale pivot.
type Scene struct {
	Root       *Node
	ModelGroup *Node

	object *Node
}

// New creates a scene whose model group starts at the given yaw.
func New(initialYaw float32) *Scene {
	root := NewGroup("root")
	group := NewGroup("model")
	group.Rotation = mgl32.Vec3{0, initialYaw, 0}
	root.Add(group)
	return &Scene{Root: root, ModelGroup: group}
}

// Attach places the loaded object under the model group. A second call
// replaces the previous object.
func (s *Scene) Attach(obj *Node) {
	if obj == nil {
		return
	}
	if s.object != nil {
		s.ModelGroup.Remove(s.object)
	}
	s.ModelGroup.Add(obj)
	s.object = obj
}

// Object returns the loaded object, or nil while nothing has loaded.
func (s *Scene) Object() *Node {
	return s.object
}

// Target returns the node that input drives: the loaded object when
// present, otherwise the model group.
func (s *Scene) Target() *Node {
	if s.object != nil {
		return s.object
	}
	return s.ModelGroup
}
