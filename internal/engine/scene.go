package engine

import "sync"

// Scene is the render graph. The viewer keeps at most one object attached at
// a time, but the scene itself does not enforce that; the slot manager does.
type Scene struct {
	mu       sync.Mutex
	children []Object
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add attaches an object to the scene.
func (s *Scene) Add(obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children = append(s.children, obj)
}

// Remove detaches an object from the scene. Removing an object that is not
// attached is a no-op.
func (s *Scene) Remove(obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, child := range s.children {
		if child == obj {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Len returns the number of attached objects.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.children)
}

// Children returns a snapshot of the attached objects.
func (s *Scene) Children() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Object, len(s.children))
	copy(out, s.children)
	return out
}
