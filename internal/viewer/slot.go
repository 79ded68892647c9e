package viewer

import (
	"sync"

	"github.com/roboscan/vrviewer/internal/engine"
)

// Slot owns the single active renderable of the scene. All scene mutation
// goes through it, so at most one object is ever attached to the render graph
// and replaced objects release their geometry and material before the next
// one is installed.
type Slot struct {
	scene *engine.Scene

	mu      sync.Mutex
	current engine.Object
}

// NewSlot creates an empty slot over the given scene.
func NewSlot(scene *engine.Scene) *Slot {
	return &Slot{scene: scene}
}

// Clear detaches and disposes the current object, if any. Clearing an empty
// slot is a no-op.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	s.scene.Remove(s.current)
	s.current.Dispose()
	s.current = nil
}

// Install attaches obj to the scene as the active object. Callers must Clear
// first within the same operation.
func (s *Slot) Install(obj engine.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = obj
	s.scene.Add(obj)
}

// Current returns the active object, or nil.
func (s *Slot) Current() engine.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsCurrent reports whether obj is still the active object. The texture
// loader checks this before swapping a texture into a photosphere that may
// have been replaced while the load was in flight.
func (s *Slot) IsCurrent(obj engine.Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == obj
}
