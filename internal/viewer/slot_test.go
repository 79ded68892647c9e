package viewer

import (
	"testing"

	"github.com/roboscan/vrviewer/internal/engine"
)

func newTestPoints() *engine.Points {
	return engine.NewPoints(&engine.Geometry{}, &engine.Material{})
}

func TestSlot_InstallAndClear(t *testing.T) {
	scene := engine.NewScene()
	slot := NewSlot(scene)

	if slot.Current() != nil {
		t.Error("Expected empty slot")
	}

	first := newTestPoints()
	slot.Install(first)

	if slot.Current() != first {
		t.Error("Expected installed object to be current")
	}
	if scene.Len() != 1 {
		t.Errorf("Expected 1 scene object, got %d", scene.Len())
	}

	slot.Clear()

	if slot.Current() != nil {
		t.Error("Expected slot to be empty after clear")
	}
	if scene.Len() != 0 {
		t.Errorf("Expected empty scene after clear, got %d objects", scene.Len())
	}
	if !first.Geometry.Disposed() || !first.Material.Disposed() {
		t.Error("Expected cleared object to be disposed")
	}
}

func TestSlot_ClearIsIdempotent(t *testing.T) {
	slot := NewSlot(engine.NewScene())

	// Clearing an empty slot must be a no-op, repeatedly.
	slot.Clear()
	slot.Clear()

	slot.Install(newTestPoints())
	slot.Clear()
	slot.Clear()

	if slot.Current() != nil {
		t.Error("Expected slot to stay empty")
	}
}

func TestSlot_IsCurrent(t *testing.T) {
	scene := engine.NewScene()
	slot := NewSlot(scene)

	first := newTestPoints()
	slot.Install(first)

	if !slot.IsCurrent(first) {
		t.Error("Expected first object to be current")
	}

	second := newTestPoints()
	slot.Clear()
	slot.Install(second)

	if slot.IsCurrent(first) {
		t.Error("Expected replaced object to no longer be current")
	}
	if !slot.IsCurrent(second) {
		t.Error("Expected second object to be current")
	}
}
