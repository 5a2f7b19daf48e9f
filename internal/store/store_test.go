package store

import (
	"testing"

	"poolScope/internal/model"
)

func TestMemoryLoadSaveRemove(t *testing.T) {
	mem := NewMemory()

	if _, ok := mem.Load(model.KindUser, "0xabc"); ok {
		t.Fatalf("expected empty store miss")
	}

	mem.Save(&model.User{Address: "0xabc"})
	entity, ok := mem.Load(model.KindUser, "0xabc")
	if !ok {
		t.Fatalf("expected hit after save")
	}
	if entity.ID() != "0xabc" {
		t.Fatalf("id mismatch: %s", entity.ID())
	}

	mem.Remove(model.KindUser, "0xabc")
	if _, ok := mem.Load(model.KindUser, "0xabc"); ok {
		t.Fatalf("expected miss after remove")
	}
}

func TestMemoryChangeTracking(t *testing.T) {
	mem := NewMemory()

	mem.Save(&model.User{Address: "0xaaa"})
	mem.Save(&model.User{Address: "0xbbb"})
	mem.Save(&model.User{Address: "0xaaa"})

	if dirty := mem.Dirty(model.KindUser); len(dirty) != 2 {
		t.Fatalf("expected 2 dirty users, got %d", len(dirty))
	}

	mem.ClearChanges()
	if dirty := mem.Dirty(model.KindUser); dirty != nil {
		t.Fatalf("expected no dirty users after clear, got %d", len(dirty))
	}

	// Entities stay loadable after a snapshot flush.
	if _, ok := mem.Load(model.KindUser, "0xbbb"); !ok {
		t.Fatalf("expected entity to survive clear")
	}

	mem.Remove(model.KindUser, "0xbbb")
	removed := mem.Removed(model.KindUser)
	if len(removed) != 1 || removed[0] != "0xbbb" {
		t.Fatalf("removed mismatch: %v", removed)
	}

	// Saving again cancels a pending removal.
	mem.Save(&model.User{Address: "0xbbb"})
	if removed := mem.Removed(model.KindUser); removed != nil {
		t.Fatalf("expected removal cancelled, got %v", removed)
	}
}
