// Package store defines the keyed entity store the projection writes
// through, plus an in-memory implementation for the single-writer hot path.
package store

import (
	"poolScope/internal/model"
)

// Store is keyed load/save/remove over persistent records. Absence on load
// is reported, not an error: handlers decide whether absence is a lazy-create
// trigger or an invariant violation.
type Store interface {
	Load(kind, id string) (model.Entity, bool)
	Save(entity model.Entity)
	Remove(kind, id string)
}

// Memory keeps all entities in maps and tracks which ids were written or
// removed since the last snapshot, so flushes only touch changed rows.
// Processing is strictly sequential (one writer), so no locking.
type Memory struct {
	data    map[string]map[string]model.Entity
	dirty   map[string]map[string]struct{}
	removed map[string]map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{
		data:    make(map[string]map[string]model.Entity),
		dirty:   make(map[string]map[string]struct{}),
		removed: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Load(kind, id string) (model.Entity, bool) {
	entity, ok := m.data[kind][id]
	return entity, ok
}

func (m *Memory) Save(entity model.Entity) {
	kind := entity.Kind()
	if m.data[kind] == nil {
		m.data[kind] = make(map[string]model.Entity)
	}
	m.data[kind][entity.ID()] = entity
	if m.dirty[kind] == nil {
		m.dirty[kind] = make(map[string]struct{})
	}
	m.dirty[kind][entity.ID()] = struct{}{}
	delete(m.removed[kind], entity.ID())
}

func (m *Memory) Remove(kind, id string) {
	delete(m.data[kind], id)
	delete(m.dirty[kind], id)
	if m.removed[kind] == nil {
		m.removed[kind] = make(map[string]struct{})
	}
	m.removed[kind][id] = struct{}{}
}

// Dirty returns the entities written since the last ClearChanges call.
func (m *Memory) Dirty(kind string) []model.Entity {
	ids := m.dirty[kind]
	if len(ids) == 0 {
		return nil
	}
	out := make([]model.Entity, 0, len(ids))
	for id := range ids {
		if entity, ok := m.data[kind][id]; ok {
			out = append(out, entity)
		}
	}
	return out
}

// Removed returns the ids removed since the last ClearChanges call.
func (m *Memory) Removed(kind string) []string {
	ids := m.removed[kind]
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// ClearChanges resets dirty and removed tracking after a snapshot flush.
func (m *Memory) ClearChanges() {
	m.dirty = make(map[string]map[string]struct{})
	m.removed = make(map[string]map[string]struct{})
}
