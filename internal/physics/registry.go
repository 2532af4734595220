package physics

import (
	"pxengine/internal/dynamics"
	"sort"
)

// registry is a fixed-capacity arena of bodies. Free slots are kept on a
// stack so allocation and removal never scan. Ids grow monotonically and are
// never handed out twice.
type registry struct {
	slots  []*Body
	free   []int
	nextID BodyID

	byID   map[BodyID]int
	byGeom map[*dynamics.Geom]BodyID
}

func newRegistry(capacity int) registry {
	r := registry{
		slots:  make([]*Body, capacity),
		free:   make([]int, capacity),
		nextID: 1,
		byID:   make(map[BodyID]int, capacity),
		byGeom: make(map[*dynamics.Geom]BodyID, capacity),
	}
	// lowest slot on top
	for i := range r.free {
		r.free[i] = capacity - 1 - i
	}
	return r
}

func (r *registry) full() bool { return len(r.free) == 0 }

func (r *registry) len() int { return len(r.byID) }

func (r *registry) capacity() int { return len(r.slots) }

// insert assigns b a slot and a fresh id. The caller checks full first.
func (r *registry) insert(b *Body) {
	slot := r.free[len(r.free)-1]
	r.free = r.free[:len(r.free)-1]

	b.id = r.nextID
	b.slot = slot
	r.nextID++

	r.slots[slot] = b
	r.byID[b.id] = slot
	r.byGeom[b.geom] = b.id
}

func (r *registry) remove(id BodyID) *Body {
	slot, ok := r.byID[id]
	if !ok {
		return nil
	}
	b := r.slots[slot]
	r.slots[slot] = nil
	r.free = append(r.free, slot)
	delete(r.byID, id)
	delete(r.byGeom, b.geom)
	return b
}

func (r *registry) get(id BodyID) *Body {
	slot, ok := r.byID[id]
	if !ok {
		return nil
	}
	return r.slots[slot]
}

func (r *registry) byGeometry(g *dynamics.Geom) *Body {
	id, ok := r.byGeom[g]
	if !ok {
		return nil
	}
	return r.get(id)
}

// ids returns every live id in creation order.
func (r *registry) ids() []BodyID {
	ids := make([]BodyID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
