// Package scene holds the host-side entity store the bridge reconciles against.
//
// Components are stored per type, keyed by Entity. Every insertion and tracked
// mutation is stamped with the world tick, so systems can ask what was added,
// changed, or removed since the tick they last ran.
package scene

import (
	"reflect"
	"sort"
)

// Entity identifies a logical object owned by the host.
type Entity uint32

// Tick is a monotonically increasing world clock.
type Tick uint64

type stamp struct {
	added   Tick
	changed Tick
}

type column struct {
	values  map[Entity]any
	stamps  map[Entity]*stamp
	removed []removal
}

type removal struct {
	entity Entity
	tick   Tick
}

// World is a minimal component store with change detection.
//
// It is not safe for concurrent use; the bridge drives it from one goroutine.
type World struct {
	tick       Tick
	lastEntity Entity
	alive      map[Entity]struct{}
	columns    map[reflect.Type]*column
	despawned  []removal
}

// NewWorld returns an empty world at tick 1.
func NewWorld() *World {
	return &World{
		tick:    1,
		alive:   make(map[Entity]struct{}),
		columns: make(map[reflect.Type]*column),
	}
}

// Tick returns the current tick.
func (w *World) Tick() Tick {
	return w.tick
}

// Advance moves the clock forward and returns the tick that just ended.
func (w *World) Advance() Tick {
	prev := w.tick
	w.tick++
	return prev
}

// Spawn allocates a fresh entity. Entity ids are never reused.
func (w *World) Spawn() Entity {
	w.lastEntity++
	e := w.lastEntity
	w.alive[e] = struct{}{}
	return e
}

// Alive reports whether e has been spawned and not despawned.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Despawn removes e and all of its components.
func (w *World) Despawn(e Entity) {
	if _, ok := w.alive[e]; !ok {
		return
	}
	for _, col := range w.columns {
		if _, ok := col.values[e]; ok {
			delete(col.values, e)
			delete(col.stamps, e)
			col.removed = append(col.removed, removal{entity: e, tick: w.tick})
		}
	}
	delete(w.alive, e)
	w.despawned = append(w.despawned, removal{entity: e, tick: w.tick})
}

// Entities returns every live entity in ascending order.
func (w *World) Entities() []Entity {
	out := make([]Entity, 0, len(w.alive))
	for e := range w.alive {
		out = append(out, e)
	}
	sortEntities(out)
	return out
}

// DespawnedSince returns entities despawned at or after since.
func (w *World) DespawnedSince(since Tick) []Entity {
	return collectRemovals(w.despawned, since)
}

// Compact drops removal records older than before.
func (w *World) Compact(before Tick) {
	w.despawned = pruneRemovals(w.despawned, before)
	for _, col := range w.columns {
		col.removed = pruneRemovals(col.removed, before)
	}
}

func (w *World) column(t reflect.Type) *column {
	col, ok := w.columns[t]
	if !ok {
		col = &column{
			values: make(map[Entity]any),
			stamps: make(map[Entity]*stamp),
		}
		w.columns[t] = col
	}
	return col
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert attaches c to e, replacing any previous value of the same type.
// A fresh insert counts as added, a replacement as changed.
func Insert[T any](w *World, e Entity, c T) {
	if !w.Alive(e) {
		return
	}
	col := w.column(typeOf[T]())
	v := c
	col.values[e] = &v
	if st, ok := col.stamps[e]; ok {
		st.changed = w.tick
		return
	}
	col.stamps[e] = &stamp{added: w.tick, changed: w.tick}
}

// InsertIfNew attaches c only when e has no component of that type yet.
func InsertIfNew[T any](w *World, e Entity, c T) bool {
	if Has[T](w, e) {
		return false
	}
	Insert(w, e, c)
	return Has[T](w, e)
}

// Remove detaches the component of type T from e.
func Remove[T any](w *World, e Entity) {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return
	}
	if _, ok := col.values[e]; !ok {
		return
	}
	delete(col.values, e)
	delete(col.stamps, e)
	col.removed = append(col.removed, removal{entity: e, tick: w.tick})
}

// Has reports whether e carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return false
	}
	_, ok = col.values[e]
	return ok
}

// Get returns the stored component. Writes through the pointer are not
// change-tracked; use GetMut for that.
func Get[T any](w *World, e Entity) (*T, bool) {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return nil, false
	}
	v, ok := col.values[e]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// GetMut returns the stored component and marks it changed.
func GetMut[T any](w *World, e Entity) (*T, bool) {
	v, ok := Get[T](w, e)
	if !ok {
		return nil, false
	}
	w.columns[typeOf[T]()].stamps[e].changed = w.tick
	return v, true
}

// Each returns every entity carrying T, in ascending order.
func Each[T any](w *World) []Entity {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return nil
	}
	out := make([]Entity, 0, len(col.values))
	for e := range col.values {
		out = append(out, e)
	}
	sortEntities(out)
	return out
}

// AddedSince returns entities whose T was inserted at or after since.
func AddedSince[T any](w *World, since Tick) []Entity {
	return filterStamps[T](w, func(st *stamp) bool { return st.added >= since })
}

// ChangedSince returns entities whose T was inserted or mutated at or after since.
func ChangedSince[T any](w *World, since Tick) []Entity {
	return filterStamps[T](w, func(st *stamp) bool { return st.changed >= since })
}

// RemovedSince returns entities that lost T (directly or by despawn) at or
// after since.
func RemovedSince[T any](w *World, since Tick) []Entity {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return nil
	}
	return collectRemovals(col.removed, since)
}

func filterStamps[T any](w *World, keep func(*stamp) bool) []Entity {
	col, ok := w.columns[typeOf[T]()]
	if !ok {
		return nil
	}
	var out []Entity
	for e, st := range col.stamps {
		if keep(st) {
			out = append(out, e)
		}
	}
	sortEntities(out)
	return out
}

func collectRemovals(list []removal, since Tick) []Entity {
	var out []Entity
	seen := make(map[Entity]struct{})
	for _, r := range list {
		if r.tick < since {
			continue
		}
		if _, dup := seen[r.entity]; dup {
			continue
		}
		seen[r.entity] = struct{}{}
		out = append(out, r.entity)
	}
	return out
}

func pruneRemovals(list []removal, before Tick) []removal {
	kept := list[:0]
	for _, r := range list {
		if r.tick >= before {
			kept = append(kept, r)
		}
	}
	return kept
}

func sortEntities(es []Entity) {
	sort.Slice(es, func(i, j int) bool { return es[i] < es[j] })
}
