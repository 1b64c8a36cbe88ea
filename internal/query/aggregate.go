package query

// OrderedMap is a map whose iteration order is the order keys were first put.
// Putting an existing key replaces its value without moving it.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Get returns the value stored for key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Put stores value under key.
func (m *OrderedMap[K, V]) Put(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.values[key])
	}
	return out
}

// Folder tells Aggregate how to read parent and child ids from a joined row
// of type R and how to build and extend the aggregate E.
type Folder[R any, E any] struct {
	// Key returns the parent id of the row.
	Key func(R) int64
	// Build constructs the aggregate from the row's parent columns with an empty relation list.
	Build func(R) E
	// Child returns the joined related id, false when the join produced NULL.
	Child func(R) (int64, bool)
	// Extend returns a copy of the aggregate with one more related id.
	Extend func(E, int64) E
}

// Aggregate folds joined rows into aggregates keyed by parent id, in the order
// each parent first appears. Related ids keep join order and are not deduplicated.
func Aggregate[R any, E any](rows []R, f Folder[R, E]) *OrderedMap[int64, E] {
	out := NewOrderedMap[int64, E]()
	for _, row := range rows {
		id := f.Key(row)
		entity, seen := out.Get(id)
		if !seen {
			entity = f.Build(row)
			out.Put(id, entity)
		}

		childID, ok := f.Child(row)
		if !ok {
			continue
		}
		out.Put(id, f.Extend(entity, childID))
	}
	return out
}
