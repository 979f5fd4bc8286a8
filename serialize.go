package nodes

import "context"

// Snapshot extracts every Saved (Settable ∧ Serializable) field this
// binding declares into a plain map keyed by method name, suitable for
// persistence or transmission. Every Saved field is reported at its
// current effective value — computed or set — matching
// original_source/nodes/nodes.py's GraphObject.toDict, which calls the
// getter for every saved method unconditionally (spec.md §6: "extract
// ... a mapping from method name to current value, restricted to methods
// flagged Saved").
//
// Grounded on original_source/nodes/nodes.py's GraphObject.toDict.
func Snapshot[O any](ctx context.Context, fields []SnapshotField[O]) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		value, ok, err := f.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out[f.name()] = value
		}
	}
	return out, nil
}

// SnapshotField is the type-erased form of a Field used to build a
// Snapshot's field list, letting fields of differing value types share
// one slice.
type SnapshotField[O any] interface {
	name() string
	snapshot(ctx context.Context) (value any, ok bool, err error)
}

// SnapshotOf wraps a Saved field's Handle for inclusion in a Snapshot
// call. Panics if the field is not Saved, since that reflects a
// programming error in how the field list was built, not a runtime
// condition.
func SnapshotOf[O any, V any](f *Field[O, V]) SnapshotField[O] {
	if !f.descriptor.IsSaved() {
		panic("nodes: SnapshotOf requires a Saved (Settable and Serializable) field")
	}
	return snapshotField[O, V]{f}
}

type snapshotField[O any, V any] struct {
	handle *Field[O, V]
}

func (f snapshotField[O, V]) name() string { return f.handle.descriptor.Name() }

func (f snapshotField[O, V]) snapshot(ctx context.Context) (any, bool, error) {
	value, err := f.handle.Call(ctx)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}
