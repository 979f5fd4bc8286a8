package nodes

import "context"

// Capability is a bitset of flags a declared graph method carries. The
// zero value describes a read-only, unsaved, non-overlayable method.
type Capability uint8

const (
	// Settable methods can have their value directly assigned by a user
	// via Set, bypassing the underlying function.
	Settable Capability = 1 << iota
	// Serializable methods are included in Snapshot output, provided
	// they are also Settable (see Saved).
	Serializable
	// Overlayable methods can have their value temporarily forced within
	// an Overlay scope.
	Overlayable
)

// Has returns true if all of the given flags are set.
func (c Capability) Has(flags Capability) bool {
	return c&flags == flags
}

// Func is the underlying computation a MethodDescriptor wraps: given an
// owner and an argument tuple, it produces a value.
type Func[O any, A comparable, V any] func(ctx context.Context, owner O, args A) (V, error)

// DelegateFunc is invoked in place of a direct Set when a method has one
// configured. It receives the owner, the argument tuple, and the value the
// user wants to assign, and returns the actual list of node changes to
// apply. The original node named by the descriptor is not itself modified
// as a result of a delegated Set; only the returned NodeChanges are
// applied.
type DelegateFunc[O any, A comparable, V any] func(ctx context.Context, owner O, args A, value V) ([]NodeChange, error)

// MethodDescriptor is the immutable, static metadata for one user-declared
// graph method: its identity, its function, its capability flags, and an
// optional delegate that intercepts direct writes.
//
// A MethodDescriptor is shared across every owner instance and every
// argument tuple a method is called with; NodeKey is what distinguishes
// one node from another sharing the same descriptor.
type MethodDescriptor[O any, A comparable, V any] struct {
	name         string
	function     Func[O, A, V]
	capabilities Capability
	delegate     DelegateFunc[O, A, V]
}

// NewMethodDescriptor declares a new graph method named name, computed by
// fn, with the given capability flags. Pass WithDelegate to configure a
// write delegate.
func NewMethodDescriptor[O any, A comparable, V any](name string, fn Func[O, A, V], capabilities Capability, opts ...MethodOption[O, A, V]) *MethodDescriptor[O, A, V] {
	d := &MethodDescriptor[O, A, V]{
		name:         name,
		function:     fn,
		capabilities: capabilities,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MethodOption mutates a MethodDescriptor at declaration time.
type MethodOption[O any, A comparable, V any] func(*MethodDescriptor[O, A, V])

// WithDelegate configures a write delegate for the method. Only meaningful
// in combination with Settable.
func WithDelegate[O any, A comparable, V any](delegate DelegateFunc[O, A, V]) MethodOption[O, A, V] {
	return func(d *MethodDescriptor[O, A, V]) {
		d.delegate = delegate
	}
}

// Name returns the method's stable name, used in NodeKey identity and in
// Snapshot output.
func (d *MethodDescriptor[O, A, V]) Name() string { return d.name }

// IsSettable returns true if the method's value can be directly assigned.
func (d *MethodDescriptor[O, A, V]) IsSettable() bool { return d.capabilities.Has(Settable) }

// IsSerializable returns true if the method participates in Snapshot
// output (still gated on also being Settable; see IsSaved).
func (d *MethodDescriptor[O, A, V]) IsSerializable() bool { return d.capabilities.Has(Serializable) }

// IsOverlayable returns true if the method's value can be temporarily
// forced within an overlay scope.
func (d *MethodDescriptor[O, A, V]) IsOverlayable() bool { return d.capabilities.Has(Overlayable) }

// IsSaved returns true if the method is both Settable and Serializable —
// the combination Snapshot extracts.
func (d *MethodDescriptor[O, A, V]) IsSaved() bool {
	return d.capabilities.Has(Settable | Serializable)
}

// HasDelegate returns true if a write delegate is configured.
func (d *MethodDescriptor[O, A, V]) HasDelegate() bool { return d.delegate != nil }

// IsChangeable returns true if the method's effective value can change
// other than by recomputation: it is Settable, Overlayable, or delegates
// writes.
func (d *MethodDescriptor[O, A, V]) IsChangeable() bool {
	return d.IsSettable() || d.IsOverlayable() || d.HasDelegate()
}

// NodeChange is a (method, args, value) triple produced by a write
// delegate, naming the node it wants to assign and the value to assign to
// it. NodeChange is deliberately untyped on V so that a delegate can
// return changes against methods of differing value types in one slice;
// Handle.Set applies each through its Target, which writes the named
// node's value directly via Graph.applyDirect.
type NodeChange struct {
	// Target names the node to change. It is produced by a Handle's
	// internal change-constructor so that the captured owner, descriptor,
	// and argument tuple round-trip correctly regardless of V.
	Target nodeChangeTarget
}

// nodeChangeTarget is the type-erased application callback a Handle
// produces for NodeChange; it is unexported because NodeChange values
// should only ever be constructed via a Handle's Change method.
type nodeChangeTarget interface {
	apply(ctx context.Context, g *Graph) error
}
