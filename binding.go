package nodes

import "context"

// NoArgs is the argument tuple used by zero-argument graph methods —
// the common case the spec calls an "object field" (§4.9).
type NoArgs struct{}

// ObjectBinding is a declared set of graph methods bound to a specific
// owner instance, giving callers typed Handles to invoke, set, and
// overlay those methods against a particular graph. It is the Go
// stand-in for the original's dynamic GraphObject/GraphInstanceMethod
// binding: instead of metaclass/decorator magic, a Handle is constructed
// explicitly from a MethodDescriptor, an owner, and a graph, and that
// constructor is the only path that can mint one.
//
// Grounded on original_source/nodes/nodes.py's GraphObject/
// GraphInstanceMethod.
type ObjectBinding[O any] struct {
	graph *Graph
	owner O
}

// NewObjectBinding binds owner's graph methods to graph. opts apply
// initial values for Settable methods, mirroring the original's
// keyword-argument GraphObject construction.
func NewObjectBinding[O any](graph *Graph, owner O, opts ...ObjectBindingOption[O]) *ObjectBinding[O] {
	b := &ObjectBinding[O]{graph: graph, owner: owner}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ObjectBindingOption mutates a binding at construction time, used for
// InitialValue.
type ObjectBindingOption[O any] func(*ObjectBinding[O])

// InitialValue seeds field's node with value via a direct Set, performed
// at binding-construction time. field must be Settable.
func InitialValue[O any, V any](field *MethodDescriptor[O, NoArgs, V], value V) ObjectBindingOption[O] {
	return func(b *ObjectBinding[O]) {
		h := BindField(b, field)
		// Construction-time seeding happens outside any evaluation, so a
		// failure here reflects a programming error (an unsettable field
		// passed to InitialValue) rather than a runtime condition callers
		// need to branch on.
		if err := h.Set(context.Background(), value); err != nil {
			panic(err)
		}
	}
}

// Graph returns the graph this binding is attached to.
func (b *ObjectBinding[O]) Graph() *Graph { return b.graph }

// Owner returns the bound owner instance.
func (b *ObjectBinding[O]) Owner() O { return b.owner }

// Handle is a typed façade over one node: owner, descriptor, and
// argument tuple bound together, giving Call/Set/ClearSet/Overlay/
// ClearOverlay methods with recovered value types. A Handle is only ever
// constructed by Bind or BindField; there is no second path to mint one.
type Handle[O any, A comparable, V any] struct {
	binding    *ObjectBinding[O]
	descriptor *MethodDescriptor[O, A, V]
	args       A
}

// Field is the zero-argument specialization of Handle, matching the
// spec's "object field" vocabulary. Go 1.21 does not support generic
// type aliases, so Field is its own named type rather than
// `= Handle[O, NoArgs, V]`; the embedded Handle is reachable as the
// field's Handle member where a generic helper needs one.
type Field[O any, V any] struct {
	Handle[O, NoArgs, V]
}

// Bind constructs a Handle against descriptor called with args, bound to
// b's owner and graph.
func Bind[O any, A comparable, V any](b *ObjectBinding[O], descriptor *MethodDescriptor[O, A, V], args A) *Handle[O, A, V] {
	return &Handle[O, A, V]{binding: b, descriptor: descriptor, args: args}
}

// BindField constructs a Field against a zero-argument descriptor.
func BindField[O any, V any](b *ObjectBinding[O], descriptor *MethodDescriptor[O, NoArgs, V]) *Field[O, V] {
	return &Field[O, V]{Handle: *Bind(b, descriptor, NoArgs{})}
}

// key returns this handle's NodeKey, built from owner identity,
// descriptor identity, and the argument tuple.
func (h *Handle[O, A, V]) key() NodeKey {
	return newNodeKey(h.binding.owner, h.descriptor, h.args)
}

func (h *Handle[O, A, V]) compute() computeFunc {
	return func(ctx context.Context) (any, error) {
		return h.descriptor.function(ctx, h.binding.owner, h.args)
	}
}

// node resolves this handle's node in the graph's active layer,
// creating it on first access.
func (h *Handle[O, A, V]) node() *Node {
	return h.binding.graph.resolveNode(h.key(), h.compute())
}

// forkedNode resolves this handle's node, forking a local copy into the
// active layer if it currently resolves to one owned by an ancestor
// layer. Write operations use this so that spec.md §4.7's
// fork-on-first-write contract holds regardless of which layer first
// created the node.
func (h *Handle[O, A, V]) forkedNode() *Node {
	return h.binding.graph.activeLayer().fork(h.key(), h.compute())
}

// Call returns the node's current effective value, computing it if
// necessary.
func (h *Handle[O, A, V]) Call(ctx context.Context) (V, error) {
	raw, err := h.binding.graph.getValue(ctx, h.node())
	if err != nil {
		var zero V
		return zero, err
	}
	return raw.(V), nil
}

// Set directly assigns value to this handle's node, bypassing its
// function. If the descriptor has a delegate, the delegate is
// consulted instead: its returned NodeChanges are applied and this
// node's own value is left untouched by the Set itself. Fails with
// ErrNotPermitted if the method is not Settable, and with
// ErrEvaluationActive if the graph is currently evaluating.
func (h *Handle[O, A, V]) Set(ctx context.Context, value V) error {
	if !h.descriptor.IsSettable() {
		return ErrNotPermitted
	}
	if h.descriptor.HasDelegate() {
		if h.binding.graph.isComputing() {
			return ErrEvaluationActive
		}
		changes, err := h.descriptor.delegate(ctx, h.binding.owner, h.args, value)
		if err != nil {
			return err
		}
		return h.applyChanges(ctx, changes)
	}
	return h.binding.graph.setValue(ctx, h.forkedNode(), value)
}

func (h *Handle[O, A, V]) applyChanges(ctx context.Context, changes []NodeChange) error {
	g := h.binding.graph
	for _, c := range changes {
		if err := c.Target.apply(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// ClearSet removes this node's directly-assigned value, if any, leaving
// it to recompute from its function on next read. Fails with
// ErrNotPermitted if the method is not Settable.
func (h *Handle[O, A, V]) ClearSet(ctx context.Context) error {
	if !h.descriptor.IsSettable() {
		return ErrNotPermitted
	}
	return h.binding.graph.clearSet(h.forkedNode())
}

// Overlay binds value to this node within the graph's currently active
// overlay. Fails with ErrNotPermitted if the method is not Overlayable,
// or ErrNoActiveScope if no overlay is active.
func (h *Handle[O, A, V]) Overlay(ctx context.Context, value V) error {
	if !h.descriptor.IsOverlayable() {
		return ErrNotPermitted
	}
	return h.binding.graph.overlayValue(h.forkedNode(), value)
}

// ClearOverlay removes the active overlay's binding for this node.
// Fails with ErrNotPermitted if the method is not Overlayable, with
// ErrNoActiveScope if no overlay is active, or with
// ErrNoOverlayPresent if the active overlay never bound this node.
func (h *Handle[O, A, V]) ClearOverlay(ctx context.Context) error {
	if !h.descriptor.IsOverlayable() {
		return ErrNotPermitted
	}
	return h.binding.graph.clearOverlay(h.forkedNode())
}

// IsSet returns true if this node currently carries a directly-assigned
// value.
func (h *Handle[O, A, V]) IsSet() bool { return h.node().IsSet() }

// IsOverlaid returns true if this node is currently forced by an
// overlay.
func (h *Handle[O, A, V]) IsOverlaid() bool { return h.node().IsOverlaid() }

// Change builds a NodeChange targeting this handle's node with the given
// value, for use as an element of a DelegateFunc's returned slice.
func (h *Handle[O, A, V]) Change(value V) NodeChange {
	return NodeChange{Target: &handleChange[O, A, V]{handle: h, value: value}}
}

// handleChange is the concrete nodeChangeTarget a Handle mints; it
// re-resolves (forking as needed) its handle's node against whatever
// graph and layer are active at apply time, and always applies directly
// — it never consults the target's own delegate, so delegation cannot
// recurse (spec.md §9).
type handleChange[O any, A comparable, V any] struct {
	handle *Handle[O, A, V]
	value  V
}

func (c *handleChange[O, A, V]) apply(ctx context.Context, g *Graph) error {
	g.applyDirect(c.handle.forkedNode(), c.value)
	return nil
}
