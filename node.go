package nodes

import (
	"context"
	"fmt"
)

// status is the node flag word described in spec.md §9 ("Status as flag
// word"): three independent bits tracking whether the cached computed
// value is current, whether the node carries a user-assigned value, and
// whether an overlay is currently forcing its value.
type status uint8

const (
	valid status = 1 << iota
	set
	overlaid
)

func (s status) has(bits status) bool { return s&bits == bits }

// computeFunc is the type-erased form of a MethodDescriptor's function,
// closed over a specific owner and argument tuple by the Handle that
// creates the node. It is what Graph.recompute calls on a cache miss.
type computeFunc func(ctx context.Context) (any, error)

// Node is the runtime state of one memoized computation: its identity,
// the layer that owns it, its cached/set/overlaid value slots and status
// bits, and its input/output edge sets.
//
// Node deliberately stores values as `any`: a node's declared value type
// lives only in its Handle (the typed façade), which recovers it with a
// type assertion on read. This mirrors the teacher's split between a
// type-erased Node and its typed Incr[T] wrapper.
type Node struct {
	key   NodeKey
	layer *Layer

	status status

	calcedValue   any
	setValue      any
	overlaidValue any

	inputs  *edgeSet
	outputs *edgeSet

	compute computeFunc
}

// newNode constructs a node for key, owned by layer, computed by compute
// on a cache miss.
func newNode(key NodeKey, layer *Layer, compute computeFunc) *Node {
	return &Node{
		key:     key,
		layer:   layer,
		inputs:  newEdgeSet(),
		outputs: newEdgeSet(),
		compute: compute,
	}
}

// Key returns the node's identity.
func (n *Node) Key() NodeKey { return n.key }

// String renders the node for debugging and trace output, in the
// teacher's Stringer convention (node.go's String(nodeType string)).
func (n *Node) String() string {
	return fmt.Sprintf("node[%s]", n.key)
}

// IsValid returns true if the cached computed value is current.
func (n *Node) IsValid() bool { return n.status.has(valid) }

// IsSet returns true if the node carries a directly-assigned value.
func (n *Node) IsSet() bool { return n.status.has(set) }

// IsOverlaid returns true if an overlay is currently forcing the node's
// value.
func (n *Node) IsOverlaid() bool { return n.status.has(overlaid) }

// IsFixed returns true if the node is an invalidation frontier: Set or
// Overlaid.
func (n *Node) IsFixed() bool { return n.status.has(set) || n.status.has(overlaid) }

// effectiveValue returns the node's current value under the precedence
// rule in spec.md §4.5 invariant 3: Overlaid > Set > Computed. ok is false
// only if none of the three states hold (the node is neither overlaid nor
// set, and has no valid computed value, either because it was never
// computed or because it has been invalidated).
func (n *Node) effectiveValue() (value any, ok bool) {
	switch {
	case n.IsOverlaid():
		return n.overlaidValue, true
	case n.IsSet():
		return n.setValue, true
	case n.IsValid():
		return n.calcedValue, true
	default:
		return nil, false
	}
}

//
// Edge bookkeeping (spec.md §4.2). All operations are idempotent set
// mutations; addInput/addOutput and removeInput/removeOutput always keep
// the reciprocal edge in sync so invariant 1 (A ∈ B.inputs ⇔ B ∈ A.outputs)
// holds after every call.
//

// addInput records that n read other during its most recent evaluation.
func (n *Node) addInput(other *Node) {
	n.inputs.add(other)
	other.outputs.add(n)
}

// addOutput records that other read n during its most recent evaluation.
func (n *Node) addOutput(other *Node) {
	n.outputs.add(other)
	other.inputs.add(n)
}

// removeInput removes other from n's inputs and n from other's outputs.
func (n *Node) removeInput(other *Node) {
	n.inputs.remove(other)
	other.outputs.remove(n)
}

// removeOutput removes other from n's outputs and n from other's inputs.
func (n *Node) removeOutput(other *Node) {
	n.outputs.remove(other)
	other.inputs.remove(n)
}

// clearInputs removes every input of n, simultaneously removing n from
// each former input's outputs. Per spec.md invariant 4, a fixed node
// (Set or Overlaid) has an empty input set: this is called both when a
// node is about to be recomputed (before invoking its function, so
// stale edges don't linger) and when a node transitions to Set or
// Overlaid (since fixed nodes no longer derive their value from reads).
func (n *Node) clearInputs() {
	for _, in := range n.inputs.clear() {
		in.outputs.remove(n)
	}
}
