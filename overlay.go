package nodes

import "fmt"

// Overlay is a scope-bound bag of node→value bindings with
// populating/applied/removed/stash lifecycle, per spec.md §4.6.
//
// An overlay is populating from construction until the moment its first
// scope exit begins (spec.md §4.6: "populated during its first scope
// entry ... Set populating = false on exit"): while populating, an
// explicit clear of one of its own bindings (§4.5) forgets the binding
// entirely, since the overlay's membership is still being defined. Once
// populating is false, entering the overlay again reapplies its existing
// bindings (they may have been reverted by an earlier exit) and any new
// overlayValue calls made during that scope are redirected to a
// transient child overlay so the persistent overlay's own binding set is
// never mutated again; clearing a binding at that point — whether by an
// explicit ClearOverlay or the automatic revert on exit — only reverts
// the node's live state and leaves the overlay's bindings intact for the
// next entry.
//
// Grounded on original_source/nodes/nodes.py's GraphContext.
type Overlay struct {
	id     Identifier
	graph  *Graph
	layer  *Layer
	parent *Overlay

	// entered is true once this overlay has been pushed active at least
	// once; it distinguishes the overlay's first entry (which activates
	// it directly) from every later entry (which reapplies its bindings
	// and redirects new ones to a transient child).
	entered bool

	populating bool

	// bindings holds the nodes this overlay itself applied a value to
	// (as opposed to a value inherited by walking to a parent overlay).
	bindings map[*Node]any

	// stash holds, for a node this overlay is about to overlay that was
	// already overlaid by an ancestor overlay, the ancestor's prior
	// overlaid value and status — restored when this overlay removes its
	// own binding.
	stash map[*Node]overlayStash
}

type overlayStash struct {
	hadOverlay bool
	value      any
}

func newOverlay(graph *Graph, layer *Layer, parent *Overlay) *Overlay {
	return &Overlay{
		id:         NewIdentifier(),
		graph:      graph,
		layer:      layer,
		parent:     parent,
		populating: true,
		bindings:   make(map[*Node]any),
		stash:      make(map[*Node]overlayStash),
	}
}

// String renders the overlay for debugging and trace output.
func (o *Overlay) String() string {
	return fmt.Sprintf("overlay[%s]", o.id.Short())
}

// Enter activates the overlay as the graph's active scope. See enter for
// the apply-only re-entry rule.
func (o *Overlay) Enter() error {
	_, err := o.enter()
	return err
}

// Exit deactivates the graph's currently active overlay scope, restoring
// its bindings, and reactivates whatever was active before it.
func (o *Overlay) Exit() error {
	return o.exit()
}

// enter activates o as the graph's active overlay. The first call
// pushes o itself active; if o has no parent yet, the overlay active at
// that moment becomes its parent, which is what exit reactivates. Every
// later call is apply-only (spec.md
// §4.6): it reapplies o's existing bindings — undoing whatever an
// intervening exit reverted — and redirects the scope it opens to a
// fresh transient child of o, so that new overlayValue calls made during
// this entry bind to the child rather than o. Fails with
// ErrEvaluationActive if the graph is currently evaluating.
func (o *Overlay) enter() (*Overlay, error) {
	if o.graph.isComputing() {
		return nil, ErrEvaluationActive
	}
	if !o.entered {
		o.entered = true
		if o.parent == nil {
			o.parent = o.graph.activeOverlay()
		}
		o.graph.pushOverlayFrame(o)
		return o, nil
	}
	o.graph.reapplyOverlay(o)
	child := newOverlay(o.graph, o.layer, o)
	o.graph.pushOverlayFrame(child)
	return child, nil
}

// exit deactivates the graph's currently active overlay (o itself, or
// o's transient child after a repeated entry), reverting its bindings and
// reactivating that overlay's parent. Fails with ErrEvaluationActive if
// the graph is currently evaluating.
func (o *Overlay) exit() error {
	if o.graph.isComputing() {
		return ErrEvaluationActive
	}
	return o.graph.popOverlayFrame()
}

// apply records that value overlays node within o. If node was already
// overlaid by an ancestor overlay in o's parent chain, the ancestor's
// value is stashed so clear can restore it later.
func (o *Overlay) apply(node *Node, value any) {
	if _, alreadyBound := o.bindings[node]; !alreadyBound {
		o.stash[node] = overlayStash{hadOverlay: node.IsOverlaid(), value: node.overlaidValue}
	}
	o.bindings[node] = value
	node.overlaidValue = value
	node.status |= overlaid
}

// clear restores whichever value (if any) node was overlaid with
// immediately before o applied its own binding. Returns
// ErrNoOverlayPresent if o never bound node. Per spec.md §4.5, the
// binding itself is only forgotten — deleted from o.bindings and
// o.stash — while o is still populating; once populating is false
// (o has exited at least once before), the binding is left in place so
// a later entry of o can reapply it, and this call only reverts the
// node's live state.
func (o *Overlay) clear(node *Node) error {
	if _, ok := o.bindings[node]; !ok {
		return ErrNoOverlayPresent
	}
	prior := o.stash[node]
	if o.populating {
		delete(o.bindings, node)
		delete(o.stash, node)
	}
	if prior.hadOverlay {
		node.overlaidValue = prior.value
		node.status |= overlaid
	} else {
		node.overlaidValue = nil
		node.status &^= overlaid
	}
	return nil
}

// has returns true if o itself (not a parent) currently binds node.
func (o *Overlay) has(node *Node) bool {
	_, ok := o.bindings[node]
	return ok
}
