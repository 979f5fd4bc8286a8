package nodes

import "context"

// GraphOptions holds the configuration a Graph is constructed with.
type GraphOptions struct {
	// Name is made available for error messages and tracing; it carries
	// no runtime meaning otherwise.
	Name string
}

// GraphOption mutates GraphOptions at construction time, in the teacher's
// functional-options convention (graph.go's GraphOption/GraphOptions).
type GraphOption func(*GraphOptions)

// WithName sets the graph's diagnostic name.
func WithName(name string) GraphOption {
	return func(o *GraphOptions) { o.Name = name }
}

// layerFrame is one entry of the graph's layer-entry stack: the layer
// that became active, and the overlay (if any) that was active
// immediately before it, so that exiting the layer can restore it.
type layerFrame struct {
	layer        *Layer
	priorOverlay *Overlay
}

// Graph is the top-level façade owning the root layer and the graph's
// currently active layer, overlay, and (while a computation is in
// flight) the node being computed. All mutation and scope-entry
// operations consult isComputing and fail with ErrEvaluationActive if a
// node is mid-evaluation, per spec.md §4.1 and §5.
//
// Grounded on graph.go's New(opts ...GraphOption) constructor shape and
// guard idiom, and on original_source/nodes/nodes.py's Graph class for
// getValue/setValue/clearSet/overlayValue/clearOverlay dispatch.
type Graph struct {
	id      Identifier
	name    string
	root    *Layer
	layers  []layerFrame
	overlay *Overlay

	computing *Node
}

// New constructs a graph with a fresh root layer and no active overlay.
func New(opts ...GraphOption) *Graph {
	options := GraphOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	g := &Graph{
		id:   NewIdentifier(),
		name: options.Name,
	}
	g.root = newLayer(g, nil)
	g.layers = []layerFrame{{layer: g.root}}
	return g
}

// String renders the graph for debugging and trace output.
func (g *Graph) String() string {
	if g.name != "" {
		return "graph[" + g.name + "]"
	}
	return "graph[" + g.id.Short() + "]"
}

// isComputing reports whether a node is currently being evaluated. While
// true, every mutating or scope-changing entry point refuses and returns
// ErrEvaluationActive — a computation may read freely but must not
// observe or cause side effects on the graph's shape (spec.md §5).
func (g *Graph) isComputing() bool {
	return g.computing != nil
}

// activeLayer returns the layer at the top of the entry stack: the
// layer new reads and writes resolve against.
func (g *Graph) activeLayer() *Layer {
	return g.layers[len(g.layers)-1].layer
}

// activeOverlay returns the currently active overlay, or nil if none is
// active.
func (g *Graph) activeOverlay() *Overlay {
	return g.overlay
}

func (g *Graph) pushLayerFrame(l *Layer) {
	g.layers = append(g.layers, layerFrame{layer: l, priorOverlay: g.overlay})
	g.overlay = nil
}

func (g *Graph) popLayerFrame() error {
	if len(g.layers) <= 1 {
		return ErrNoActiveScope
	}
	top := g.layers[len(g.layers)-1]
	g.layers = g.layers[:len(g.layers)-1]
	g.overlay = top.priorOverlay
	return nil
}

func (g *Graph) pushOverlayFrame(o *Overlay) {
	g.overlay = o
}

// popOverlayFrame deactivates the current overlay, first unwinding every
// binding it applied — restoring whatever value (if any) an ancestor
// overlay had bound, per spec.md §4.6's stash/restore contract — before
// making its parent the active overlay. o.populating is cleared before
// the unwind so that, on an overlay's first exit, its bindings survive
// in o.bindings for a later re-entry to reapply (spec.md §4.5, §4.6);
// only an explicit clear made while still populating forgets a binding.
func (g *Graph) popOverlayFrame() error {
	if g.overlay == nil {
		return ErrNoActiveScope
	}
	o := g.overlay
	o.populating = false
	for node := range o.bindings {
		o.clear(node)
		if !node.IsOverlaid() {
			node.status &^= valid
		}
		g.invalidateOutputs(node)
	}
	g.overlay = o.parent
	return nil
}

// reapplyOverlay re-applies every binding o itself currently holds to its
// bound nodes. Used when o is entered again after an earlier exit
// reverted its bindings' live effect on their nodes (spec.md §4.6:
// bindings are "applied on each subsequent entry"). Harmless to call
// when o's bindings are already applied (a nested re-entry with no
// intervening exit): Overlay.apply is idempotent for a node it has
// already bound.
func (g *Graph) reapplyOverlay(o *Overlay) {
	for node, value := range o.bindings {
		node.clearInputs()
		o.apply(node, value)
		node.status &^= valid
		g.invalidateOutputs(node)
	}
}

// Open constructs a new overlay scoped to the graph's currently active
// layer. Call Enter on the result to make it active.
func (g *Graph) Open() *Overlay {
	return newOverlay(g, g.activeLayer(), nil)
}

// OpenLayer constructs a new layer whose parent is the graph's currently
// active layer. Call Enter on the result to make it active.
func (g *Graph) OpenLayer() *Layer {
	return newLayer(g, g.activeLayer())
}

// resolveNode looks up (creating on miss) the node identified by key,
// against the graph's currently active layer.
func (g *Graph) resolveNode(key NodeKey, compute computeFunc) *Node {
	n, _ := g.activeLayer().lookupNode(key, true, compute)
	return n
}

// getValue returns node's effective value, computing it on a cache miss
// (or cache-invalid hit) by invoking its compute function with dependency
// capture active. Overlaid and Set nodes never invoke compute; spec.md
// invariant 2 guarantees a fixed node's cached slot is never stale
// because it is never consulted.
func (g *Graph) getValue(ctx context.Context, n *Node) (any, error) {
	if v, ok := n.effectiveValue(); ok && (n.IsFixed() || n.IsValid()) {
		g.recordRead(n)
		return v, nil
	}
	return g.recompute(ctx, n)
}

// recordRead, if a computation is in flight, records n as an input of
// the node currently being computed — the implicit dependency capture
// described in spec.md §4.3.
func (g *Graph) recordRead(n *Node) {
	if g.computing != nil && g.computing != n {
		g.computing.addInput(n)
	}
}

// recompute invokes n's compute function with dependency capture active,
// stores the result, and marks n valid. It is also the path taken by
// invalidation's eager-recompute-on-demand model: invalidated nodes are
// simply marked not-valid and left for the next getValue to recompute.
func (g *Graph) recompute(ctx context.Context, n *Node) (any, error) {
	n.clearInputs()
	prev := g.computing
	g.computing = n
	tracePrintf(ctx, "nodes: computing %s", n)
	value, err := n.compute(ctx)
	g.computing = prev
	if err != nil {
		return nil, err
	}
	n.calcedValue = value
	n.status |= valid
	g.recordRead(n)
	return value, nil
}

// setValue directly assigns value to n, bypassing compute. It does not
// consult any delegate: Handle.Set handles a delegating method itself and
// applies the delegate's NodeChanges through applyDirect, which never
// re-enters a delegate, so delegation cannot recurse.
func (g *Graph) setValue(ctx context.Context, n *Node, value any) error {
	if g.isComputing() {
		return ErrEvaluationActive
	}
	n.clearInputs()
	n.setValue = value
	n.status |= set
	n.status &^= valid
	g.invalidateOutputs(n)
	return nil
}

// applyDirect performs the plain invalidate-then-store-then-mark-Set
// sequence against n unconditionally, without consulting any delegate n's
// own descriptor might have. This is the path NodeChange targets use so
// that a write delegate's output is always final (spec.md §9).
func (g *Graph) applyDirect(n *Node, value any) {
	n.clearInputs()
	n.setValue = value
	n.status |= set
	n.status &^= valid
	g.invalidateOutputs(n)
}

// clearSet removes n's Set status, leaving it to recompute from its
// function on next read. No-op if n was not Set.
func (g *Graph) clearSet(n *Node) error {
	if g.isComputing() {
		return ErrEvaluationActive
	}
	if !n.IsSet() {
		return nil
	}
	n.setValue = nil
	n.status &^= set
	if !n.IsOverlaid() {
		n.status &^= valid
	}
	g.invalidateOutputs(n)
	return nil
}

// overlayValue binds value to n within the graph's currently active
// overlay. Fails with ErrNoActiveScope if no overlay is active.
func (g *Graph) overlayValue(n *Node, value any) error {
	if g.isComputing() {
		return ErrEvaluationActive
	}
	if g.overlay == nil {
		return ErrNoActiveScope
	}
	n.clearInputs()
	g.overlay.apply(n, value)
	n.status &^= valid
	g.invalidateOutputs(n)
	return nil
}

// clearOverlay removes the active overlay's binding for n, restoring
// whatever value (if any) an ancestor overlay had bound. Fails with
// ErrNoActiveScope if no overlay is active, or ErrNoOverlayPresent if the
// active overlay never bound n.
func (g *Graph) clearOverlay(n *Node) error {
	if g.isComputing() {
		return ErrEvaluationActive
	}
	if g.overlay == nil {
		return ErrNoActiveScope
	}
	if err := g.overlay.clear(n); err != nil {
		return err
	}
	if !n.IsOverlaid() {
		n.status &^= valid
	}
	g.invalidateOutputs(n)
	return nil
}

// invalidateOutputs marks every node transitively reachable from n via
// output edges as not-valid, stopping at nodes that are themselves Set or
// Overlaid, per spec.md §4.5: invalidation clears the Valid bit going
// forward from the written node but does not force eager recomputation;
// a fixed node is left untouched (it stays Valid) and its own outputs are
// not visited, since a fixed node's effective value cannot change as a
// result of its inputs changing.
//
// Each node is visited at most once, matching the "visited set" rule used
// throughout this module's traversals.
func (g *Graph) invalidateOutputs(n *Node) {
	visited := make(map[*Node]bool)
	var frontier []*Node
	frontier = append(frontier, n.outputs.values()...)
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur.IsFixed() {
			continue
		}
		if !cur.IsValid() {
			continue
		}
		cur.status &^= valid
		cur.calcedValue = nil
		frontier = append(frontier, cur.outputs.values()...)
	}
}
