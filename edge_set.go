package nodes

// edgeSet is an insertion-ordered, idempotent collection of *Node used for
// a node's input and output edges. It is not safe for concurrent use,
// matching the single-threaded scheduling model in spec.md §5.
//
// Insertion order is preserved because dependency capture order during
// evaluation is meaningful (spec.md §4.3's determinism note: "the order
// in which inputs are added equals the order of reads during the
// function's execution"); general iteration order otherwise carries no
// meaning and callers must not rely on it beyond that.
type edgeSet struct {
	order []*Node
	index map[*Node]int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{index: make(map[*Node]int)}
}

// add inserts n if it is not already present. Idempotent.
func (s *edgeSet) add(n *Node) {
	if _, ok := s.index[n]; ok {
		return
	}
	s.index[n] = len(s.order)
	s.order = append(s.order, n)
}

// remove deletes n if present. Idempotent.
func (s *edgeSet) remove(n *Node) {
	i, ok := s.index[n]
	if !ok {
		return
	}
	delete(s.index, n)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
}

// has returns true if n is present.
func (s *edgeSet) has(n *Node) bool {
	_, ok := s.index[n]
	return ok
}

// clear empties the set, returning the nodes it held in insertion order.
func (s *edgeSet) clear() []*Node {
	out := s.order
	s.order = nil
	s.index = make(map[*Node]int)
	return out
}

// values returns a snapshot slice of the set's members in insertion order.
func (s *edgeSet) values() []*Node {
	out := make([]*Node, len(s.order))
	copy(out, s.order)
	return out
}

func (s *edgeSet) len() int { return len(s.order) }
