package nodes

import "errors"

// Sentinel errors returned by write and scope operations. Callers should
// use errors.Is against these rather than matching on error text.
var (
	// ErrNotPermitted is returned when a write operation targets a method
	// that lacks the capability the operation requires (e.g. setting a
	// non-Settable method, or overlaying a non-Overlayable one).
	ErrNotPermitted = errors.New("nodes: operation not permitted for this method")

	// ErrEvaluationActive is returned by any mutating operation, or any
	// layer/overlay scope enter or exit, attempted while the graph is in
	// the middle of computing a value.
	ErrEvaluationActive = errors.New("nodes: graph is currently evaluating a node")

	// ErrNoActiveScope is returned by an overlay operation performed
	// without an enclosing overlay scope having been entered.
	ErrNoActiveScope = errors.New("nodes: no active overlay scope")

	// ErrNoOverlayPresent is returned when an overlay is asked to clear a
	// binding for a node it never bound (e.g. ClearOverlay on a node the
	// active overlay does not bind).
	ErrNoOverlayPresent = errors.New("nodes: node has no overlay present")

	// ErrDuplicateNode is returned by explicit node creation in a layer
	// that already owns a node for the given key.
	ErrDuplicateNode = errors.New("nodes: node already exists in this layer")

	// ErrUnsupported is returned when an operation is invoked along a
	// pathway this module does not implement.
	ErrUnsupported = errors.New("nodes: operation not supported")
)
