package nodes

import "fmt"

// NodeKey is the value-identity of a node: the tuple (owner object
// identity, method descriptor identity, argument tuple). Two NodeKeys
// compare equal, and therefore refer to the same logical node within a
// layer, exactly when all three components compare equal.
//
// Owners are expected to be pointer-typed (or otherwise carry identity
// under ==, the way Python object identity does for the graph this module
// ports); descriptors are always pointers, so descriptor identity is
// address identity; args must satisfy Go's comparable constraint, which
// mirrors the original's requirement that argument tuples be hashable.
type NodeKey struct {
	owner      any
	descriptor any
	args       any
}

// newNodeKey builds a NodeKey from type-erased components. Handle is the
// only caller; it is responsible for supplying a comparable args value.
func newNodeKey(owner, descriptor, args any) NodeKey {
	return NodeKey{owner: owner, descriptor: descriptor, args: args}
}

// String renders the key for debugging and trace output.
func (k NodeKey) String() string {
	return fmt.Sprintf("(%v, %v, %v)", k.owner, k.descriptor, k.args)
}
