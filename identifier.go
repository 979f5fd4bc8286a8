package nodes

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// Identifier is a process-local unique value used to distinguish graphs,
// layers, overlays, and nodes from one another for logging and lookup
// purposes. It carries no ordering guarantees.
type Identifier [10]byte

// NewIdentifier returns a new random identifier.
func NewIdentifier() Identifier {
	var id Identifier
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Errorf("nodes: failed to read random bytes for identifier: %w", err))
	}
	return id
}

// IsZero returns true if the identifier is the zero value, which is never
// produced by NewIdentifier and is used as a sentinel for "no identifier".
func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

// String returns the full base32 encoding of the identifier.
func (id Identifier) String() string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(id[:])
}

// Short returns an abbreviated form of the identifier suitable for log
// lines and Stringer output, matching the convention node and graph
// labels use elsewhere in this package.
func (id Identifier) Short() string {
	s := id.String()
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}
