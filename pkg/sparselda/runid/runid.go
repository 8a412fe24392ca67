// Package runid generates sortable, unique run identifiers for training and
// inference runs, following cards.Builder's use of a monotonic ULID
// source so IDs minted in quick succession within one process still sort
// in generation order.
package runid

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// Generator mints monotonically increasing ULIDs.
type Generator struct {
	entropy *ulid.MonotonicEntropy
}

// New creates a Generator seeded from a cryptographically random source.
func New() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns the next run ID as a 26-character Crockford base32 string.
func (g *Generator) Next() string {
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}
