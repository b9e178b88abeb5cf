package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort lexicographically by creation
// time, so contact listings come back in insertion order straight from the
// range key without a separate sort attribute.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
