// Package ulid generates the opaque identifiers used for server-side sessions.
package ulid

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// New generates a new ULID string.
func New() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsValid checks if a string is a well-formed ULID. Cookie values that fail
// this check are treated as absent.
func IsValid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
