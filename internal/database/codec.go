// file: internal/database/codec.go
// version: 1.0.0
// guid: 838d6557-3ded-44b6-81f6-0174f5afe67f

package database

import (
	"crypto/rand"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	ulid "github.com/oklog/ulid/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newULID returns identifiers that sort in creation order, including
// identifiers issued within the same millisecond.
func newULID() (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
