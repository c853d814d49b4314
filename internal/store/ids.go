package store

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var timeNow = time.Now

// idSource mints ULIDs. Ids minted in the same millisecond keep increasing
// because the monotonic entropy is shared across calls.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *idSource) next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(timeNow()), s.entropy)
	if err != nil {
		return "", fmt.Errorf("mint id: %w", err)
	}
	return id.String(), nil
}
