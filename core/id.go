package core

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	idMutex   sync.Mutex
)

// NewID returns a prefixed, time-ordered unique ID, eg. "note-01f8x...".
// IDs generated within the same millisecond still sort in creation order.
func NewID(prefix string) string {
	idMutex.Lock()
	defer idMutex.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy)
	return prefix + "-" + strings.ToLower(id.String())
}
