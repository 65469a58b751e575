// internal/app/relationship/pairlock.go
package relationship

import (
	"sync"

	"github.com/minglehub/minglehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pairLocks serializes mutating operations on the same unordered user pair.
// The engine writes two user documents (and sometimes an edge) per operation
// with no storage-level transaction, so concurrent Send/Accept on one pair
// would race; keying a mutex by the sorted pair makes each pair
// single-writer while leaving unrelated pairs fully concurrent. Entries are
// never evicted: the map is bounded by the number of distinct pairs a
// process actually touches.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the unordered pair and returns its unlock
// function.
func (p *pairLocks) Lock(a, b primitive.ObjectID) func() {
	key := models.PairKey(a, b)

	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
