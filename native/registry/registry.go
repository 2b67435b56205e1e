package registry

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"swapvault/storage"
)

var assetPrefix = []byte("registry/asset/")

var errZeroCollection = errors.New("registry: collection is the zero address")

// Registry is the asset-class allow-list consulted by the swap engine. The
// eligible set is persisted and mirrored in memory so eligibility checks
// never touch the database.
type Registry struct {
	mu       sync.RWMutex
	db       storage.Database
	eligible map[[20]byte]struct{}
}

// Load opens the registry over the database, reading the persisted set.
func Load(db storage.Database) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("registry: database not configured")
	}
	r := &Registry{db: db, eligible: make(map[[20]byte]struct{})}
	err := db.Iterate(assetPrefix, func(key, value []byte) bool {
		raw := bytes.TrimPrefix(key, assetPrefix)
		if len(raw) != 20 {
			return true
		}
		var collection [20]byte
		copy(collection[:], raw)
		r.eligible[collection] = struct{}{}
		return true
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func assetKey(collection [20]byte) []byte {
	buf := make([]byte, 0, len(assetPrefix)+len(collection))
	buf = append(buf, assetPrefix...)
	return append(buf, collection[:]...)
}

// Authorize marks the collection as eligible for swapping. Idempotent.
func (r *Registry) Authorize(collection [20]byte) error {
	if collection == ([20]byte{}) {
		return errZeroCollection
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.db.Put(assetKey(collection), []byte{1}); err != nil {
		return err
	}
	r.eligible[collection] = struct{}{}
	return nil
}

// Revoke removes the collection from the eligible set. Orders already listed
// for the collection stay completable; the engine only consults the registry
// at placement time.
func (r *Registry) Revoke(collection [20]byte) error {
	if collection == ([20]byte{}) {
		return errZeroCollection
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.db.Delete(assetKey(collection)); err != nil {
		return err
	}
	delete(r.eligible, collection)
	return nil
}

// IsEligible reports whether the collection may participate in swaps.
func (r *Registry) IsEligible(collection [20]byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.eligible[collection]
	return ok
}

// List returns the eligible collections in deterministic order.
func (r *Registry) List() [][20]byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][20]byte, 0, len(r.eligible))
	for collection := range r.eligible {
		out = append(out, collection)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
