package swap

import (
	"fmt"
	"math/big"
	"sync"
)

// Params is the global engine configuration: the flat fee charged to each of
// placer and completer, and the ceiling on the per-order mark-up. The version
// increments on every administrative update so each engine call observes one
// consistent snapshot.
type Params struct {
	Version     uint64
	Fee         *big.Int
	MarkUpLimit *big.Int
}

// Clone returns a deep copy of the parameter set.
func (p Params) Clone() Params {
	clone := Params{Version: p.Version, Fee: big.NewInt(0), MarkUpLimit: big.NewInt(0)}
	if p.Fee != nil {
		clone.Fee = new(big.Int).Set(p.Fee)
	}
	if p.MarkUpLimit != nil {
		clone.MarkUpLimit = new(big.Int).Set(p.MarkUpLimit)
	}
	return clone
}

func sanitizeParams(fee, markUpLimit *big.Int) (*big.Int, *big.Int, error) {
	if fee == nil {
		fee = big.NewInt(0)
	}
	if markUpLimit == nil {
		markUpLimit = big.NewInt(0)
	}
	if fee.Sign() < 0 {
		return nil, nil, fmt.Errorf("swap: fee must be non-negative")
	}
	if markUpLimit.Sign() < 0 {
		return nil, nil, fmt.Errorf("swap: mark-up limit must be non-negative")
	}
	return new(big.Int).Set(fee), new(big.Int).Set(markUpLimit), nil
}

// ParamStore holds the current parameter snapshot. Updates come from the
// administrative surface only; the engine never mutates it.
type ParamStore struct {
	mu      sync.RWMutex
	current Params
}

// NewParamStore constructs a store seeded with the supplied fee and mark-up
// limit at version 1.
func NewParamStore(fee, markUpLimit *big.Int) (*ParamStore, error) {
	f, l, err := sanitizeParams(fee, markUpLimit)
	if err != nil {
		return nil, err
	}
	return &ParamStore{current: Params{Version: 1, Fee: f, MarkUpLimit: l}}, nil
}

// Current returns a copy of the active parameter snapshot.
func (s *ParamStore) Current() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update replaces the fee and mark-up limit, bumping the version, and returns
// the new snapshot.
func (s *ParamStore) Update(fee, markUpLimit *big.Int) (Params, error) {
	f, l, err := sanitizeParams(fee, markUpLimit)
	if err != nil {
		return Params{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Params{Version: s.current.Version + 1, Fee: f, MarkUpLimit: l}
	return s.current.Clone(), nil
}
