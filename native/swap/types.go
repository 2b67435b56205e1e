package swap

import (
	"fmt"
	"math/big"
)

// OrderStatus represents the lifecycle states of a swap order. A completed or
// cancelled order is removed from the store entirely, so the only status a
// stored order can carry is OrderListed; OrderNone exists for wire encoding
// and sanitisation of unstored values.
type OrderStatus uint8

const (
	OrderNone OrderStatus = iota
	OrderListed
)

// Valid reports whether the status value is within the supported range.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNone, OrderListed:
		return true
	default:
		return false
	}
}

// Asset names a single non-fungible token: the collection it belongs to and
// its unique identifier within that collection.
type Asset struct {
	Collection [20]byte
	TokenID    *big.Int
}

// Clone returns a deep copy of the asset reference.
func (a Asset) Clone() Asset {
	clone := Asset{Collection: a.Collection}
	if a.TokenID != nil {
		clone.TokenID = new(big.Int).Set(a.TokenID)
	}
	return clone
}

// Valid reports whether the asset carries a usable token identifier. Token
// ids must fit the 32-byte word used for id derivation and storage keys.
func (a Asset) Valid() bool {
	return a.TokenID != nil && a.TokenID.Sign() >= 0 && a.TokenID.BitLen() <= 256
}

// Order captures a single open swap request: the placer's identity, the asset
// deposited into custody, the asset wanted in return, and the mark-up the
// completer must additionally pay the placer. The identifier is the keccak256
// hash of the (give, want) four-tuple so a completer submitting the mirrored
// tuple derives the same id.
type Order struct {
	ID        [32]byte
	Owner     [20]byte
	Give      Asset
	Want      Asset
	MarkUp    *big.Int
	CreatedAt int64
	Status    OrderStatus
}

// Clone returns a deep copy of the order so callers can safely mutate the
// copy without affecting the stored instance.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Give = o.Give.Clone()
	clone.Want = o.Want.Clone()
	if o.MarkUp != nil {
		clone.MarkUp = new(big.Int).Set(o.MarkUp)
	} else {
		clone.MarkUp = big.NewInt(0)
	}
	return &clone
}

// SanitizeOrder validates and normalises the supplied order, returning a
// cloned instance with a non-nil mark-up. The original value is not mutated.
func SanitizeOrder(o *Order) (*Order, error) {
	if o == nil {
		return nil, fmt.Errorf("nil order")
	}
	clone := o.Clone()
	if !clone.Give.Valid() {
		return nil, fmt.Errorf("order give asset missing token id")
	}
	if !clone.Want.Valid() {
		return nil, fmt.Errorf("order want asset missing token id")
	}
	if clone.MarkUp.Sign() < 0 {
		return nil, fmt.Errorf("order mark-up must be non-negative")
	}
	if !clone.Status.Valid() {
		return nil, fmt.Errorf("invalid order status: %d", clone.Status)
	}
	return clone, nil
}

// Audit actions recorded in the append-only settlement log.
const (
	AuditActionPlaced    = "placed"
	AuditActionCompleted = "completed"
	AuditActionCancelled = "cancelled"
)

// AuditRecord is one entry of the append-only settlement log kept alongside
// the live order store. The live store only holds currently matchable orders;
// the log retains what happened to each order id over time.
type AuditRecord struct {
	OrderID      [32]byte
	Action       string
	Actor        [20]byte
	Counterparty [20]byte
	Fee          *big.Int
	MarkUp       *big.Int
	Timestamp    int64
}

// Clone returns a deep copy of the audit record.
func (r *AuditRecord) Clone() *AuditRecord {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Fee != nil {
		clone.Fee = new(big.Int).Set(r.Fee)
	} else {
		clone.Fee = big.NewInt(0)
	}
	if r.MarkUp != nil {
		clone.MarkUp = new(big.Int).Set(r.MarkUp)
	} else {
		clone.MarkUp = big.NewInt(0)
	}
	return &clone
}
