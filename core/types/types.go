package types

import "math/big"

// Account tracks the native balance used for swap fees, mark-ups and refunds.
type Account struct {
	Balance *big.Int
	Nonce   uint64
}

// Clone returns a deep copy of the account so callers can mutate the copy
// without affecting the stored instance.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	clone := &Account{Nonce: a.Nonce, Balance: big.NewInt(0)}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	return clone
}

// Event represents a structured state change emitted by the service.
type Event struct {
	Type       string
	Attributes map[string]string
}
