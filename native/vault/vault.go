package vault

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	errNilLedger   = errors.New("vault: ledger not configured")
	errZeroAddress = errors.New("vault: custody address not configured")
)

// Ledger is the slice of the token ledger the vault moves assets through.
type Ledger interface {
	OwnerOf(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error)
	TokenTransfer(collection [20]byte, tokenID *big.Int, from, to [20]byte) error
}

// Vault holds non-fungible assets in escrow under a dedicated custody
// account. An asset is in custody exactly while the custody account owns it,
// so releasing an asset that was already released (or never deposited) fails
// instead of silently moving the wrong token.
type Vault struct {
	ledger Ledger
	addr   [20]byte
}

// New constructs a vault bound to the supplied ledger and custody account.
func New(ledger Ledger, addr [20]byte) (*Vault, error) {
	if ledger == nil {
		return nil, errNilLedger
	}
	if addr == ([20]byte{}) {
		return nil, errZeroAddress
	}
	return &Vault{ledger: ledger, addr: addr}, nil
}

// Address returns the custody account.
func (v *Vault) Address() [20]byte { return v.addr }

// Deposit pulls the asset from the depositor into custody. The depositor must
// be the current owner.
func (v *Vault) Deposit(depositor [20]byte, collection [20]byte, tokenID *big.Int) error {
	owner, exists, err := v.ledger.OwnerOf(collection, tokenID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("vault: token does not exist")
	}
	if owner == v.addr {
		return fmt.Errorf("vault: token already in custody")
	}
	if owner != depositor {
		return fmt.Errorf("vault: depositor does not own token")
	}
	return v.ledger.TokenTransfer(collection, tokenID, depositor, v.addr)
}

// Release hands the asset in custody to the recipient.
func (v *Vault) Release(collection [20]byte, tokenID *big.Int, recipient [20]byte) error {
	owner, exists, err := v.ledger.OwnerOf(collection, tokenID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("vault: token does not exist")
	}
	if owner != v.addr {
		return fmt.Errorf("vault: token not in custody")
	}
	return v.ledger.TokenTransfer(collection, tokenID, v.addr, recipient)
}
