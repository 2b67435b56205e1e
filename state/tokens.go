package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

// The token ledger models ERC-721 style ownership: each (collection, token)
// pair has exactly one owner, an optional single-token approval that is
// cleared on transfer, and per-owner blanket operator approvals.

var zeroAddress [20]byte

// OwnerOf resolves the current owner of the token. ok=false means the token
// has never been minted. Raw accessor: call within Transition or View.
func (m *Manager) OwnerOf(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error) {
	data, ok, err := m.lookup(tokenKey(tokenOwnerPrefix, collection, tokenID))
	if err != nil || !ok {
		return zeroAddress, false, err
	}
	owner, err := decodeAddress(data)
	if err != nil {
		return zeroAddress, false, err
	}
	return owner, true, nil
}

// TokenApproved returns the single-token approval, if any. Raw accessor:
// call within Transition or View.
func (m *Manager) TokenApproved(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error) {
	data, ok, err := m.lookup(tokenKey(tokenApprovalPrefix, collection, tokenID))
	if err != nil || !ok {
		return zeroAddress, false, err
	}
	approved, err := decodeAddress(data)
	if err != nil {
		return zeroAddress, false, err
	}
	return approved, true, nil
}

// IsApprovedForAll reports whether the operator holds a blanket approval from
// the owner for the collection. Raw accessor: call within Transition or View.
func (m *Manager) IsApprovedForAll(collection [20]byte, owner, operator [20]byte) (bool, error) {
	_, ok, err := m.lookup(operatorKey(collection, owner, operator))
	return ok, err
}

// TokenMint registers a new token under the owner. Minting an existing token
// fails. Raw accessor: call within Transition.
func (m *Manager) TokenMint(collection [20]byte, tokenID *big.Int, owner [20]byte) error {
	if owner == zeroAddress {
		return fmt.Errorf("state: mint to zero address")
	}
	if _, exists, err := m.OwnerOf(collection, tokenID); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("state: token already minted")
	}
	data, err := encodeAddress(owner)
	if err != nil {
		return err
	}
	return m.set(tokenKey(tokenOwnerPrefix, collection, tokenID), data)
}

// TokenTransfer moves the token from its current owner to the recipient and
// clears any single-token approval. The from argument must match the stored
// owner. Raw accessor: call within Transition.
func (m *Manager) TokenTransfer(collection [20]byte, tokenID *big.Int, from, to [20]byte) error {
	if to == zeroAddress {
		return fmt.Errorf("state: transfer to zero address")
	}
	owner, exists, err := m.OwnerOf(collection, tokenID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("state: token does not exist")
	}
	if owner != from {
		return fmt.Errorf("state: transfer from non-owner")
	}
	data, err := encodeAddress(to)
	if err != nil {
		return err
	}
	if err := m.set(tokenKey(tokenOwnerPrefix, collection, tokenID), data); err != nil {
		return err
	}
	return m.remove(tokenKey(tokenApprovalPrefix, collection, tokenID))
}

// TokenApprove grants (or with the zero address clears) the single-token
// approval. The caller must be the owner or one of its operators. Raw
// accessor: call within Transition.
func (m *Manager) TokenApprove(collection [20]byte, tokenID *big.Int, caller, spender [20]byte) error {
	owner, exists, err := m.OwnerOf(collection, tokenID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("state: token does not exist")
	}
	if owner != caller {
		operator, err := m.IsApprovedForAll(collection, owner, caller)
		if err != nil {
			return err
		}
		if !operator {
			return fmt.Errorf("state: approve caller is not owner or operator")
		}
	}
	if spender == zeroAddress {
		return m.remove(tokenKey(tokenApprovalPrefix, collection, tokenID))
	}
	data, err := encodeAddress(spender)
	if err != nil {
		return err
	}
	return m.set(tokenKey(tokenApprovalPrefix, collection, tokenID), data)
}

// TokenSetApprovalForAll grants or revokes a blanket operator approval from
// the owner for the whole collection. Raw accessor: call within Transition.
func (m *Manager) TokenSetApprovalForAll(collection [20]byte, owner, operator [20]byte, approved bool) error {
	if operator == zeroAddress {
		return fmt.Errorf("state: operator is the zero address")
	}
	key := operatorKey(collection, owner, operator)
	if !approved {
		return m.remove(key)
	}
	return m.set(key, []byte{1})
}

func encodeAddress(addr [20]byte) ([]byte, error) {
	return rlp.EncodeToBytes(addr[:])
}

func decodeAddress(data []byte) ([20]byte, error) {
	var raw []byte
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return zeroAddress, fmt.Errorf("state: decode address: %w", err)
	}
	if len(raw) != 20 {
		return zeroAddress, fmt.Errorf("state: address length %d", len(raw))
	}
	var addr [20]byte
	copy(addr[:], raw)
	return addr, nil
}
