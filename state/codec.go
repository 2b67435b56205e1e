package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"swapvault/core/types"
	"swapvault/native/swap"
)

// Stored forms mirror the domain types with RLP-friendly fields (unsigned
// timestamps, non-nil big integers).

type storedAccount struct {
	Balance *big.Int
	Nonce   uint64
}

func encodeAccount(account *types.Account) ([]byte, error) {
	if account == nil {
		return nil, fmt.Errorf("state: nil account")
	}
	stored := storedAccount{Balance: account.Balance, Nonce: account.Nonce}
	if stored.Balance == nil {
		stored.Balance = big.NewInt(0)
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeAccount(data []byte) (*types.Account, error) {
	var stored storedAccount
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("state: decode account: %w", err)
	}
	account := &types.Account{Balance: stored.Balance, Nonce: stored.Nonce}
	if account.Balance == nil {
		account.Balance = big.NewInt(0)
	}
	return account, nil
}

type storedOrder struct {
	ID             [32]byte
	Owner          [20]byte
	GiveCollection [20]byte
	GiveTokenID    *big.Int
	WantCollection [20]byte
	WantTokenID    *big.Int
	MarkUp         *big.Int
	CreatedAt      uint64
}

func encodeOrder(order *swap.Order) ([]byte, error) {
	sanitized, err := swap.SanitizeOrder(order)
	if err != nil {
		return nil, fmt.Errorf("state: encode order: %w", err)
	}
	stored := storedOrder{
		ID:             sanitized.ID,
		Owner:          sanitized.Owner,
		GiveCollection: sanitized.Give.Collection,
		GiveTokenID:    sanitized.Give.TokenID,
		WantCollection: sanitized.Want.Collection,
		WantTokenID:    sanitized.Want.TokenID,
		MarkUp:         sanitized.MarkUp,
		CreatedAt:      uint64(sanitized.CreatedAt),
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeOrder(data []byte) (*swap.Order, error) {
	var stored storedOrder
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("state: decode order: %w", err)
	}
	return &swap.Order{
		ID:        stored.ID,
		Owner:     stored.Owner,
		Give:      swap.Asset{Collection: stored.GiveCollection, TokenID: stored.GiveTokenID},
		Want:      swap.Asset{Collection: stored.WantCollection, TokenID: stored.WantTokenID},
		MarkUp:    stored.MarkUp,
		CreatedAt: int64(stored.CreatedAt),
		Status:    swap.OrderListed,
	}, nil
}

type storedAudit struct {
	OrderID      [32]byte
	Action       string
	Actor        [20]byte
	Counterparty [20]byte
	Fee          *big.Int
	MarkUp       *big.Int
	Timestamp    uint64
}

func encodeAudit(record *swap.AuditRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("state: nil audit record")
	}
	clone := record.Clone()
	stored := storedAudit{
		OrderID:      clone.OrderID,
		Action:       clone.Action,
		Actor:        clone.Actor,
		Counterparty: clone.Counterparty,
		Fee:          clone.Fee,
		MarkUp:       clone.MarkUp,
		Timestamp:    uint64(clone.Timestamp),
	}
	return rlp.EncodeToBytes(&stored)
}

func decodeAudit(data []byte) (*swap.AuditRecord, error) {
	var stored storedAudit
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, fmt.Errorf("state: decode audit record: %w", err)
	}
	return &swap.AuditRecord{
		OrderID:      stored.OrderID,
		Action:       stored.Action,
		Actor:        stored.Actor,
		Counterparty: stored.Counterparty,
		Fee:          stored.Fee,
		MarkUp:       stored.MarkUp,
		Timestamp:    int64(stored.Timestamp),
	}, nil
}
