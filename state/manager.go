package state

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"swapvault/core/types"
	"swapvault/storage"
)

var (
	errNoTransition = errors.New("state: mutation outside transition")
)

// Manager provides the authoritative state of the swap service: native
// currency accounts, the token ledger, the live order store and the audit
// log, all persisted to a key-value database.
//
// Mutations are only legal inside Transition, which buffers every write in an
// overlay and commits the whole set on success. When the supplied function
// returns an error the overlay is discarded entirely, so an aborted operation
// leaves no trace. Transitions and Views are serialized against each other;
// the raw accessors assume the caller holds one of them.
type Manager struct {
	db storage.Database

	mu      sync.Mutex
	overlay map[string][]byte
	deleted map[string]struct{}
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Transition runs fn with a write overlay attached. All mutations performed
// by fn commit together when fn returns nil, and are discarded together when
// it returns an error. The whole overlay lands in the database as one atomic
// batch write, so a commit failure or crash never persists a partial
// transition. The overlay is detached even when fn panics.
func (m *Manager) Transition(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlay = make(map[string][]byte)
	m.deleted = make(map[string]struct{})
	defer func() {
		m.overlay, m.deleted = nil, nil
	}()
	if err := fn(); err != nil {
		return err
	}
	batch := storage.NewBatch()
	for key := range m.deleted {
		batch.Delete([]byte(key))
	}
	for key, value := range m.overlay {
		batch.Put([]byte(key), value)
	}
	if err := m.db.Write(batch); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

// View runs fn with read access serialized against transitions. Mutations
// inside a view fail with an error.
func (m *Manager) View(fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

func (m *Manager) lookup(key []byte) ([]byte, bool, error) {
	if m.overlay != nil {
		if _, gone := m.deleted[string(key)]; gone {
			return nil, false, nil
		}
		if value, ok := m.overlay[string(key)]; ok {
			return value, true, nil
		}
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (m *Manager) set(key, value []byte) error {
	if m.overlay == nil {
		return errNoTransition
	}
	delete(m.deleted, string(key))
	m.overlay[string(key)] = value
	return nil
}

func (m *Manager) remove(key []byte) error {
	if m.overlay == nil {
		return errNoTransition
	}
	delete(m.overlay, string(key))
	m.deleted[string(key)] = struct{}{}
	return nil
}

// --- accounts ---

// GetAccount loads the account, returning a zero-balance account when the
// address has never been seen. Raw accessor: call within Transition or View.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	data, ok, err := m.lookup(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	return decodeAccount(data)
}

// PutAccount stores the account. Raw accessor: call within Transition.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	data, err := encodeAccount(account)
	if err != nil {
		return err
	}
	return m.set(accountKey(addr), data)
}

// Transfer moves the amount between native currency accounts, creating the
// recipient account on first use. A transfer exceeding the sender's balance
// fails without mutating anything.
func (m *Manager) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("state: negative transfer amount")
	}
	fromAcc, err := m.GetAccount(from)
	if err != nil {
		return err
	}
	if fromAcc.Balance.Cmp(amount) < 0 {
		return fmt.Errorf("state: insufficient balance")
	}
	if from == to {
		return nil
	}
	toAcc, err := m.GetAccount(to)
	if err != nil {
		return err
	}
	fromAcc.Balance = new(big.Int).Sub(fromAcc.Balance, amount)
	toAcc.Balance = new(big.Int).Add(toAcc.Balance, amount)
	if err := m.PutAccount(from, fromAcc); err != nil {
		return err
	}
	return m.PutAccount(to, toAcc)
}

// Mint credits the amount to the account. Used by the administrative surface
// and tests to fund balances.
func (m *Manager) Mint(addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("state: mint amount must be positive")
	}
	acc, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Add(acc.Balance, amount)
	return m.PutAccount(addr, acc)
}
