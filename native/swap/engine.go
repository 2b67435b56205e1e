package swap

import (
	"fmt"
	"math/big"
	"time"

	"swapvault/core/events"
	"swapvault/core/types"
	nativecommon "swapvault/native/common"
)

const moduleName = "swap"

// engineState is the slice of the state manager the engine depends on. All
// mutations happen inside Transition, which commits on success and discards
// every buffered write on failure.
type engineState interface {
	Transition(fn func() error) error
	View(fn func() error) error
	OrderGet(id [32]byte) (*Order, bool, error)
	OrderPut(*Order) error
	OrderDelete(id [32]byte) error
	AuditAppend(*AuditRecord) error
	AuditList(id [32]byte) ([]*AuditRecord, error)
}

// AssetRegistry answers whether an asset class is eligible for swapping. The
// engine consults it, never mutates it.
type AssetRegistry interface {
	IsEligible(collection [20]byte) bool
}

// TokenLedger resolves current ownership and approvals of non-fungible
// tokens. OwnerOf reports ok=false when the token does not exist.
type TokenLedger interface {
	OwnerOf(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error)
	TokenApproved(collection [20]byte, tokenID *big.Int) ([20]byte, bool, error)
	IsApprovedForAll(collection [20]byte, owner, operator [20]byte) (bool, error)
}

// Bank moves attached payments, fees, mark-ups and refunds between accounts.
// Transfers are fallible; a failing transfer aborts the whole operation.
type Bank interface {
	Transfer(from, to [20]byte, amount *big.Int) error
}

// CustodyVault holds an asset in escrow on behalf of a depositor and releases
// it to a named recipient. Releasing an asset the vault does not hold fails,
// so the engine can never release the same escrowed item twice.
type CustodyVault interface {
	Deposit(depositor [20]byte, collection [20]byte, tokenID *big.Int) error
	Release(collection [20]byte, tokenID *big.Int, recipient [20]byte) error
}

// Engine orchestrates the asset registry, custody vault and fee accounting
// around the order store to provide atomic, fee-metered asset exchange.
type Engine struct {
	state    engineState
	registry AssetRegistry
	ledger   TokenLedger
	bank     Bank
	vault    CustodyVault
	params   *ParamStore
	emitter  events.Emitter
	pauses   nativecommon.PauseView
	nowFn    func() int64
	locks    *lockTable

	feeTreasury [20]byte
	collector   [20]byte
}

// NewEngine creates a swap engine with a no-op emitter. Callers wire the
// collaborators via the Set methods before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
		locks:   newLockTable(),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetRegistry configures the asset eligibility registry.
func (e *Engine) SetRegistry(registry AssetRegistry) { e.registry = registry }

// SetLedger configures the token ownership ledger.
func (e *Engine) SetLedger(ledger TokenLedger) { e.ledger = ledger }

// SetBank configures the payment transfer backend.
func (e *Engine) SetBank(bank Bank) { e.bank = bank }

// SetVault configures the custody vault holding escrowed assets.
func (e *Engine) SetVault(vault CustodyVault) { e.vault = vault }

// SetParams configures the store the engine snapshots fee parameters from.
func (e *Engine) SetParams(params *ParamStore) { e.params = params }

// SetFeeTreasury configures the account that accumulates protocol fees.
func (e *Engine) SetFeeTreasury(addr [20]byte) { e.feeTreasury = addr }

// SetCollector configures the account that holds attached payments while an
// operation is in flight.
func (e *Engine) SetCollector(addr [20]byte) { e.collector = addr }

// SetPauses configures the administrative pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily used in tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(swapEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) checkWired() error {
	switch {
	case e == nil || e.state == nil:
		return errNilState
	case e.registry == nil:
		return errNilRegistry
	case e.ledger == nil:
		return errNilLedger
	case e.bank == nil:
		return errNilBank
	case e.vault == nil:
		return errNilVault
	case e.params == nil:
		return errNilParams
	case e.feeTreasury == ([20]byte{}):
		return errNilTreasury
	case e.collector == ([20]byte{}):
		return errNilCollector
	}
	return nil
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func transferFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrTransferFailed, err)
}

// ownerOrAuthorized resolves the current owner of the asset and reports
// whether the candidate may transfer it: the candidate is the owner, holds
// the single-token approval, or holds a blanket operator approval from the
// owner. ok=false with a zero owner means the token does not exist.
func (e *Engine) ownerOrAuthorized(asset Asset, candidate [20]byte) (owner [20]byte, exists, authorized bool, err error) {
	owner, exists, err = e.ledger.OwnerOf(asset.Collection, asset.TokenID)
	if err != nil || !exists {
		return owner, exists, false, err
	}
	if owner == candidate {
		return owner, true, true, nil
	}
	approved, hasApproval, err := e.ledger.TokenApproved(asset.Collection, asset.TokenID)
	if err != nil {
		return owner, true, false, err
	}
	if hasApproval && approved == candidate {
		return owner, true, true, nil
	}
	all, err := e.ledger.IsApprovedForAll(asset.Collection, owner, candidate)
	if err != nil {
		return owner, true, false, err
	}
	return owner, true, all, nil
}

// PlaceSwapOrder registers a new swap request. On success the give asset sits
// in vault custody, the flat fee has been forwarded to the treasury, any
// payment above the fee has been refunded to the caller, and the returned
// order id references a LISTED order.
func (e *Engine) PlaceSwapOrder(caller [20]byte, give, want Asset, markUp, payment *big.Int) ([32]byte, error) {
	var id [32]byte
	if err := e.checkWired(); err != nil {
		return id, err
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return id, err
	}
	if !give.Valid() || !want.Valid() {
		return id, ErrInvalidAsset
	}
	p := e.params.Current()
	markUp = cloneOrZero(markUp)
	payment = cloneOrZero(payment)

	id = DeriveOrderID(give, want)
	unlock := e.locks.lock(id)
	defer unlock()

	var order *Order
	err := e.state.Transition(func() error {
		if !e.registry.IsEligible(give.Collection) || !e.registry.IsEligible(want.Collection) {
			return ErrAssetNotSupported
		}
		giveOwner, exists, authorized, err := e.ownerOrAuthorized(give, caller)
		if err != nil {
			return err
		}
		if !exists || !authorized {
			return ErrNotOwnerOrAuthorized
		}
		if markUp.Sign() < 0 || markUp.Cmp(p.MarkUpLimit) > 0 {
			return ErrMarkUpTooHigh
		}
		if _, listed, err := e.state.OrderGet(id); err != nil {
			return err
		} else if listed {
			return ErrOrderAlreadyExists
		}
		if _, wantExists, err := e.ledger.OwnerOf(want.Collection, want.TokenID); err != nil {
			return err
		} else if !wantExists {
			return ErrWantedAssetNonexistent
		}
		if payment.Cmp(p.Fee) < 0 {
			return ErrInsufficientFee
		}

		order = &Order{
			ID:        id,
			Owner:     caller,
			Give:      give.Clone(),
			Want:      want.Clone(),
			MarkUp:    markUp,
			CreatedAt: e.now(),
			Status:    OrderListed,
		}
		if err := e.state.OrderPut(order); err != nil {
			return transferFailed(err)
		}
		if err := e.bank.Transfer(caller, e.collector, payment); err != nil {
			return transferFailed(err)
		}
		if err := e.bank.Transfer(e.collector, e.feeTreasury, p.Fee); err != nil {
			return transferFailed(err)
		}
		if err := e.vault.Deposit(giveOwner, give.Collection, give.TokenID); err != nil {
			return transferFailed(err)
		}
		if excess := new(big.Int).Sub(payment, p.Fee); excess.Sign() > 0 {
			if err := e.bank.Transfer(e.collector, caller, excess); err != nil {
				return transferFailed(err)
			}
		}
		return e.state.AuditAppend(&AuditRecord{
			OrderID:   id,
			Action:    AuditActionPlaced,
			Actor:     caller,
			Fee:       cloneOrZero(p.Fee),
			MarkUp:    cloneOrZero(markUp),
			Timestamp: e.now(),
		})
	})
	if err != nil {
		return [32]byte{}, err
	}
	e.emit(NewOrderPlacedEvent(order))
	return id, nil
}

// CompleteSwapOrder fulfils an existing order. The arguments are from the
// completer's perspective, so the matching id is recomputed in the placer's
// field order: OrderID(want, give). Asset eligibility is not re-checked here;
// the existence of a LISTED order is proof the pair was eligible at placement
// time. All effects are atomic: the order record is deleted before any asset
// moves, and any later failure unwinds the whole operation.
func (e *Engine) CompleteSwapOrder(caller [20]byte, give, want Asset, payment *big.Int) ([32]byte, error) {
	var id [32]byte
	if err := e.checkWired(); err != nil {
		return id, err
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return id, err
	}
	if !give.Valid() || !want.Valid() {
		return id, ErrInvalidAsset
	}
	p := e.params.Current()
	payment = cloneOrZero(payment)

	id = DeriveOrderID(want, give)
	unlock := e.locks.lock(id)
	defer unlock()

	var order *Order
	err := e.state.Transition(func() error {
		giveOwner, exists, authorized, err := e.ownerOrAuthorized(give, caller)
		if err != nil {
			return err
		}
		if !exists || !authorized {
			return ErrNotOwnerOrAuthorized
		}
		stored, listed, err := e.state.OrderGet(id)
		if err != nil {
			return err
		}
		if !listed {
			return ErrOrderNotFound
		}
		due := new(big.Int).Add(p.Fee, stored.MarkUp)
		if payment.Cmp(due) < 0 {
			return ErrInsufficientFee
		}
		if caller == stored.Owner {
			return ErrSelfMatchForbidden
		}

		// Close the matching window before any asset movement.
		if err := e.state.OrderDelete(id); err != nil {
			return transferFailed(err)
		}
		if err := e.bank.Transfer(caller, e.collector, payment); err != nil {
			return transferFailed(err)
		}
		if err := e.bank.Transfer(e.collector, e.feeTreasury, p.Fee); err != nil {
			return transferFailed(err)
		}
		if err := e.vault.Deposit(giveOwner, give.Collection, give.TokenID); err != nil {
			return transferFailed(err)
		}
		if err := e.vault.Release(stored.Give.Collection, stored.Give.TokenID, caller); err != nil {
			return transferFailed(err)
		}
		if err := e.vault.Release(give.Collection, give.TokenID, stored.Owner); err != nil {
			return transferFailed(err)
		}
		if stored.MarkUp.Sign() > 0 {
			if err := e.bank.Transfer(e.collector, stored.Owner, stored.MarkUp); err != nil {
				return transferFailed(err)
			}
		}
		if excess := new(big.Int).Sub(payment, due); excess.Sign() > 0 {
			if err := e.bank.Transfer(e.collector, caller, excess); err != nil {
				return transferFailed(err)
			}
		}
		order = stored
		return e.state.AuditAppend(&AuditRecord{
			OrderID:      id,
			Action:       AuditActionCompleted,
			Actor:        caller,
			Counterparty: stored.Owner,
			Fee:          cloneOrZero(p.Fee),
			MarkUp:       cloneOrZero(stored.MarkUp),
			Timestamp:    e.now(),
		})
	})
	if err != nil {
		return [32]byte{}, err
	}
	e.emit(NewOrderCompletedEvent(order, caller))
	return id, nil
}

// CancelSwapOrder withdraws a LISTED order. Only the recorded owner may
// cancel; the escrowed give asset is returned to them.
func (e *Engine) CancelSwapOrder(caller [20]byte, id [32]byte) error {
	if err := e.checkWired(); err != nil {
		return err
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	unlock := e.locks.lock(id)
	defer unlock()

	var order *Order
	err := e.state.Transition(func() error {
		stored, listed, err := e.state.OrderGet(id)
		if err != nil {
			return err
		}
		if !listed {
			return ErrOrderNotFound
		}
		if stored.Owner != caller {
			return ErrNotOrderOwner
		}
		if err := e.state.OrderDelete(id); err != nil {
			return transferFailed(err)
		}
		if err := e.vault.Release(stored.Give.Collection, stored.Give.TokenID, stored.Owner); err != nil {
			return transferFailed(err)
		}
		order = stored
		return e.state.AuditAppend(&AuditRecord{
			OrderID:   id,
			Action:    AuditActionCancelled,
			Actor:     caller,
			Fee:       big.NewInt(0),
			MarkUp:    cloneOrZero(stored.MarkUp),
			Timestamp: e.now(),
		})
	})
	if err != nil {
		return err
	}
	e.emit(NewOrderCancelledEvent(order))
	return nil
}

// GetSwapOrder returns the LISTED order at the supplied id, or
// ErrOrderNotFound. No side effects.
func (e *Engine) GetSwapOrder(id [32]byte) (*Order, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var order *Order
	err := e.state.View(func() error {
		stored, listed, err := e.state.OrderGet(id)
		if err != nil {
			return err
		}
		if !listed {
			return ErrOrderNotFound
		}
		order = stored.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OrderAudit returns the append-only settlement history recorded for the
// order id, oldest first. The slice is empty when the id was never used.
func (e *Engine) OrderAudit(id [32]byte) ([]*AuditRecord, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var records []*AuditRecord
	err := e.state.View(func() error {
		list, err := e.state.AuditList(id)
		if err != nil {
			return err
		}
		records = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
