package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"swapvault/native/swap"
)

// OrderGet loads the LISTED order at the id. Raw accessor: call within
// Transition or View.
func (m *Manager) OrderGet(id [32]byte) (*swap.Order, bool, error) {
	data, ok, err := m.lookup(orderKey(id))
	if err != nil || !ok {
		return nil, false, err
	}
	order, err := decodeOrder(data)
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

// OrderPut stores the order under its id. Raw accessor: call within
// Transition.
func (m *Manager) OrderPut(order *swap.Order) error {
	if order == nil {
		return fmt.Errorf("state: nil order")
	}
	data, err := encodeOrder(order)
	if err != nil {
		return err
	}
	return m.set(orderKey(order.ID), data)
}

// OrderDelete removes the order, returning its slot to the unlisted state.
// Raw accessor: call within Transition.
func (m *Manager) OrderDelete(id [32]byte) error {
	return m.remove(orderKey(id))
}

// AuditAppend adds a record to the append-only settlement log for the
// record's order id. Raw accessor: call within Transition.
func (m *Manager) AuditAppend(record *swap.AuditRecord) error {
	if record == nil {
		return fmt.Errorf("state: nil audit record")
	}
	seq, err := m.auditSeq(record.OrderID)
	if err != nil {
		return err
	}
	data, err := encodeAudit(record)
	if err != nil {
		return err
	}
	if err := m.set(auditEntryKey(record.OrderID, seq), data); err != nil {
		return err
	}
	next, err := rlp.EncodeToBytes(seq + 1)
	if err != nil {
		return err
	}
	return m.set(auditSeqKey(record.OrderID), next)
}

// AuditList returns every settlement log entry for the order id, oldest
// first. Raw accessor: call within View.
func (m *Manager) AuditList(id [32]byte) ([]*swap.AuditRecord, error) {
	var records []*swap.AuditRecord
	var walkErr error
	err := m.db.Iterate(auditEntryScope(id), func(key, value []byte) bool {
		record, err := decodeAudit(value)
		if err != nil {
			walkErr = err
			return false
		}
		records = append(records, record)
		return true
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return records, nil
}

func (m *Manager) auditSeq(id [32]byte) (uint64, error) {
	data, ok, err := m.lookup(auditSeqKey(id))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	var seq uint64
	if err := rlp.DecodeBytes(data, &seq); err != nil {
		return 0, fmt.Errorf("state: decode audit sequence: %w", err)
	}
	return seq, nil
}

// OrderCount reports the number of LISTED orders. Used by the query surface;
// the walk is over committed state only.
func (m *Manager) OrderCount() (int, error) {
	count := 0
	err := m.db.Iterate(orderPrefix, func(key, value []byte) bool {
		count++
		return true
	})
	return count, err
}
