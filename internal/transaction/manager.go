package transaction

import (
	"errors"
	"fmt"

	"github.com/kartikbazzad/bunlist/storage"
)

// Transaction lifecycle errors
var (
	ErrTxnNotActive     = errors.New("transaction is not active")
	ErrTxnAlreadyActive = errors.New("a write transaction is already active")
)

// Manager coordinates the write-transaction lifecycle of one session.
// At most one write transaction is active at a time; this mirrors the
// single-threaded session model rather than guarding against races.
type Manager struct {
	store   *storage.Store
	current *Transaction
}

// NewManager creates a manager bound to the session's store.
func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store}
}

// Begin starts a new write transaction. It fails if one is already active.
func (m *Manager) Begin() (*Transaction, error) {
	if m.current != nil && m.current.Status == StatusActive {
		return nil, ErrTxnAlreadyActive
	}

	txn := newTransaction(uint64(m.store.Clock().Next()))
	m.current = txn
	return txn, nil
}

// Active returns the currently active write transaction, or nil.
func (m *Manager) Active() *Transaction {
	if m.current != nil && m.current.Status == StatusActive {
		return m.current
	}
	return nil
}

// InWrite reports whether a write transaction is currently active.
func (m *Manager) InWrite() bool {
	return m.Active() != nil
}

// Commit applies the transaction's write set to the store.
func (m *Manager) Commit(txn *Transaction) error {
	if txn == nil || txn.Status != StatusActive || txn != m.current {
		return fmt.Errorf("commit: %w", ErrTxnNotActive)
	}

	for key, obj := range txn.objects {
		m.store.PutObject(key, obj)
	}
	for key, refs := range txn.lists {
		m.store.PutList(key, refs)
	}

	txn.Status = StatusCommitted
	m.current = nil
	return nil
}

// Rollback discards the transaction's write set.
func (m *Manager) Rollback(txn *Transaction) error {
	if txn == nil || txn.Status != StatusActive || txn != m.current {
		return fmt.Errorf("rollback: %w", ErrTxnNotActive)
	}

	txn.Status = StatusAborted
	txn.objects = nil
	txn.lists = nil
	m.current = nil
	return nil
}

// WriteObject stages an object state in the active transaction.
func (m *Manager) WriteObject(txn *Transaction, key string, obj storage.Object) error {
	if txn == nil || txn.Status != StatusActive {
		return ErrTxnNotActive
	}
	txn.objects[key] = obj
	return nil
}

// WriteList stages a list membership in the active transaction.
func (m *Manager) WriteList(txn *Transaction, key string, refs []string) error {
	if txn == nil || txn.Status != StatusActive {
		return ErrTxnNotActive
	}
	txn.lists[key] = refs
	return nil
}

// ReadObject returns the object under key as seen by the session right now:
// the active transaction's write set first, then committed state.
func (m *Manager) ReadObject(key string) (storage.Object, bool) {
	if txn := m.Active(); txn != nil {
		if obj, ok := txn.objects[key]; ok {
			return obj, true
		}
	}
	return m.store.GetObject(key)
}

// ReadList returns the list membership under key as seen by the session
// right now, pending state included.
func (m *Manager) ReadList(key string) ([]string, bool) {
	if txn := m.Active(); txn != nil {
		if refs, ok := txn.lists[key]; ok {
			return refs, true
		}
	}
	return m.store.GetList(key)
}
