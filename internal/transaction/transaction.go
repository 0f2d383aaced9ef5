// Package transaction implements the write-transaction capability of a
// session. A transaction buffers pending object and list states in a write
// set; commit applies the set to the store, rollback discards it. Reads
// outside a transaction see committed state only; reads inside see the
// write set first (read-your-writes).
package transaction

import (
	"github.com/kartikbazzad/bunlist/storage"
)

// Status represents the lifecycle state of a transaction.
type Status int

const (
	StatusActive Status = iota
	StatusCommitted
	StatusAborted
)

// Transaction is a single write transaction. Mutations go through the
// Manager, which owns the active transaction of the session.
type Transaction struct {
	ID     uint64
	Status Status

	objects map[string]storage.Object
	lists   map[string][]string
}

func newTransaction(id uint64) *Transaction {
	return &Transaction{
		ID:      id,
		Status:  StatusActive,
		objects: make(map[string]storage.Object),
		lists:   make(map[string][]string),
	}
}

// WriteSetSize reports how many keys the transaction has touched.
func (t *Transaction) WriteSetSize() int {
	return len(t.objects) + len(t.lists)
}
