package transaction

import (
	"errors"
	"testing"

	"github.com/kartikbazzad/bunlist/storage"
)

func TestTransactionBeginCommit(t *testing.T) {
	store := storage.NewStore()
	tm := NewManager(store)

	txn, err := tm.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	if txn.ID == 0 {
		t.Error("Transaction ID should be non-zero")
	}
	if txn.Status != StatusActive {
		t.Error("New transaction should be active")
	}
	if !tm.InWrite() {
		t.Error("Manager should report an active write transaction")
	}

	// Stage some state
	if err := tm.WriteObject(txn, "Person:1", storage.Object{"_id": "1", "name": "a"}); err != nil {
		t.Fatalf("Failed to write object: %v", err)
	}
	if err := tm.WriteList(txn, "Person:1:friends", []string{"2", "3"}); err != nil {
		t.Fatalf("Failed to write list: %v", err)
	}

	if txn.WriteSetSize() != 2 {
		t.Errorf("Expected 2 staged writes, got %d", txn.WriteSetSize())
	}

	// Pending state is visible through merged reads but not in the store
	if _, ok := store.GetObject("Person:1"); ok {
		t.Error("Uncommitted object should not be in the store")
	}
	if _, ok := tm.ReadObject("Person:1"); !ok {
		t.Error("Uncommitted object should be visible through the manager")
	}

	if err := tm.Commit(txn); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	if txn.Status != StatusCommitted {
		t.Error("Transaction should be committed")
	}
	if tm.InWrite() {
		t.Error("Manager should have no active transaction after commit")
	}

	if _, ok := store.GetObject("Person:1"); !ok {
		t.Error("Committed object should be in the store")
	}
	refs, ok := store.GetList("Person:1:friends")
	if !ok || len(refs) != 2 {
		t.Errorf("Committed list should have 2 refs, got %v", refs)
	}
	if store.ListVersion("Person:1:friends") == 0 {
		t.Error("Committed list should carry a version stamp")
	}
}

func TestTransactionRollback(t *testing.T) {
	store := storage.NewStore()
	tm := NewManager(store)

	txn, err := tm.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	if err := tm.WriteList(txn, "Person:1:friends", []string{"2"}); err != nil {
		t.Fatalf("Failed to write list: %v", err)
	}

	if err := tm.Rollback(txn); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}
	if txn.Status != StatusAborted {
		t.Error("Transaction should be aborted")
	}

	if _, ok := store.GetList("Person:1:friends"); ok {
		t.Error("Rolled-back list should not be in the store")
	}
	if _, ok := tm.ReadList("Person:1:friends"); ok {
		t.Error("Rolled-back list should not be visible through the manager")
	}
}

func TestSingleActiveTransaction(t *testing.T) {
	store := storage.NewStore()
	tm := NewManager(store)

	txn, err := tm.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	if _, err := tm.Begin(); !errors.Is(err, ErrTxnAlreadyActive) {
		t.Errorf("Expected ErrTxnAlreadyActive, got %v", err)
	}

	if err := tm.Commit(txn); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	// A new transaction can start once the previous one finished
	if _, err := tm.Begin(); err != nil {
		t.Fatalf("Failed to begin after commit: %v", err)
	}
}

func TestWriteAfterFinishFails(t *testing.T) {
	store := storage.NewStore()
	tm := NewManager(store)

	txn, _ := tm.Begin()
	if err := tm.Commit(txn); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	if err := tm.WriteList(txn, "k", nil); !errors.Is(err, ErrTxnNotActive) {
		t.Errorf("Expected ErrTxnNotActive, got %v", err)
	}
	if err := tm.Commit(txn); !errors.Is(err, ErrTxnNotActive) {
		t.Errorf("Double commit should fail, got %v", err)
	}
	if err := tm.Rollback(txn); !errors.Is(err, ErrTxnNotActive) {
		t.Errorf("Rollback after commit should fail, got %v", err)
	}
}
