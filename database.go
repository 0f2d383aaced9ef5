// Package bunlist implements live, transactional list collections for an
// embedded object store.
//
// Key pieces:
//   - Database: a single-threaded session wiring the object store, the
//     write-transaction manager and the query engine.
//   - List: a mutable, order-preserving collection of object references
//     bound to one list property of a stored object, with array-splice
//     positional semantics (push/pop/shift/unshift/splice).
//   - Results: a read-only ordered view derived from a list by filtering,
//     sorting or snapshotting; derivations compose and never mutate their
//     source.
//   - Query: the immutable filter/sort value a view carries; filter
//     expressions are compiled by the query engine (CEL) on evaluation.
//
// Reads never require a transaction. Mutations require an open write
// transaction on the session and fail fast otherwise; the one exception is
// popping or shifting an already-empty list, which is a read-only no-op.
package bunlist

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kartikbazzad/bunlist/internal/query"
	"github.com/kartikbazzad/bunlist/internal/transaction"
	"github.com/kartikbazzad/bunlist/storage"
)

// Options configures a database session.
type Options struct {
	// Logger for session events. Defaults to slog.Default().
	Logger *slog.Logger

	// QueryCacheSize is the number of compiled filter programs kept by the
	// query engine (default: 256).
	QueryCacheSize int
}

// DefaultOptions returns default session options.
func DefaultOptions() *Options {
	return &Options{
		QueryCacheSize: 256,
	}
}

// Database is an embedded, in-memory object-store session. All lists and
// views handed out by a Database reference it and become unusable once the
// session is closed.
//
// A Database executes on one logical thread; concurrent use from multiple
// goroutines is caller misuse and is not locked against.
type Database struct {
	log     *slog.Logger
	store   *storage.Store
	txns    *transaction.Manager
	queries *query.Engine
	schemas map[string]*Schema
	closed  bool
}

// Open creates a new database session with the provided options.
func Open(opts *Options) (*Database, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	cacheSize := opts.QueryCacheSize
	if cacheSize <= 0 {
		cacheSize = 256
	}

	queries, err := query.NewEngine(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create query engine: %w", err)
	}

	store := storage.NewStore()

	db := &Database{
		log:     log,
		store:   store,
		txns:    transaction.NewManager(store),
		queries: queries,
		schemas: make(map[string]*Schema),
	}

	log.Debug("bunlist: session opened", "queryCacheSize", cacheSize)
	return db, nil
}

// Close shuts the session down. Every List and Results bound to it fails
// from then on. An active write transaction is rolled back.
func (db *Database) Close() error {
	if db.closed {
		return ErrDatabaseClosed
	}

	if txn := db.txns.Active(); txn != nil {
		db.log.Warn("bunlist: closing with an active write transaction, rolling back", "txn", txn.ID)
		_ = db.txns.Rollback(txn)
	}

	db.closed = true
	db.log.Debug("bunlist: session closed")
	return nil
}

// RegisterSchema registers (or replaces) a named object schema. jsonSchema
// is a JSON Schema document describing the element type; pass "" to register
// a schema without validation.
func (db *Database) RegisterSchema(name string, jsonSchema string) (*Schema, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	if name == "" {
		return nil, fmt.Errorf("%w: schema name must be non-empty", ErrInvalidArgument)
	}

	schema, err := newSchema(name, jsonSchema)
	if err != nil {
		return nil, err
	}

	db.schemas[name] = schema
	db.log.Debug("bunlist: schema registered", "schema", name)
	return schema, nil
}

// Schema returns a registered schema by name.
func (db *Database) Schema(name string) (*Schema, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	schema, ok := db.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return schema, nil
}

// BeginWrite opens the session's write transaction. Only one can be active
// at a time.
func (db *Database) BeginWrite() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	txn, err := db.txns.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin write transaction: %w", err)
	}
	db.log.Debug("bunlist: write transaction started", "txn", txn.ID)
	return nil
}

// Commit applies the active write transaction to the store.
func (db *Database) Commit() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	txn := db.txns.Active()
	if txn == nil {
		return ErrNotInTransaction
	}
	if err := db.txns.Commit(txn); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	db.log.Debug("bunlist: write transaction committed", "txn", txn.ID, "writes", txn.WriteSetSize())
	return nil
}

// Rollback discards the active write transaction.
func (db *Database) Rollback() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	txn := db.txns.Active()
	if txn == nil {
		return ErrNotInTransaction
	}
	if err := db.txns.Rollback(txn); err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	db.log.Debug("bunlist: write transaction rolled back", "txn", txn.ID)
	return nil
}

// InWriteTransaction reports whether a write transaction is currently open.
func (db *Database) InWriteTransaction() bool {
	return !db.closed && db.txns.InWrite()
}

// requireWrite is the capability check every mutation goes through.
func (db *Database) requireWrite() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	if !db.txns.InWrite() {
		return ErrNotInTransaction
	}
	return nil
}

// Create stores a new object of the named schema inside the active write
// transaction and returns its reference. values is validated against the
// schema; an existing "_id" string is honored, otherwise an identity is
// generated.
func (db *Database) Create(schemaName string, values map[string]interface{}) (ObjectRef, error) {
	if err := db.requireWrite(); err != nil {
		return ObjectRef{}, err
	}

	schema, err := db.Schema(schemaName)
	if err != nil {
		return ObjectRef{}, err
	}

	obj := storage.Object(values).Clone()
	if err := schema.validate(obj); err != nil {
		return ObjectRef{}, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}

	id, hasID := obj.ID()
	if !hasID || id == "" {
		id = uuid.NewString()
		obj.SetID(id)
	}

	ref := ObjectRef{Schema: schemaName, ID: id}
	if err := db.txns.WriteObject(db.txns.Active(), ref.key(), obj); err != nil {
		return ObjectRef{}, fmt.Errorf("failed to write object: %w", err)
	}

	return ref, nil
}

// Materialize returns the current state of the referenced object, pending
// transaction writes included. The returned object is a copy; mutating it
// does not change stored state.
func (db *Database) Materialize(ref ObjectRef) (storage.Object, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}

	obj, ok := db.txns.ReadObject(ref.key())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, ref)
	}
	return obj.Clone(), nil
}

// GetList binds the list property of a stored owner object. elementSchema
// names the registered schema of the list's elements. The list springs into
// existence empty if the property has never been written.
func (db *Database) GetList(owner ObjectRef, property string, elementSchema string) (*List, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	if property == "" {
		return nil, fmt.Errorf("%w: property name must be non-empty", ErrInvalidArgument)
	}

	schema, err := db.Schema(elementSchema)
	if err != nil {
		return nil, err
	}
	if _, ok := db.txns.ReadObject(owner.key()); !ok {
		return nil, fmt.Errorf("%w: list owner %s", ErrObjectNotFound, owner)
	}

	return &List{
		db:       db,
		schema:   schema,
		owner:    owner,
		property: property,
		key:      storage.ListKey(owner.Schema, owner.ID, property),
	}, nil
}
