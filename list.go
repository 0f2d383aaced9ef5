package bunlist

import (
	"fmt"

	"github.com/kartikbazzad/bunlist/storage"
)

// List is a live, order-preserving collection of object references backing
// one list property of a stored object. Indices are contiguous and
// zero-based; order is caller-controlled, never sorted automatically.
//
// Reads see committed state plus the session's pending transaction writes.
// Mutations require an open write transaction and stage the new membership
// in it, so a rollback restores the previous contents.
type List struct {
	db       *Database
	schema   *Schema
	owner    ObjectRef
	property string
	key      string
}

// Schema returns the element schema of the list.
func (l *List) Schema() *Schema {
	return l.schema
}

// Owner returns the reference of the object owning the list property.
func (l *List) Owner() ObjectRef {
	return l.owner
}

// refs returns the current membership as seen by the session. Never-written
// lists read as empty.
func (l *List) refs() []string {
	ids, _ := l.db.txns.ReadList(l.key)
	return ids
}

// writeRefs stages a new membership in the active write transaction.
func (l *List) writeRefs(ids []string) error {
	if err := l.db.txns.WriteList(l.db.txns.Active(), l.key, ids); err != nil {
		return fmt.Errorf("failed to write list: %w", err)
	}
	return nil
}

// convert turns a caller value into the identity of a stored object of the
// element schema. Accepted values: an ObjectRef of the element schema, or a
// map validated against the schema and stored as a new object.
func (l *List) convert(value interface{}) (string, error) {
	switch v := value.(type) {
	case ObjectRef:
		if v.Schema != l.schema.Name() {
			return "", fmt.Errorf("%w: expected %s reference, got %s", ErrInvalidArgument, l.schema.Name(), v.Schema)
		}
		if _, ok := l.db.txns.ReadObject(v.key()); !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidArgument, v)
		}
		return v.ID, nil
	case storage.Object:
		ref, err := l.db.Create(l.schema.Name(), v)
		if err != nil {
			return "", err
		}
		return ref.ID, nil
	case map[string]interface{}:
		ref, err := l.db.Create(l.schema.Name(), v)
		if err != nil {
			return "", err
		}
		return ref.ID, nil
	default:
		return "", fmt.Errorf("%w: cannot convert %T to a %s object", ErrInvalidArgument, value, l.schema.Name())
	}
}

// ref builds an element reference from a stored identity.
func (l *List) ref(id string) ObjectRef {
	return ObjectRef{Schema: l.schema.Name(), ID: id}
}

// Size returns the current element count. No transaction required.
func (l *List) Size() (int, error) {
	if l.db.closed {
		return 0, ErrDatabaseClosed
	}
	return len(l.refs()), nil
}

// Get returns the element at index. Fails with ErrOutOfRange outside
// [0, size).
func (l *List) Get(index int) (ObjectRef, error) {
	if l.db.closed {
		return ObjectRef{}, ErrDatabaseClosed
	}

	ids := l.refs()
	if index < 0 || index >= len(ids) {
		return ObjectRef{}, fmt.Errorf("%w: index %d in list of size %d", ErrOutOfRange, index, len(ids))
	}
	return l.ref(ids[index]), nil
}

// Set replaces the element at index in place; other indices do not shift.
// Requires a write transaction; fails with ErrOutOfRange outside [0, size).
func (l *List) Set(index int, value interface{}) error {
	if err := l.db.requireWrite(); err != nil {
		return err
	}

	ids := l.refs()
	if index < 0 || index >= len(ids) {
		return fmt.Errorf("%w: index %d in list of size %d", ErrOutOfRange, index, len(ids))
	}

	id, err := l.convert(value)
	if err != nil {
		return err
	}

	next := make([]string, len(ids))
	copy(next, ids)
	next[index] = id
	return l.writeRefs(next)
}

// Insert places a value at index, shifting later elements up by one. The
// index is clamped to [0, size]. Requires a write transaction.
func (l *List) Insert(value interface{}, index int) error {
	if err := l.db.requireWrite(); err != nil {
		return err
	}

	ids := l.refs()
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}

	id, err := l.convert(value)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(ids)+1)
	next = append(next, ids[:index]...)
	next = append(next, id)
	next = append(next, ids[index:]...)
	return l.writeRefs(next)
}

// Remove deletes the element at index, shifting later elements down by one.
// Requires a write transaction; fails with ErrOutOfRange outside [0, size).
func (l *List) Remove(index int) error {
	if err := l.db.requireWrite(); err != nil {
		return err
	}

	ids := l.refs()
	if index < 0 || index >= len(ids) {
		return fmt.Errorf("%w: index %d in list of size %d", ErrOutOfRange, index, len(ids))
	}

	next := make([]string, 0, len(ids)-1)
	next = append(next, ids[:index]...)
	next = append(next, ids[index+1:]...)
	return l.writeRefs(next)
}

// Push appends each value in call order and returns the new size. At least
// one value is required. Requires a write transaction.
func (l *List) Push(values ...interface{}) (int, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: push expects at least 1 argument", ErrInvalidArgumentCount)
	}
	if err := l.db.requireWrite(); err != nil {
		return 0, err
	}

	ids := l.refs()
	next := make([]string, len(ids), len(ids)+len(values))
	copy(next, ids)
	for _, value := range values {
		id, err := l.convert(value)
		if err != nil {
			return 0, err
		}
		next = append(next, id)
	}

	if err := l.writeRefs(next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// Pop removes and returns the last element. An empty list is a legal no-op
// returning ok=false, allowed outside a transaction; otherwise a write
// transaction is required.
func (l *List) Pop() (ObjectRef, bool, error) {
	if l.db.closed {
		return ObjectRef{}, false, ErrDatabaseClosed
	}

	ids := l.refs()
	if len(ids) == 0 {
		return ObjectRef{}, false, nil
	}

	if err := l.db.requireWrite(); err != nil {
		return ObjectRef{}, false, err
	}

	removed := l.ref(ids[len(ids)-1])
	next := make([]string, len(ids)-1)
	copy(next, ids[:len(ids)-1])
	if err := l.writeRefs(next); err != nil {
		return ObjectRef{}, false, err
	}
	return removed, true, nil
}

// Shift mirrors Pop at index 0.
func (l *List) Shift() (ObjectRef, bool, error) {
	if l.db.closed {
		return ObjectRef{}, false, ErrDatabaseClosed
	}

	ids := l.refs()
	if len(ids) == 0 {
		return ObjectRef{}, false, nil
	}

	if err := l.db.requireWrite(); err != nil {
		return ObjectRef{}, false, err
	}

	removed := l.ref(ids[0])
	next := make([]string, len(ids)-1)
	copy(next, ids[1:])
	if err := l.writeRefs(next); err != nil {
		return ObjectRef{}, false, err
	}
	return removed, true, nil
}

// Unshift inserts the values at the front, preserving call order: for
// values [a, b] on contents [x, y] the result is [a, b, x, y]. Returns the
// new size. Requires a write transaction.
func (l *List) Unshift(values ...interface{}) (int, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: unshift expects at least 1 argument", ErrInvalidArgumentCount)
	}
	if err := l.db.requireWrite(); err != nil {
		return 0, err
	}

	ids := l.refs()
	front := make([]string, 0, len(values))
	for _, value := range values {
		id, err := l.convert(value)
		if err != nil {
			return 0, err
		}
		front = append(front, id)
	}

	next := make([]string, 0, len(ids)+len(front))
	next = append(next, front...)
	next = append(next, ids...)
	if err := l.writeRefs(next); err != nil {
		return 0, err
	}
	return len(next), nil
}

// Splice removes deleteCount elements starting at start, then inserts the
// items at that position, with array-splice clamping: a negative start
// counts from the end, deleteCount is clamped to [0, size-start]. Removed
// elements are returned in their original ascending-index order. A write
// transaction is required whenever the call actually removes or inserts;
// the degenerate no-op splice is allowed outside one.
func (l *List) Splice(start, deleteCount int, items ...interface{}) ([]ObjectRef, error) {
	if l.db.closed {
		return nil, ErrDatabaseClosed
	}

	ids := l.refs()
	start = clampSpliceStart(start, len(ids))
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > len(ids)-start {
		deleteCount = len(ids) - start
	}

	if deleteCount == 0 && len(items) == 0 {
		return []ObjectRef{}, nil
	}
	if err := l.db.requireWrite(); err != nil {
		return nil, err
	}

	// Materialize removals before any insertion happens.
	removed := make([]ObjectRef, 0, deleteCount)
	for _, id := range ids[start : start+deleteCount] {
		removed = append(removed, l.ref(id))
	}

	inserted := make([]string, 0, len(items))
	for _, item := range items {
		id, err := l.convert(item)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, id)
	}

	next := make([]string, 0, len(ids)-deleteCount+len(inserted))
	next = append(next, ids[:start]...)
	next = append(next, inserted...)
	next = append(next, ids[start+deleteCount:]...)
	if err := l.writeRefs(next); err != nil {
		return nil, err
	}
	return removed, nil
}

// SpliceFrom is the omitted-deleteCount form of Splice: it removes every
// element from start (after clamping) through the end of the list.
func (l *List) SpliceFrom(start int) ([]ObjectRef, error) {
	if l.db.closed {
		return nil, ErrDatabaseClosed
	}

	size := len(l.refs())
	start = clampSpliceStart(start, size)
	return l.Splice(start, size-start)
}

func clampSpliceStart(start, size int) int {
	if start > size {
		return size
	}
	if start < 0 {
		start = size + start
		if start < 0 {
			return 0
		}
	}
	return start
}

// Filtered derives a live, read-only view of the elements matching the
// expression with the given bind arguments. The list's own query state is
// not touched. No transaction required.
func (l *List) Filtered(expression string, args ...interface{}) (*Results, error) {
	if l.db.closed {
		return nil, ErrDatabaseClosed
	}
	if expression == "" {
		return nil, fmt.Errorf("%w: filtered expects a non-empty expression", ErrInvalidArgumentCount)
	}

	// Compile now so malformed expressions fail at derivation, not on read.
	if _, err := l.db.queries.Compile(expression); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}

	return &Results{
		db:     l.db,
		schema: l.schema,
		list:   l,
		query:  Query{}.withFilter(expression, args),
	}, nil
}

// Sorted derives a live, read-only view ordered by the given properties.
// ascending may be nil (all ascending) or must match properties in length.
// No transaction required.
func (l *List) Sorted(properties []string, ascending []bool) (*Results, error) {
	if l.db.closed {
		return nil, ErrDatabaseClosed
	}

	fields, err := buildSortFields(l.schema, properties, ascending)
	if err != nil {
		return nil, err
	}

	return &Results{
		db:     l.db,
		schema: l.schema,
		list:   l,
		query:  Query{}.withSort(fields),
	}, nil
}

// Snapshot derives a non-live view frozen to the list's current membership.
// Element data stays live; only membership and order are frozen. No
// transaction required.
func (l *List) Snapshot() (*Results, error) {
	if l.db.closed {
		return nil, ErrDatabaseClosed
	}

	ids := l.refs()
	frozen := make([]string, len(ids))
	copy(frozen, ids)

	return &Results{
		db:     l.db,
		schema: l.schema,
		base:   frozen,
	}, nil
}
