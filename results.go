package bunlist

import (
	"fmt"

	"github.com/kartikbazzad/bunlist/internal/query"
	"github.com/kartikbazzad/bunlist/storage"
)

// Results is a read-only, ordered projection over a list. A live view
// (from Filtered/Sorted) re-reads the source list's membership on every
// evaluation; a snapshot view (from Snapshot) evaluates over membership
// frozen at creation, while element data stays live either way.
//
// Results permits no positional mutation; it only reads and re-derives.
// Derivations compose freely and never share mutable state.
type Results struct {
	db     *Database
	schema *Schema
	list   *List    // membership source of a live view
	base   []string // frozen membership of a snapshot view (non-nil)
	query  Query
}

// Live reports whether the view reflects future changes to its source list.
func (r *Results) Live() bool {
	return r.base == nil
}

// ids evaluates the view: current (or frozen) membership run through the
// query's filter terms and sort specification.
func (r *Results) ids() ([]string, error) {
	if r.db.closed {
		return nil, ErrDatabaseClosed
	}

	src := r.base
	if r.Live() {
		src = r.list.refs()
	}

	if !r.query.filtered() && !r.query.sorted() {
		out := make([]string, len(src))
		copy(out, src)
		return out, nil
	}

	var it iterator = newRefIterator(r.db, r.schema.Name(), src)
	for _, term := range r.query.terms {
		pred, err := r.db.queries.Compile(term.expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
		}
		it = newFilterIterator(it, pred, term.args)
	}
	if r.query.sorted() {
		it = newSortIterator(it, r.query.sort)
	}
	defer it.Close()

	var out []string
	for it.Next() {
		id, _ := it.Entry()
		out = append(out, id)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}
	return out, nil
}

// Size returns the number of elements the view currently holds.
func (r *Results) Size() (int, error) {
	ids, err := r.ids()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Get returns the element at index in view order. Fails with ErrOutOfRange
// outside [0, size).
func (r *Results) Get(index int) (ObjectRef, error) {
	ids, err := r.ids()
	if err != nil {
		return ObjectRef{}, err
	}
	if index < 0 || index >= len(ids) {
		return ObjectRef{}, fmt.Errorf("%w: index %d in results of size %d", ErrOutOfRange, index, len(ids))
	}
	return ObjectRef{Schema: r.schema.Name(), ID: ids[index]}, nil
}

// Refs returns every element of the view in view order.
func (r *Results) Refs() ([]ObjectRef, error) {
	ids, err := r.ids()
	if err != nil {
		return nil, err
	}
	refs := make([]ObjectRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, ObjectRef{Schema: r.schema.Name(), ID: id})
	}
	return refs, nil
}

// Objects materializes every element of the view in view order.
func (r *Results) Objects() ([]storage.Object, error) {
	refs, err := r.Refs()
	if err != nil {
		return nil, err
	}
	objs := make([]storage.Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := r.db.Materialize(ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// Filtered derives a further-narrowed view. The receiver is unchanged; the
// derived view keeps the receiver's liveness.
func (r *Results) Filtered(expression string, args ...interface{}) (*Results, error) {
	if r.db.closed {
		return nil, ErrDatabaseClosed
	}
	if expression == "" {
		return nil, fmt.Errorf("%w: filtered expects a non-empty expression", ErrInvalidArgumentCount)
	}
	if _, err := r.db.queries.Compile(expression); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
	}

	return &Results{
		db:     r.db,
		schema: r.schema,
		list:   r.list,
		base:   r.base,
		query:  r.query.withFilter(expression, args),
	}, nil
}

// Sorted derives a re-ordered view; the new specification replaces any
// previous one. The receiver is unchanged.
func (r *Results) Sorted(properties []string, ascending []bool) (*Results, error) {
	if r.db.closed {
		return nil, ErrDatabaseClosed
	}

	fields, err := buildSortFields(r.schema, properties, ascending)
	if err != nil {
		return nil, err
	}

	return &Results{
		db:     r.db,
		schema: r.schema,
		list:   r.list,
		base:   r.base,
		query:  r.query.withSort(fields),
	}, nil
}

// Snapshot freezes the view's current evaluated contents into a non-live
// view. Further derivations compose over the frozen membership.
func (r *Results) Snapshot() (*Results, error) {
	ids, err := r.ids()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	return &Results{
		db:     r.db,
		schema: r.schema,
		base:   ids,
	}, nil
}

// buildSortFields validates a sort specification against the element schema.
func buildSortFields(schema *Schema, properties []string, ascending []bool) ([]query.SortField, error) {
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: sorted expects at least 1 property", ErrInvalidArgumentCount)
	}
	if ascending != nil && len(ascending) != len(properties) {
		return nil, fmt.Errorf("%w: %d ascending flags for %d properties", ErrInvalidArgument, len(ascending), len(properties))
	}

	fields := make([]query.SortField, 0, len(properties))
	for i, p := range properties {
		if p == "" {
			return nil, fmt.Errorf("%w: sort property must be non-empty", ErrInvalidArgument)
		}
		if !schema.HasProperty(p) {
			return nil, fmt.Errorf("%w: schema %s has no property %q", ErrInvalidArgument, schema.Name(), p)
		}
		asc := true
		if ascending != nil {
			asc = ascending[i]
		}
		fields = append(fields, query.SortField{Property: p, Ascending: asc})
	}
	return fields, nil
}
