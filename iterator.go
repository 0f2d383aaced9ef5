package bunlist

import (
	"sort"

	"github.com/kartikbazzad/bunlist/internal/query"
	"github.com/kartikbazzad/bunlist/storage"
)

// iterator is the cursor a view evaluation runs over: Next() advances,
// Entry() returns the current element's identity and data, Err() reports a
// terminal evaluation failure.
type iterator interface {
	Next() bool
	Entry() (string, storage.Object)
	Err() error
	Close() error
}

// refIterator walks a membership slice and resolves each reference against
// the session's merged view. Unresolvable references are skipped.
type refIterator struct {
	db     *Database
	schema string
	ids    []string
	index  int
	curID  string
	cur    storage.Object
}

func newRefIterator(db *Database, schema string, ids []string) *refIterator {
	return &refIterator{db: db, schema: schema, ids: ids, index: -1}
}

func (it *refIterator) Next() bool {
	for it.index+1 < len(it.ids) {
		it.index++
		id := it.ids[it.index]
		obj, ok := it.db.txns.ReadObject(storage.ObjectKey(it.schema, id))
		if ok {
			it.curID = id
			it.cur = obj
			return true
		}
	}
	return false
}

func (it *refIterator) Entry() (string, storage.Object) {
	return it.curID, it.cur
}

func (it *refIterator) Err() error {
	return nil
}

func (it *refIterator) Close() error {
	return nil
}

// filterIterator keeps only the entries matching a compiled predicate.
// A predicate evaluation failure ends the iteration with Err() set.
type filterIterator struct {
	source iterator
	pred   *query.Predicate
	args   []interface{}
	curID  string
	cur    storage.Object
	err    error
}

func newFilterIterator(source iterator, pred *query.Predicate, args []interface{}) *filterIterator {
	return &filterIterator{source: source, pred: pred, args: args}
}

func (it *filterIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for it.source.Next() {
		id, obj := it.source.Entry()
		ok, err := it.pred.Matches(obj, it.args)
		if err != nil {
			it.err = err
			return false
		}
		if ok {
			it.curID = id
			it.cur = obj
			return true
		}
	}
	return false
}

func (it *filterIterator) Entry() (string, storage.Object) {
	return it.curID, it.cur
}

func (it *filterIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.source.Err()
}

func (it *filterIterator) Close() error {
	return it.source.Close()
}

type sortEntry struct {
	id  string
	obj storage.Object
}

// sortIterator buffers its source, orders it by a multi-key specification
// and replays it. The sort is stable so equal elements keep list order.
type sortIterator struct {
	source   iterator
	fields   []query.SortField
	entries  []sortEntry
	prepared bool
	index    int
}

func newSortIterator(source iterator, fields []query.SortField) *sortIterator {
	return &sortIterator{source: source, fields: fields, index: -1}
}

func (it *sortIterator) Next() bool {
	if !it.prepared {
		for it.source.Next() {
			id, obj := it.source.Entry()
			it.entries = append(it.entries, sortEntry{id: id, obj: obj})
		}
		if it.source.Err() != nil {
			return false
		}
		it.source.Close()

		sort.SliceStable(it.entries, func(i, j int) bool {
			return query.Less(it.entries[i].obj, it.entries[j].obj, it.fields)
		})
		it.prepared = true
	}

	it.index++
	return it.index < len(it.entries)
}

func (it *sortIterator) Entry() (string, storage.Object) {
	e := it.entries[it.index]
	return e.id, e.obj
}

func (it *sortIterator) Err() error {
	return it.source.Err()
}

func (it *sortIterator) Close() error {
	it.entries = nil
	return nil
}
