package bunlist

import "github.com/kartikbazzad/bunlist/internal/query"

// filterTerm is one filter of a derived view: an expression plus its own
// bind arguments. Keeping terms separate (instead of splicing expressions
// together) lets each compiled program keep its argument indices.
type filterTerm struct {
	expr string
	args []interface{}
}

// Query is the immutable filter/sort value carried by a derived view.
// Deriving always yields a new Query; the zero value means "all elements in
// list order".
type Query struct {
	terms []filterTerm
	sort  []query.SortField
}

// withFilter returns a copy of q with one more filter term appended.
func (q Query) withFilter(expr string, args []interface{}) Query {
	terms := make([]filterTerm, len(q.terms), len(q.terms)+1)
	copy(terms, q.terms)
	terms = append(terms, filterTerm{expr: expr, args: args})
	return Query{terms: terms, sort: q.sort}
}

// withSort returns a copy of q ordered by the given specification. A later
// sort replaces an earlier one.
func (q Query) withSort(fields []query.SortField) Query {
	return Query{terms: q.terms, sort: fields}
}

// filtered reports whether the query narrows membership at all.
func (q Query) filtered() bool {
	return len(q.terms) > 0
}

// sorted reports whether the query imposes an order.
func (q Query) sorted() bool {
	return len(q.sort) > 0
}
