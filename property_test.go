package bunlist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPropertyLength(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30), person("bob", 40), person("carol", 25))

	res := list.GetProperty("length")
	require.Equal(t, PropertyHandled, res.Kind)
	require.Equal(t, 3, res.Value)
}

func TestGetPropertyIndex(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30), person("bob", 40))

	res := list.GetProperty("1")
	require.Equal(t, PropertyHandled, res.Kind)

	ref, ok := res.Value.(ObjectRef)
	require.True(t, ok)
	obj, err := db.Materialize(ref)
	require.NoError(t, err)
	require.Equal(t, "bob", obj["name"])
}

func TestGetPropertyOutOfRangeReadsAsNoValue(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30))

	// Generic lookups of absent indices are silent, not failures
	res := list.GetProperty("5")
	require.Equal(t, PropertyHandled, res.Kind)
	require.Nil(t, res.Value)

	res = list.GetProperty("-1")
	require.Equal(t, PropertyHandled, res.Kind)
	require.Nil(t, res.Value)
}

func TestGetPropertyUnhandledName(t *testing.T) {
	_, list := newFixture(t)

	require.Equal(t, PropertyUnhandled, list.GetProperty("toString").Kind)
	require.Equal(t, PropertyUnhandled, list.GetProperty("1x").Kind)
	require.Equal(t, PropertyUnhandled, list.GetProperty("").Kind)
}

func TestSetPropertyIndex(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30))

	require.NoError(t, db.BeginWrite())
	res := list.SetProperty("0", person("zoe", 22))
	require.Equal(t, PropertyHandled, res.Kind)
	require.Equal(t, true, res.Value)
	require.NoError(t, db.Commit())

	require.Equal(t, []string{"zoe"}, listNames(t, db, list))
}

func TestSetPropertyLengthIsReadonly(t *testing.T) {
	db, list := newFixture(t)

	// Readonly regardless of transaction state
	res := list.SetProperty("length", 0)
	require.Equal(t, PropertyFailed, res.Kind)
	require.ErrorIs(t, res.Err, ErrReadOnlyProperty)

	require.NoError(t, db.BeginWrite())
	defer db.Rollback()

	res = list.SetProperty("length", 0)
	require.Equal(t, PropertyFailed, res.Kind)
	require.ErrorIs(t, res.Err, ErrReadOnlyProperty)
}

func TestSetPropertyOutOfRangeFails(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30))

	require.NoError(t, db.BeginWrite())
	defer db.Rollback()

	// Unlike reads, out-of-range writes are real failures
	res := list.SetProperty("5", person("zoe", 22))
	require.Equal(t, PropertyFailed, res.Kind)
	require.ErrorIs(t, res.Err, ErrOutOfRange)
}

func TestSetPropertyOutsideTransaction(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30))

	res := list.SetProperty("0", person("zoe", 22))
	require.Equal(t, PropertyFailed, res.Kind)
	require.ErrorIs(t, res.Err, ErrNotInTransaction)
	require.Equal(t, []string{"ana"}, listNames(t, db, list))
}

func TestSetPropertyUnhandledName(t *testing.T) {
	_, list := newFixture(t)

	require.Equal(t, PropertyUnhandled, list.SetProperty("color", "red").Kind)
}

func TestPropertyNamesEnumeration(t *testing.T) {
	db, list := newFixture(t)
	seed(t, db, list, person("ana", 30), person("bob", 40), person("carol", 25))

	// Exactly the index strings in ascending order; length is not enumerable
	require.Equal(t, []string{"0", "1", "2"}, list.PropertyNames())

	res := list.GetProperty("length")
	require.Equal(t, PropertyHandled, res.Kind)
	require.Equal(t, 3, res.Value)
}

func TestPropertyNamesEmptyList(t *testing.T) {
	_, list := newFixture(t)

	require.Empty(t, list.PropertyNames())
}
