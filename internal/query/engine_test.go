package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileAndMatch(t *testing.T) {
	e, err := NewEngine(16)
	require.NoError(t, err)

	pred, err := e.Compile(`obj.age > args[0]`)
	require.NoError(t, err)

	ok, err := pred.Matches(map[string]interface{}{"age": 30}, []interface{}{25})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = pred.Matches(map[string]interface{}{"age": 20}, []interface{}{25})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCompileNoArgs(t *testing.T) {
	e, err := NewEngine(16)
	require.NoError(t, err)

	pred, err := e.Compile(`obj.role == "admin"`)
	require.NoError(t, err)

	ok, err := pred.Matches(map[string]interface{}{"role": "admin"}, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCompileError(t *testing.T) {
	e, err := NewEngine(16)
	require.NoError(t, err)

	_, err = e.Compile(`obj.age >`)
	require.Error(t, err)
}

func TestNonBooleanExpression(t *testing.T) {
	e, err := NewEngine(16)
	require.NoError(t, err)

	pred, err := e.Compile(`obj.age`)
	require.NoError(t, err)

	_, err = pred.Matches(map[string]interface{}{"age": 30}, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boolean")
}

func TestProgramCache(t *testing.T) {
	e, err := NewEngine(16)
	require.NoError(t, err)

	p1, err := e.Compile(`obj.x == 1`)
	require.NoError(t, err)
	p2, err := e.Compile(`obj.x == 1`)
	require.NoError(t, err)

	// Cached program is reused, both predicates behave the same
	ok, err := p1.Matches(map[string]interface{}{"x": 1}, nil)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = p2.Matches(map[string]interface{}{"x": 1}, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, e.programs.Len())
}

func TestCompareValues(t *testing.T) {
	require.Equal(t, -1, CompareValues(1, 2))
	require.Equal(t, 1, CompareValues(2.5, 2))
	require.Equal(t, 0, CompareValues(3, 3.0))
	require.Equal(t, -1, CompareValues("apple", "banana"))
	// Mixed kinds fall back to string comparison
	require.Equal(t, 0, CompareValues("7", 7))
}

func TestLess(t *testing.T) {
	fields := []SortField{
		{Property: "age", Ascending: true},
		{Property: "name", Ascending: false},
	}

	a := map[string]interface{}{"age": 30, "name": "alice"}
	b := map[string]interface{}{"age": 40, "name": "bob"}
	c := map[string]interface{}{"age": 30, "name": "carol"}

	require.True(t, Less(a, b, fields))
	require.False(t, Less(b, a, fields))
	// Tie on age breaks descending on name
	require.False(t, Less(a, c, fields))
	require.True(t, Less(c, a, fields))
	// Fully equal objects are not less
	require.False(t, Less(a, a, fields))
}
