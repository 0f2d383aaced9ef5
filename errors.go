package bunlist

import "errors"

// Common errors returned by the public API. Callers should match these with
// errors.Is; messages stay human-readable and may carry wrapped context.
var (
	// Argument errors
	ErrInvalidArgumentCount = errors.New("wrong number of arguments")
	ErrInvalidArgument      = errors.New("invalid argument")

	// Positional errors
	ErrOutOfRange = errors.New("index out of range")

	// Transaction errors
	ErrNotInTransaction = errors.New("cannot modify a list outside of a write transaction")

	// Property protocol errors
	ErrReadOnlyProperty = errors.New("property is readonly")

	// Session errors
	ErrDatabaseClosed = errors.New("database is closed")
	ErrSchemaNotFound = errors.New("schema not found")
	ErrObjectNotFound = errors.New("object not found")
)
