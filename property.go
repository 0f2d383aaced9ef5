package bunlist

import (
	"errors"
	"fmt"
	"strconv"
)

// PropertyResultKind tags the outcome of a generic property access.
type PropertyResultKind int

const (
	// PropertyHandled means the list recognized the property; Value holds
	// the result (nil stands for "no value" on reads of absent indices).
	PropertyHandled PropertyResultKind = iota

	// PropertyUnhandled means the property does not belong to the list and
	// an outer dispatch chain should try other handlers.
	PropertyUnhandled

	// PropertyFailed means the list recognized the property but the access
	// failed; Err carries the reason.
	PropertyFailed
)

// PropertyResult is the tagged outcome of GetProperty/SetProperty, so a
// dispatch chain can tell "handled", "not mine" and "failed" apart without
// sentinel values.
type PropertyResult struct {
	Kind  PropertyResultKind
	Value interface{}
	Err   error
}

func propertyHandled(value interface{}) PropertyResult {
	return PropertyResult{Kind: PropertyHandled, Value: value}
}

func propertyUnhandled() PropertyResult {
	return PropertyResult{Kind: PropertyUnhandled}
}

func propertyFailed(err error) PropertyResult {
	return PropertyResult{Kind: PropertyFailed, Err: err}
}

// parseIndex parses a property name as a base-10 integer index. Names that
// are not integers at all belong to other handlers.
func parseIndex(name string) (int, bool) {
	idx, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return int(idx), true
}

// GetProperty resolves a generic property read against the list: "length"
// yields the size, a decimal index string yields the element. Reads of
// integer indices outside [0, size) are handled with a nil value rather
// than failed, matching generic lookup protocols where absent properties
// read as "no value". Any other name is unhandled.
func (l *List) GetProperty(name string) PropertyResult {
	if name == "length" {
		size, err := l.Size()
		if err != nil {
			return propertyFailed(err)
		}
		return propertyHandled(size)
	}

	index, ok := parseIndex(name)
	if !ok {
		return propertyUnhandled()
	}

	ref, err := l.Get(index)
	if err != nil {
		if errors.Is(err, ErrOutOfRange) {
			return propertyHandled(nil)
		}
		return propertyFailed(err)
	}
	return propertyHandled(ref)
}

// SetProperty resolves a generic property write: "length" is readonly,
// a decimal index string assigns the element in place. Unlike reads,
// out-of-range index writes fail. Any other name is unhandled.
func (l *List) SetProperty(name string, value interface{}) PropertyResult {
	if name == "length" {
		return propertyFailed(fmt.Errorf("%w: length", ErrReadOnlyProperty))
	}

	index, ok := parseIndex(name)
	if !ok {
		return propertyUnhandled()
	}

	if err := l.Set(index, value); err != nil {
		return propertyFailed(err)
	}
	return propertyHandled(true)
}

// PropertyNames enumerates the list's own property names: exactly the
// decimal strings "0".."size-1" in ascending order. "length" is readable
// but deliberately not enumerable, like conventional array semantics.
func (l *List) PropertyNames() []string {
	size, err := l.Size()
	if err != nil {
		return nil
	}

	names := make([]string, 0, size)
	for i := 0; i < size; i++ {
		names = append(names, strconv.Itoa(i))
	}
	return names
}
