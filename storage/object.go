// Package storage holds the in-memory committed state of a session: typed
// objects and the ordered reference slices backing list properties, stamped
// by a logical clock so readers can tell when a list last changed.
package storage

// Object is the stored representation of a single database object.
type Object map[string]interface{}

// IDField is the reserved property carrying an object's identity.
const IDField = "_id"

// ID returns the object's identity if it has one.
func (o Object) ID() (string, bool) {
	id, exists := o[IDField]
	if !exists {
		return "", false
	}

	idStr, ok := id.(string)
	if !ok {
		return "", false
	}

	return idStr, true
}

// SetID sets the object's identity.
func (o Object) SetID(id string) {
	o[IDField] = id
}

// Clone creates a deep copy of the object.
func (o Object) Clone() Object {
	clone := make(Object, len(o))
	for k, v := range o {
		clone[k] = deepCopyValue(v)
	}
	return clone
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Object:
		return val.Clone()
	case map[string]interface{}:
		return Object(val).Clone()
	case []interface{}:
		cp := make([]interface{}, len(val))
		for i, item := range val {
			cp[i] = deepCopyValue(item)
		}
		return cp
	default:
		return v
	}
}
