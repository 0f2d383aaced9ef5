package bunlist

import "github.com/kartikbazzad/bunlist/storage"

// ObjectRef is an opaque, typed handle to a single stored object. It is an
// immutable value; holding one does not pin the object's data.
type ObjectRef struct {
	Schema string
	ID     string
}

// IsZero reports whether the reference is the zero value.
func (r ObjectRef) IsZero() bool {
	return r.Schema == "" && r.ID == ""
}

func (r ObjectRef) String() string {
	return r.Schema + "/" + r.ID
}

func (r ObjectRef) key() string {
	return storage.ObjectKey(r.Schema, r.ID)
}
