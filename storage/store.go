package storage

// Store is the committed state of one database session: objects keyed by
// (schema, id) and list memberships keyed by (schema, id, property).
//
// The store carries no locks: a session executes on one logical thread, and
// concurrent access to the same session is caller misuse (the write path is
// additionally serialized by the single active write transaction).
type Store struct {
	clock    *Clock
	objects  map[string]Object
	lists    map[string][]string
	versions map[string]Timestamp // list key -> stamp of last membership change
}

// NewStore creates an empty store with a fresh clock.
func NewStore() *Store {
	return &Store{
		clock:    NewClock(),
		objects:  make(map[string]Object),
		lists:    make(map[string][]string),
		versions: make(map[string]Timestamp),
	}
}

// Clock returns the store's logical clock.
func (s *Store) Clock() *Clock {
	return s.clock
}

// ObjectKey builds the storage key for an object.
func ObjectKey(schema, id string) string {
	return schema + ":" + id
}

// ListKey builds the storage key for a list property of an object.
func ListKey(schema, id, property string) string {
	return schema + ":" + id + ":" + property
}

// GetObject returns the committed object stored under key.
func (s *Store) GetObject(key string) (Object, bool) {
	obj, ok := s.objects[key]
	return obj, ok
}

// PutObject stores the committed state of an object.
func (s *Store) PutObject(key string, obj Object) {
	s.objects[key] = obj
}

// GetList returns the committed membership of a list. A list that was never
// written is reported as absent; callers treat that as empty.
func (s *Store) GetList(key string) ([]string, bool) {
	refs, ok := s.lists[key]
	return refs, ok
}

// PutList replaces the committed membership of a list and advances
// its version stamp.
func (s *Store) PutList(key string, refs []string) {
	s.lists[key] = refs
	s.versions[key] = s.clock.Next()
}

// ListVersion returns the stamp of the list's last committed membership
// change, or zero if the list was never written.
func (s *Store) ListVersion(key string) Timestamp {
	return s.versions[key]
}
