package form

// Store tracks the current Values snapshot of a single form instance. It is
// owned by one caller and is not safe for concurrent use.
type Store struct {
	current Values
}

// NewStore seeds a store with a copy of initial.
func NewStore(initial Values) *Store {
	return &Store{current: NewValues(initial.fields)}
}

// Values returns the current snapshot.
func (s *Store) Values() Values {
	return s.current
}

// HandleChange merges change into a new snapshot and makes it current. Every
// other field is carried over unchanged. Changes without a field name are
// ignored.
func (s *Store) HandleChange(change Change) Values {
	if change.Name == "" {
		return s.current
	}
	s.current = s.current.With(change.Name, change.resolved())
	return s.current
}

// Apply folds several changes in order and returns the resulting snapshot.
func (s *Store) Apply(changes ...Change) Values {
	for _, change := range changes {
		s.HandleChange(change)
	}
	return s.current
}
