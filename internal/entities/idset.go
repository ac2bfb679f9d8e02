package entities

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of record IDs. The mongoose-era representation was an
// unordered id array mutated by linear scan; this gives O(1) membership
// and removal while still serializing as a plain JSON array.
type IDSet struct {
	ids map[string]struct{}
}

// NewIDSet creates an IDSet containing the given ids.
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set. Adding an existing id is a no-op.
func (s *IDSet) Add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Remove deletes id from the set. Removing an absent id is a no-op.
func (s *IDSet) Remove(id string) {
	delete(s.ids, id)
}

// Has reports whether id is in the set.
func (s *IDSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *IDSet) Len() int {
	return len(s.ids)
}

// IDs returns the ids in sorted order, so persisted and serialized forms
// are deterministic.
func (s *IDSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the set.
func (s *IDSet) Clone() *IDSet {
	return NewIDSet(s.IDs()...)
}

// MarshalJSON serializes the set as a sorted JSON array of ids.
func (s *IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON reads a JSON array of ids.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return nil
}
