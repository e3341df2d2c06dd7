package watchlist

// Set is an insertion-ordered set of coin ids. It is immutable: With and
// Without return a new Set.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// NewSet drops empty and duplicate ids, keeping the first occurrence.
func NewSet(ids ...string) Set {
	s := Set{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

func (s Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy in insertion order.
func (s Set) IDs() []string {
	res := make([]string, len(s.ids))
	copy(res, s.ids)
	return res
}

func (s Set) With(id string) Set {
	if s.Contains(id) {
		return s
	}
	return NewSet(append(s.IDs(), id)...)
}

func (s Set) Without(id string) Set {
	if !s.Contains(id) {
		return s
	}
	ids := make([]string, 0, len(s.ids))
	for _, v := range s.ids {
		if v != id {
			ids = append(ids, v)
		}
	}
	return NewSet(ids...)
}

// Equal ignores order.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, id := range s.ids {
		if !o.Contains(id) {
			return false
		}
	}
	return true
}
