package selection

type orderedSet struct {
	order []string
	index map[string]struct{}
}

func newOrderedSet(items ...string) *orderedSet {
	s := &orderedSet{index: make(map[string]struct{}, len(items))}
	for _, it := range items {
		s.add(it)
	}
	return s
}

func (s *orderedSet) has(v string) bool {
	_, ok := s.index[v]
	return ok
}

func (s *orderedSet) add(v string) {
	if s.has(v) {
		return
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) remove(v string) {
	s.retain(func(x string) bool { return x != v })
}

// retain keeps the items for which keep returns true.
func (s *orderedSet) retain(keep func(string) bool) {
	kept := s.order[:0]
	for _, v := range s.order {
		if keep(v) {
			kept = append(kept, v)
			continue
		}
		delete(s.index, v)
	}
	s.order = kept
}

func (s *orderedSet) len() int {
	return len(s.order)
}

func (s *orderedSet) items() []string {
	return append([]string{}, s.order...)
}
