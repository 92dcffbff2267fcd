package unit

// Set represents a set of unit references
type Set map[Ref]struct{}

// NewSet creates a set holding refs
func NewSet(refs ...Ref) Set {
	result := make(Set, len(refs))
	for _, ref := range refs {
		result.Add(ref)
	}
	return result
}

// Add adds ref, returns false if it was already present
func (s Set) Add(ref Ref) bool {
	if _, ok := s[ref]; ok {
		return false
	}
	s[ref] = struct{}{}
	return true
}

// Has returns true if ref is present
func (s Set) Has(ref Ref) bool {
	_, ok := s[ref]
	return ok
}

// Difference returns the sorted refs of s that are not present in other
func (s Set) Difference(other Set) []Ref {
	result := make([]Ref, 0, len(s))
	for ref := range s {
		if other.Has(ref) {
			continue
		}
		result = append(result, ref)
	}
	Sort(result)
	return result
}

// Sorted returns all refs in lexicographic order
func (s Set) Sorted() []Ref {
	return s.Difference(nil)
}
