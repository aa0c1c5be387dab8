package marks

import "sort"

// keySet is a compact duplicate-free set of boundary keys, kept sorted by
// raw key value for a deterministic iteration order. Realistic fan-out is
// tens of coincident marks, so a sorted slice beats a map on both memory and
// iteration.
//
// Sets are shared between tree versions and must never be modified in place;
// every mutating operation returns a new slice.
type keySet []key

func (s keySet) isEmpty() bool {
	return len(s) == 0
}

// search returns the index at which k is or would be stored.
func (s keySet) search(k key) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= k })
}

func (s keySet) contains(k key) bool {
	i := s.search(k)
	return i < len(s) && s[i] == k
}

// insert returns a set containing k. The receiver is unchanged.
func (s keySet) insert(k key) keySet {
	i := s.search(k)
	if i < len(s) && s[i] == k {
		return s
	}
	out := make(keySet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, k)
	out = append(out, s[i:]...)
	return out
}

// containsID reports whether any key in the set carries id, regardless of
// its flags.
func (s keySet) containsID(id ID) bool {
	for _, k := range s {
		if k.id() == id {
			return true
		}
	}
	return false
}

// removeID removes the lowest-ordered key carrying id (a start boundary
// sorts before its end boundary) and returns the new set and the removed
// key.
func (s keySet) removeID(id ID) (keySet, key, bool) {
	for i, k := range s {
		if k.id() == id {
			out := make(keySet, 0, len(s)-1)
			out = append(out, s[:i]...)
			out = append(out, s[i+1:]...)
			return out, k, true
		}
	}
	return s, 0, false
}

// union returns the set of keys in either s or other. When one side is
// empty the other is returned as-is, so unchanged sets stay shared.
func (s keySet) union(other keySet) keySet {
	if len(other) == 0 {
		return s
	}
	if len(s) == 0 {
		return other
	}
	out := make(keySet, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			out = append(out, s[i])
			i++
		case s[i] > other[j]:
			out = append(out, other[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	out = append(out, other[j:]...)
	return out
}

// partitionByBias splits the set into its left-biased and right-biased keys,
// preserving order.
func (s keySet) partitionByBias() (left, right keySet) {
	for _, k := range s {
		if k.leftBiased() {
			left = append(left, k)
		} else {
			right = append(right, k)
		}
	}
	return left, right
}
