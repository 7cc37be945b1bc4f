package compare

import "slices"

type set[E comparable] map[E]struct{}

func newSet[E comparable](elements ...E) set[E] {
	s := make(set[E], len(elements))
	for _, e := range elements {
		s[e] = struct{}{}
	}
	return s
}

func (s set[E]) has(e E) bool {
	_, ok := s[e]
	return ok
}

func (s set[E]) intersect(o set[E]) set[E] {
	r := newSet[E]()
	for e := range s {
		if o.has(e) {
			r[e] = struct{}{}
		}
	}
	return r
}

func (s set[E]) diff(o set[E]) set[E] {
	r := newSet[E]()
	for e := range s {
		if !o.has(e) {
			r[e] = struct{}{}
		}
	}
	return r
}

// unionSize is |s ∪ o| without building the union.
func (s set[E]) unionSize(o set[E]) int {
	n := len(s)
	for e := range o {
		if !s.has(e) {
			n++
		}
	}
	return n
}

func (s set[E]) sorted(cmp func(a, b E) int) []E {
	out := make([]E, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.SortFunc(out, cmp)
	return out
}
