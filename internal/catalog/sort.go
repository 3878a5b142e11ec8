package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// SortOrder is the user-chosen base ordering of the mod list.
type SortOrder int

const (
	AToZ SortOrder = iota
	ZToA
	UpdateAvailable
)

var sortOrderNames = []string{"A_Z", "Z_A", "UPDATE_AVAILABLE"}

func (s SortOrder) String() string {
	if s >= 0 && int(s) < len(sortOrderNames) {
		return sortOrderNames[s]
	}
	return fmt.Sprintf("SortOrder(%d)", int(s))
}

// ParseSortOrder parses the names written by String, case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	for i, name := range sortOrderNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return SortOrder(i), nil
		}
	}
	return AToZ, fmt.Errorf("unknown sort order %q", s)
}

func (s SortOrder) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SortOrder) UnmarshalText(b []byte) error {
	v, err := ParseSortOrder(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Base returns the ordering applied between root groups and between
// siblings. UpdateAvailable only ranks tiers (update found, checker only,
// neither); mods within a tier compare equal.
func (s SortOrder) Base() func(a, b *Descriptor) int {
	switch s {
	case ZToA:
		return func(a, b *Descriptor) int { return compareIDs(b, a) }
	case UpdateAvailable:
		return func(a, b *Descriptor) int {
			if c := compareBool(a.UpdateInfo() == nil, b.UpdateInfo() == nil); c != 0 {
				return c
			}
			return compareBool(!a.HasUpdateChecker(), !b.HasUpdateChecker())
		}
	default:
		return compareIDs
	}
}

func compareIDs(a, b *Descriptor) int {
	return strings.Compare(strings.ToLower(a.id), strings.ToLower(b.id))
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Comparator returns order's base comparator wrapped with hierarchy
// grouping: mods are compared through their root ancestors, a root sorts
// first within its group and siblings fall back to the base order. Root
// groups the base order ties keep registration order. Roots are memoized
// per comparator.
func (r *Registry) Comparator(order SortOrder) func(a, b *Descriptor) int {
	base := order.Base()
	var mu sync.Mutex
	roots := make(map[string]*Descriptor)
	rootOf := func(d *Descriptor) *Descriptor {
		mu.Lock()
		defer mu.Unlock()
		if root, ok := roots[d.id]; ok {
			return root
		}
		root := r.resolveRoot(d)
		roots[d.id] = root
		return root
	}

	return func(a, b *Descriptor) int {
		if a.id == b.id {
			return 0
		}
		rootA, rootB := rootOf(a), rootOf(b)
		if rootA.id != rootB.id {
			if c := base(rootA, rootB); c != 0 {
				return c
			}
			return cmp.Compare(r.index[rootA.id], r.index[rootB.id])
		}
		switch {
		case a.id == rootA.id:
			return -1
		case b.id == rootB.id:
			return 1
		default:
			return base(a, b)
		}
	}
}

// Sorted returns every mod in display order.
func (r *Registry) Sorted(order SortOrder) []*Descriptor {
	mods := r.Mods()
	slices.SortStableFunc(mods, r.Comparator(order))
	return mods
}
