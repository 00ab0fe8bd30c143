package engine

import (
	"sort"

	"bilancio/internal/core"
)

// Hierarchy is a prebuilt parent/children index over a user's category
// forest. Build it once per request from the flat category list; subtree
// lookups are then map reads, memoized on first use.
//
// A Hierarchy is not safe for concurrent use; the composer walks it from a
// single goroutine.
type Hierarchy struct {
	byID        map[int64]core.Category
	children    map[int64][]core.Category
	descendants map[int64][]int64
}

// NewHierarchy indexes the flat category list in one pass. Children are
// ordered by their sibling sort key, then id.
func NewHierarchy(categories []core.Category) *Hierarchy {
	h := &Hierarchy{
		byID:        make(map[int64]core.Category, len(categories)),
		children:    make(map[int64][]core.Category),
		descendants: make(map[int64][]int64),
	}
	for _, c := range categories {
		h.byID[c.ID] = c
	}
	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		h.children[*c.ParentID] = append(h.children[*c.ParentID], c)
	}
	for id := range h.children {
		siblings := h.children[id]
		sort.SliceStable(siblings, func(i, j int) bool {
			if siblings[i].Order != siblings[j].Order {
				return siblings[i].Order < siblings[j].Order
			}
			return siblings[i].ID < siblings[j].ID
		})
	}
	return h
}

// Category looks up a category by id.
func (h *Hierarchy) Category(id int64) (core.Category, bool) {
	c, ok := h.byID[id]
	return c, ok
}

// Children returns the direct children of a category, in sibling order.
func (h *Hierarchy) Children(id int64) []core.Category {
	return h.children[id]
}

// SubtreeIDs returns the category id plus every descendant id, regardless of
// depth. An unknown id resolves to just itself rather than an error.
func (h *Hierarchy) SubtreeIDs(id int64) []int64 {
	if ids, ok := h.descendants[id]; ok {
		return ids
	}

	ids := []int64{id}
	seen := map[int64]struct{}{id: {}}
	stack := []int64{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range h.children[cur] {
			// seen guards against parent cycles in bad data.
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			ids = append(ids, child.ID)
			stack = append(stack, child.ID)
		}
	}

	h.descendants[id] = ids
	return ids
}
