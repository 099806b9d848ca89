package org

import (
	"sort"

	"hrinsight/internal/domain/readers"
)

// Hierarchy is an arena of employees indexed by id with each manager's direct
// reports. Manager chains coming from storage may contain cycles, so every
// traversal carries a visited set.
type Hierarchy struct {
	reports map[int64][]int64
	known   map[int64]struct{}
}

func NewHierarchy(employees []readers.Employee) *Hierarchy {
	h := &Hierarchy{
		reports: make(map[int64][]int64),
		known:   make(map[int64]struct{}, len(employees)),
	}
	for _, emp := range employees {
		h.known[emp.ID] = struct{}{}
		if emp.ManagerID == nil || *emp.ManagerID == emp.ID {
			continue
		}
		h.reports[*emp.ManagerID] = append(h.reports[*emp.ManagerID], emp.ID)
	}
	for id := range h.reports {
		sort.Slice(h.reports[id], func(i, j int) bool { return h.reports[id][i] < h.reports[id][j] })
	}
	return h
}

func (h *Hierarchy) Contains(id int64) bool {
	_, ok := h.known[id]
	return ok
}

// Subtree returns rootID followed by everyone reporting to it directly or
// indirectly, in breadth-first order.
func (h *Hierarchy) Subtree(rootID int64) []int64 {
	if !h.Contains(rootID) {
		return nil
	}
	visited := map[int64]struct{}{rootID: {}}
	out := []int64{rootID}
	queue := []int64{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range h.reports[current] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}
