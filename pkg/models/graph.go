package models

import "sort"

// TriggerNodes returns all trigger-kind nodes in node order. Nil node
// entries are skipped.
func (w *Workflow) TriggerNodes() []*WorkflowNode {
	var triggers []*WorkflowNode

	for _, n := range w.Nodes {
		if n != nil && n.IsTriggerNode() {
			triggers = append(triggers, n)
		}
	}

	return triggers
}

// Adjacency returns the outgoing adjacency list of the graph. Successor
// lists are sorted so traversals are deterministic. Nil entries carry no
// graph information and are skipped; repairs mark dropped edges nil before
// compacting, and decoded documents may hold JSON nulls.
func (w *Workflow) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(w.Nodes))

	for _, n := range w.Nodes {
		if n != nil {
			adj[n.ID] = nil
		}
	}

	for _, e := range w.Edges {
		if e != nil {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	for id := range adj {
		sort.Strings(adj[id])
	}

	return adj
}

// OutDegree returns the number of outgoing edges of the given node.
func (w *Workflow) OutDegree(id string) int {
	count := 0

	for _, e := range w.Edges {
		if e != nil && e.From == id {
			count++
		}
	}

	return count
}

// HasCycle reports whether the graph contains a directed cycle. Edges that
// reference unknown nodes are ignored; they are reported separately by the
// validator.
func (w *Workflow) HasCycle() bool {
	adj := w.Adjacency()

	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)

	color := make(map[string]int, len(adj))

	var visit func(id string) bool

	visit = func(id string) bool {
		color[id] = gray

		for _, next := range adj[id] {
			if _, known := adj[next]; !known {
				continue
			}

			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}

		color[id] = black

		return false
	}

	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white && visit(id) {
			return true
		}
	}

	return false
}

// ReachableFrom returns the set of node ids reachable from start, including
// start itself.
func (w *Workflow) ReachableFrom(start string) map[string]bool {
	adj := w.Adjacency()
	reached := make(map[string]bool, len(adj))

	var visit func(id string)

	visit = func(id string) {
		if reached[id] {
			return
		}

		reached[id] = true

		for _, next := range adj[id] {
			if _, known := adj[next]; known {
				visit(next)
			}
		}
	}

	if _, known := adj[start]; known {
		visit(start)
	}

	return reached
}
