// Package commenttree arranges flat comment records into reply trees.
//
// Build is pure and synchronous: it copies the records, so callers can keep
// using the input slice. A record whose parent is not in the input is kept
// as a root, which tolerates partially loaded or moderated threads. Records
// whose parent links form a cycle are kept too: the one that comes first in
// the input becomes a root and the rest of the cycle hangs below it.
package commenttree

import (
	"slices"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

const (
	unvisited = iota
	visiting
	done
)

// Build returns the root comments, each with Children populated recursively.
// Siblings keep their relative input order. Every record of the input ends
// up in the forest exactly once. Runs in O(n).
func Build(comments []models.Comment) []*models.CommentNode {
	index := make(map[models.ID]int, len(comments))
	for i, c := range comments {
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = i
		}
	}

	parent := make([]int, len(comments))
	for i, c := range comments {
		parent[i] = -1
		if c.ParentID.IsZero() || c.ParentID == c.ID {
			continue
		}
		if j, ok := index[c.ParentID]; ok {
			parent[i] = j
		}
	}
	breakCycles(parent)

	nodes := make([]*models.CommentNode, len(comments))
	for i, c := range comments {
		nodes[i] = &models.CommentNode{Comment: c, Children: []*models.CommentNode{}}
	}
	roots := make([]*models.CommentNode, 0, len(comments))
	for i, n := range nodes {
		if parent[i] < 0 {
			roots = append(roots, n)
			continue
		}
		p := nodes[parent[i]]
		p.Children = append(p.Children, n)
	}
	return roots
}

// breakCycles cuts the parent link of the earliest record on each cycle of
// the parent graph. A record has one parent, so a component holds at most
// one cycle and one cut per cycle leaves a forest.
func breakCycles(parent []int) {
	state := make([]uint8, len(parent))
	var path []int
	for i := range parent {
		path = path[:0]
		v := i
		for v >= 0 && state[v] == unvisited {
			state[v] = visiting
			path = append(path, v)
			v = parent[v]
		}
		if v >= 0 && state[v] == visiting {
			cycle := path[slices.Index(path, v):]
			parent[slices.Min(cycle)] = -1
		}
		for _, u := range path {
			state[u] = done
		}
	}
}

// Flatten lists the forest depth-first in pre-order, dropping Children.
func Flatten(roots []*models.CommentNode) []models.Comment {
	var out []models.Comment
	Walk(roots, func(n *models.CommentNode, _ int) {
		out = append(out, n.Comment)
	})
	return out
}

// Walk visits every node depth-first in pre-order; depth is 0 for roots.
func Walk(roots []*models.CommentNode, fn func(n *models.CommentNode, depth int)) {
	var visit func(nodes []*models.CommentNode, depth int)
	visit = func(nodes []*models.CommentNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(roots, 0)
}

// Count returns the number of nodes in the forest.
func Count(roots []*models.CommentNode) int {
	total := 0
	Walk(roots, func(*models.CommentNode, int) { total++ })
	return total
}
