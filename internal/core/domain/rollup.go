package domain

import "sort"

// Level identifies the depth of a rollup node.
type Level int

const (
	LevelRoot Level = iota
	LevelRegion
	LevelDistrict
	LevelOffice
)

// String returns the grouping dimension name for the level.
func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelRegion:
		return "region"
	case LevelDistrict:
		return "district"
	case LevelOffice:
		return "office"
	default:
		return "unknown"
	}
}

// Node is one group in the rollup tree. ByStatus covers exactly the statuses
// passed to BuildTree, all initialized to zero, and Total always equals the
// sum of ByStatus. For any parent node, Total and every per-status count
// equal the sum over its children.
type Node struct {
	Level    Level
	Key      string
	ByStatus map[string]int
	Total    int

	children map[string]*Node
}

func newNode(level Level, key string, statuses []string) *Node {
	byStatus := make(map[string]int, len(statuses))
	for _, s := range statuses {
		byStatus[s] = 0
	}
	return &Node{
		Level:    level,
		Key:      key,
		ByStatus: byStatus,
		children: make(map[string]*Node),
	}
}

// bump increments the count for the given status literal and the node total.
func (n *Node) bump(status string) {
	n.ByStatus[status]++
	n.Total++
}

// child returns the child node for key, creating it on demand. No two
// children of one parent ever share a key.
func (n *Node) child(key string, statuses []string) *Node {
	c, ok := n.children[key]
	if !ok {
		c = newNode(n.Level+1, key, statuses)
		n.children[key] = c
	}
	return c
}

// Child looks up a direct child by its group key.
func (n *Node) Child(key string) (*Node, bool) {
	c, ok := n.children[key]
	return c, ok
}

// Children returns the direct children sorted lexicographically by key, with
// the blank-sentinel group always last. Insertion order is never exposed.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if a == BlankSentinel || b == BlankSentinel {
			return b == BlankSentinel && a != BlankSentinel
		}
		return a < b
	})
	return out
}

// BuildTree folds the normalized rows into a fresh three-level rollup tree
// and returns its root. Rows without an application identifier are excluded
// from every count. The fold is commutative per key: row order never changes
// the resulting counts. Every row status must appear in statuses.
func BuildTree(rows []Row, statuses []string) *Node {
	root := newNode(LevelRoot, "", statuses)
	for _, row := range rows {
		if !row.Countable() {
			continue
		}
		root.bump(row.Status)

		region := root.child(row.Region, statuses)
		region.bump(row.Status)

		district := region.child(row.District, statuses)
		district.bump(row.Status)

		office := district.child(row.Office, statuses)
		office.bump(row.Status)
	}
	return root
}
