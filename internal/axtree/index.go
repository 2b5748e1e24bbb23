package axtree

import "strconv"

// Index gives constant-time access to the nodes of a Tree. The tree must
// not be modified while the index is in use.
type Index struct {
	tree *Tree
	byID map[string]*Node
}

// NewIndex indexes tree by node id. When ids repeat, the first declared
// node wins, matching a linear scan.
func NewIndex(tree *Tree) *Index {
	idx := &Index{tree: tree, byID: make(map[string]*Node, len(tree.Nodes))}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if _, dup := idx.byID[n.NodeID]; !dup {
			idx.byID[n.NodeID] = n
		}
	}
	return idx
}

// Tree returns the indexed tree.
func (idx *Index) Tree() *Tree { return idx.tree }

// Len returns the number of nodes, duplicates included.
func (idx *Index) Len() int { return len(idx.tree.Nodes) }

// FindRoot returns the first RootWebArea node, or nil.
func (idx *Index) FindRoot() *Node {
	for i := range idx.tree.Nodes {
		n := &idx.tree.Nodes[i]
		if name, ok := n.Role.Named(); ok && name == "RootWebArea" {
			return n
		}
	}
	return nil
}

// FindNode returns the node with the given id, or nil.
func (idx *Index) FindNode(id string) *Node {
	return idx.byID[id]
}

// Children returns the nodes whose ParentID is parentID, in declaration
// order. Rendering uses ChildNodes instead; the two can disagree.
func (idx *Index) Children(parentID string) []*Node {
	var out []*Node
	for i := range idx.tree.Nodes {
		n := &idx.tree.Nodes[i]
		if n.ParentID != "" && n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out
}

// ChildNodes resolves n.ChildIDs in order, skipping dangling ids.
// Duplicate ids resolve to the same node more than once.
func (idx *Index) ChildNodes(n *Node) []*Node {
	out := make([]*Node, 0, len(n.ChildIDs))
	for _, id := range n.ChildIDs {
		if c := idx.FindNode(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Parent resolves n.ParentID, or returns nil.
func (idx *Index) Parent(n *Node) *Node {
	if n.ParentID == "" {
		return nil
	}
	return idx.FindNode(n.ParentID)
}

// ParentMap groups nodes by ParentID. Nodes without a parent are omitted.
func (idx *Index) ParentMap() map[string][]*Node {
	m := make(map[string][]*Node)
	for i := range idx.tree.Nodes {
		n := &idx.tree.Nodes[i]
		if n.ParentID != "" {
			m[n.ParentID] = append(m[n.ParentID], n)
		}
	}
	return m
}

// RoleCounts tallies nodes by role, using the name for Named roles and
// "internal:<code>" for Internal ones.
func (idx *Index) RoleCounts() map[string]int {
	counts := make(map[string]int)
	for i := range idx.tree.Nodes {
		counts[roleKey(idx.tree.Nodes[i].Role)]++
	}
	return counts
}

func roleKey(r Role) string {
	if name, ok := r.Named(); ok {
		return name
	}
	if v, ok := r.Internal(); ok {
		return "internal:" + strconv.FormatInt(v, 10)
	}
	return "unknown"
}
