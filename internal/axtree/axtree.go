// Package axtree models the accessibility tree Chrome exposes through the
// DevTools protocol (Accessibility.getFullAXTree) and decodes its loosely
// typed JSON form.
//
// The tree is a flat list of nodes that reference each other by id. Nothing
// guarantees the references form a tree: ids may dangle, repeat, or cycle.
// Consumers resolve ids through an Index and keep their own visited sets.
package axtree

// Internal role codes Chrome reports for inline text leaves.
const (
	RoleInlineTextBox int64 = 101
	RoleStaticText    int64 = 158
)

// Tree is the decoded accessibility tree. There is no implicit root; see
// Index.FindRoot.
type Tree struct {
	Nodes []Node
}

// Node is a single accessibility node.
type Node struct {
	NodeID           string
	ParentID         string
	ChildIDs         []string
	Role             Role
	ChromeRole       *Role
	Name             *Name
	Properties       []Property
	IgnoredReasons   []IgnoredReason
	BackendDOMNodeID *int64

	// Ignored is never read from the wire. Chrome often reports false even
	// when ignoredReasons are present, so IsIgnored derives it from the
	// reasons instead.
	Ignored bool
}

// IsIgnored reports whether the renderer should skip emitting the node.
func (n *Node) IsIgnored() bool {
	if n.Ignored {
		return true
	}
	for _, r := range n.IgnoredReasons {
		if r.Name == "uninteresting" {
			return true
		}
	}
	return false
}

// NameValue returns the computed name, or "" when the node has none.
func (n *Node) NameValue() string {
	if n.Name == nil {
		return ""
	}
	return n.Name.Value
}

// EffectiveInternalRole returns the internal role code, preferring the
// chromeRole annotation over role.
func (n *Node) EffectiveInternalRole() (int64, bool) {
	if n.ChromeRole != nil {
		if v, ok := n.ChromeRole.Internal(); ok {
			return v, true
		}
	}
	return n.Role.Internal()
}

// IsInlineText reports whether the node is a StaticText or InlineTextBox
// leaf, by internal code or by name.
func (n *Node) IsInlineText() bool {
	if v, ok := n.EffectiveInternalRole(); ok && (v == RoleStaticText || v == RoleInlineTextBox) {
		return true
	}
	name, _ := n.Role.Named()
	return name == "StaticText" || name == "InlineTextBox"
}

// Role is a role annotation. Value holds either an Internal code or a Named
// role.
type Role struct {
	Type  string
	Value RoleValue
}

// RoleValue is implemented by Internal and Named only.
type RoleValue interface {
	isRoleValue()
}

// Internal is a Chrome-internal numeric role such as 158 (StaticText).
type Internal int64

// Named is an ARIA-style role name such as "heading".
type Named string

func (Internal) isRoleValue() {}
func (Named) isRoleValue()    {}

// Internal returns the numeric role when the value is Internal.
func (r Role) Internal() (int64, bool) {
	v, ok := r.Value.(Internal)
	return int64(v), ok
}

// Named returns the role name when the value is Named.
func (r Role) Named() (string, bool) {
	v, ok := r.Value.(Named)
	return string(v), ok
}

// IsInternal reports whether the role uses the numeric dialect.
func (r Role) IsInternal() bool {
	_, ok := r.Value.(Internal)
	return ok
}

// Name is a node's computed accessible name.
type Name struct {
	Type    string
	Value   string
	Sources []NameSource
}

// NameSource describes one contributor to a computed name. Attribute and
// Value are never populated by the decoder.
type NameSource struct {
	Type       string
	Superseded *bool
	Attribute  *string
	Value      *SourceValue
}

// SourceValue is the typed value of a name source.
type SourceValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// IgnoredReason explains why Chrome marked a node as ignored.
type IgnoredReason struct {
	Name  string
	Value BoolValue
}

// BoolValue is Chrome's {"type": ..., "value": bool} envelope.
type BoolValue struct {
	Type  string `json:"type"`
	Value bool   `json:"value"`
}

// Property is a named node property.
type Property struct {
	Name  string
	Value PropertyValue
}
