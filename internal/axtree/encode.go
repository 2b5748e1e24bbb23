package axtree

import "encoding/json"

type wireTree struct {
	Nodes []Node `json:"nodes"`
}

type wireNode struct {
	BackendDOMNodeID *int64          `json:"backendDOMNodeId,omitempty"`
	ChildIDs         []string        `json:"childIds,omitempty"`
	ChromeRole       *Role           `json:"chromeRole,omitempty"`
	Ignored          bool            `json:"ignored"`
	IgnoredReasons   []IgnoredReason `json:"ignoredReasons,omitempty"`
	NodeID           string          `json:"nodeId"`
	ParentID         string          `json:"parentId,omitempty"`
	Role             Role            `json:"role"`
	Name             *Name           `json:"name,omitempty"`
	Properties       []Property      `json:"properties,omitempty"`
}

// MarshalJSON writes the tree in the same shape Decode reads.
func (t Tree) MarshalJSON() ([]byte, error) {
	nodes := t.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	return json.Marshal(wireTree{Nodes: nodes})
}

// MarshalJSON writes the node with its wire field names.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNode{
		BackendDOMNodeID: n.BackendDOMNodeID,
		ChildIDs:         n.ChildIDs,
		ChromeRole:       n.ChromeRole,
		Ignored:          n.Ignored,
		IgnoredReasons:   n.IgnoredReasons,
		NodeID:           n.NodeID,
		ParentID:         n.ParentID,
		Role:             n.Role,
		Name:             n.Name,
		Properties:       n.Properties,
	})
}

// MarshalJSON writes the role value as a JSON number or string.
func (r Role) MarshalJSON() ([]byte, error) {
	var value any
	switch v := r.Value.(type) {
	case Internal:
		value = int64(v)
	case Named:
		value = string(v)
	}
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	}{r.Type, value})
}

// MarshalJSON writes the computed name.
func (nm Name) MarshalJSON() ([]byte, error) {
	sources := nm.Sources
	if sources == nil {
		sources = []NameSource{}
	}
	return json.Marshal(struct {
		Sources []NameSource `json:"sources"`
		Type    string       `json:"type"`
		Value   string       `json:"value"`
	}{sources, nm.Type, nm.Value})
}

// MarshalJSON writes the name source.
func (s NameSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Attribute  *string      `json:"attribute,omitempty"`
		Superseded *bool        `json:"superseded,omitempty"`
		Type       string       `json:"type"`
		Value      *SourceValue `json:"value,omitempty"`
	}{s.Attribute, s.Superseded, s.Type, s.Value})
}

// MarshalJSON writes the reason with its boolean envelope.
func (r IgnoredReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string    `json:"name"`
		Value BoolValue `json:"value"`
	}{r.Name, r.Value})
}

// MarshalJSON writes the property.
func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string        `json:"name"`
		Value PropertyValue `json:"value"`
	}{p.Name, p.Value})
}
