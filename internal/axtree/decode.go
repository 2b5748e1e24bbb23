package axtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Decode parses a {"nodes": [...]} document. Unknown fields are ignored at
// every level and unknown property types are preserved. The returned error,
// if any, is a *DecodeError.
func Decode(data []byte) (*Tree, error) {
	top, ok := decodeObject(data)
	if !ok {
		return nil, structuralf("", "", "document is not a JSON object")
	}
	rawNodes, ok := top["nodes"]
	if !ok || isNull(rawNodes) {
		return nil, structuralf("", "nodes", "missing nodes array")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawNodes, &items); err != nil {
		return nil, structuralf("", "nodes", "nodes is not an array")
	}

	tree := &Tree{Nodes: make([]Node, 0, len(items))}
	for i, item := range items {
		n, err := decodeNode(item, fmt.Sprintf("nodes[%d]", i))
		if err != nil {
			return nil, err
		}
		tree.Nodes = append(tree.Nodes, n)
	}
	return tree, nil
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read accessibility tree: %w", err)
	}
	return Decode(data)
}

// UnmarshalJSON implements json.Unmarshaler with the rules of Decode.
func (t *Tree) UnmarshalJSON(data []byte) error {
	tree, err := Decode(data)
	if err != nil {
		return err
	}
	*t = *tree
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for a single node.
func (n *Node) UnmarshalJSON(data []byte) error {
	node, err := decodeNode(data, "")
	if err != nil {
		return err
	}
	*n = node
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for a role annotation.
func (r *Role) UnmarshalJSON(data []byte) error {
	role, err := decodeRole(data, "", "role")
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for a computed name.
func (nm *Name) UnmarshalJSON(data []byte) error {
	name, err := decodeName(data, "")
	if err != nil {
		return err
	}
	*nm = name
	return nil
}

func decodeNode(data json.RawMessage, path string) (Node, error) {
	obj, ok := decodeObject(data)
	if !ok {
		return Node{}, structuralf("", path, "node is not an object")
	}

	var n Node
	rawID, ok := obj["nodeId"]
	if !ok {
		return Node{}, structuralf("", path+".nodeId", "nodeId is required")
	}
	if err := json.Unmarshal(rawID, &n.NodeID); err != nil || isNull(rawID) {
		return Node{}, structuralf("", path+".nodeId", "nodeId must be a string")
	}
	id := n.NodeID

	rawRole, ok := obj["role"]
	if !ok {
		return Node{}, structuralf(id, "role", "role is required")
	}
	role, err := decodeRole(rawRole, id, "role")
	if err != nil {
		return Node{}, err
	}
	n.Role = role

	if raw, ok := present(obj, "parentId"); ok {
		if err := json.Unmarshal(raw, &n.ParentID); err != nil {
			return Node{}, structuralf(id, "parentId", "parentId must be a string")
		}
	}
	if raw, ok := present(obj, "childIds"); ok {
		if err := json.Unmarshal(raw, &n.ChildIDs); err != nil {
			return Node{}, structuralf(id, "childIds", "childIds must be an array of strings")
		}
	}
	if raw, ok := present(obj, "chromeRole"); ok {
		cr, err := decodeRole(raw, id, "chromeRole")
		if err != nil {
			return Node{}, err
		}
		n.ChromeRole = &cr
	}
	if raw, ok := present(obj, "name"); ok {
		name, err := decodeName(raw, id)
		if err != nil {
			return Node{}, err
		}
		n.Name = &name
	}
	if raw, ok := present(obj, "properties"); ok {
		props, err := decodeProperties(raw, id)
		if err != nil {
			return Node{}, err
		}
		n.Properties = props
	}
	if raw, ok := present(obj, "ignoredReasons"); ok {
		reasons, err := decodeIgnoredReasons(raw, id)
		if err != nil {
			return Node{}, err
		}
		n.IgnoredReasons = reasons
	}
	if raw, ok := present(obj, "backendDOMNodeId"); ok {
		v, err := parseInt64(raw)
		if err != nil {
			return Node{}, structuralf(id, "backendDOMNodeId", "%v", err)
		}
		n.BackendDOMNodeID = &v
	}

	return n, nil
}

func decodeRole(data json.RawMessage, nodeID, field string) (Role, error) {
	obj, ok := decodeObject(data)
	if !ok {
		return Role{}, structuralf(nodeID, field, "role is not an object")
	}

	var r Role
	if raw, ok := present(obj, "type"); ok {
		if err := json.Unmarshal(raw, &r.Type); err != nil {
			return Role{}, structuralf(nodeID, field+".type", "type must be a string")
		}
	}

	raw, ok := present(obj, "value")
	if !ok {
		return Role{}, structuralf(nodeID, field+".value", "role value is required")
	}
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Role{}, structuralf(nodeID, field+".value", "%v", err)
		}
		r.Value = Named(s)
	default:
		v, err := parseInt64(raw)
		if err != nil {
			return Role{}, structuralf(nodeID, field+".value", "role value must be an integer or a string")
		}
		r.Value = Internal(v)
	}
	return r, nil
}

func decodeName(data json.RawMessage, nodeID string) (Name, error) {
	var wire struct {
		Type    *string           `json:"type"`
		Value   *string           `json:"value"`
		Sources []json.RawMessage `json:"sources"`
	}
	if _, ok := decodeObject(data); !ok {
		return Name{}, structuralf(nodeID, "name", "name is not an object")
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Name{}, structuralf(nodeID, "name", "%v", err)
	}
	if wire.Type == nil {
		return Name{}, structuralf(nodeID, "name.type", "name type is required")
	}

	name := Name{Type: *wire.Type}
	if wire.Value != nil {
		name.Value = *wire.Value
	}
	for i, raw := range wire.Sources {
		var src struct {
			Type       *string `json:"type"`
			Superseded *bool   `json:"superseded"`
		}
		if err := json.Unmarshal(raw, &src); err != nil || src.Type == nil {
			return Name{}, structuralf(nodeID, fmt.Sprintf("name.sources[%d]", i), "source needs a string type")
		}
		// attribute and value are dropped on purpose.
		name.Sources = append(name.Sources, NameSource{Type: *src.Type, Superseded: src.Superseded})
	}
	return name, nil
}

func decodeIgnoredReasons(data json.RawMessage, nodeID string) ([]IgnoredReason, error) {
	var wire []struct {
		Name  string `json:"name"`
		Value struct {
			Type  string `json:"type"`
			Value *bool  `json:"value"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, structuralf(nodeID, "ignoredReasons", "%v", err)
	}
	reasons := make([]IgnoredReason, 0, len(wire))
	for _, w := range wire {
		r := IgnoredReason{Name: w.Name, Value: BoolValue{Type: w.Value.Type}}
		if w.Value.Value != nil {
			r.Value.Value = *w.Value.Value
		}
		reasons = append(reasons, r)
	}
	return reasons, nil
}

func decodeProperties(data json.RawMessage, nodeID string) ([]Property, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, structuralf(nodeID, "properties", "properties must be an array")
	}
	props := make([]Property, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("properties[%d]", i)
		obj, ok := decodeObject(item)
		if !ok {
			return nil, structuralf(nodeID, path, "property is not an object")
		}
		var p Property
		if raw, ok := present(obj, "name"); ok {
			if err := json.Unmarshal(raw, &p.Name); err != nil {
				return nil, structuralf(nodeID, path+".name", "name must be a string")
			}
		}
		raw, ok := obj["value"]
		if !ok {
			return nil, structuralf(nodeID, path+".value", "property value is required")
		}
		pv, err := decodePropertyValue(raw, nodeID, path+".value")
		if err != nil {
			return nil, err
		}
		p.Value = pv
		props = append(props, p)
	}
	return props, nil
}

func decodePropertyValue(data json.RawMessage, nodeID, path string) (PropertyValue, error) {
	obj, ok := decodeObject(data)
	if !ok {
		return PropertyValue{}, structuralf(nodeID, path, "property value is not an object")
	}
	rawType, ok := obj["type"]
	var typ string
	if !ok || json.Unmarshal(rawType, &typ) != nil || isNull(rawType) {
		return PropertyValue{}, structuralf(nodeID, path+".type", "property value needs a string type")
	}

	pv := PropertyValue{Type: typ}
	raw, hasValue := obj["value"]

	switch typ {
	case TypeBooleanOrUndefined:
		if !hasValue {
			pv.Content = Boolean{Type: TypeBooleanOrUndefined}
			break
		}
		var b bool
		if err := unmarshalStrict(raw, &b); err != nil {
			return PropertyValue{}, payloadf(nodeID, path, "invalid boolean value")
		}
		pv.Content = Boolean{Type: typ, Value: b}
	case TypeBoolean:
		var b bool
		if hasValue {
			if err := unmarshalStrict(raw, &b); err != nil {
				return PropertyValue{}, payloadf(nodeID, path, "invalid boolean value")
			}
		}
		pv.Content = SimpleBoolean(b)
	case TypeString, TypeToken:
		var s string
		if hasValue {
			if err := unmarshalStrict(raw, &s); err != nil {
				return PropertyValue{}, payloadf(nodeID, path, "invalid %s value", typ)
			}
		}
		if typ == TypeToken {
			pv.Content = Token(s)
		} else {
			pv.Content = String(s)
		}
	case TypeInteger:
		var i int64
		if hasValue {
			v, err := parseInt64(raw)
			if err != nil {
				return PropertyValue{}, payloadf(nodeID, path, "invalid integer value")
			}
			i = v
		}
		pv.Content = Integer(i)
	case TypeNodeList:
		ids := []string{}
		if hasValue {
			var err error
			if ids, err = stringList(raw); err != nil {
				return PropertyValue{}, payloadf(nodeID, path, "invalid node list value: %v", err)
			}
		}
		pv.Content = NodeList(ids)
	case TypeTokenList:
		tokens := []string{}
		if hasValue {
			tokens = liberalTokenList(raw)
		}
		pv.Content = TokenList(tokens)
	default:
		rest := make(Unknown, len(obj))
		for k, v := range obj {
			if k != "type" {
				rest[k] = v
			}
		}
		pv.Content = rest
	}
	return pv, nil
}

// liberalTokenList accepts whatever Chrome puts in a tokenList: plain
// strings, embedded nodes, arbitrary arrays or even a scalar.
func liberalTokenList(raw json.RawMessage) []string {
	if tokens, err := stringList(raw); err == nil {
		return tokens
	}

	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return []string{compactJSON(raw)}
	}

	ids := make([]string, 0, len(items))
	allNodes := true
	for i, item := range items {
		n, err := decodeNode(item, fmt.Sprintf("value[%d]", i))
		if err != nil {
			allNodes = false
			break
		}
		ids = append(ids, n.NodeID)
	}
	if allNodes {
		return ids
	}

	tokens := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if item[0] == '"' && json.Unmarshal(item, &s) == nil {
			tokens = append(tokens, s)
			continue
		}
		if obj, ok := decodeObject(item); ok {
			if v, ok := obj["value"]; ok && len(v) > 0 && v[0] == '"' && json.Unmarshal(v, &s) == nil {
				tokens = append(tokens, s)
				continue
			}
		}
		tokens = append(tokens, compactJSON(item))
	}
	return tokens
}

func decodeObject(data []byte) (map[string]json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// present returns the field only when it exists and is not null, matching
// how optional fields treat an explicit null.
func present(obj map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// unmarshalStrict rejects null, which encoding/json would otherwise accept
// as a no-op for any target.
func unmarshalStrict(raw json.RawMessage, v any) error {
	if isNull(raw) {
		return fmt.Errorf("unexpected null")
	}
	return json.Unmarshal(raw, v)
}

// stringList decodes a JSON array whose every element is a string. Null
// elements are rejected rather than decoded as "".
func stringList(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := unmarshalStrict(raw, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if len(item) == 0 || item[0] != '"' {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseInt64(raw json.RawMessage) (int64, error) {
	s := string(bytes.TrimSpace(raw))
	if s == "" || !(s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		return 0, fmt.Errorf("not an integer: %s", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
