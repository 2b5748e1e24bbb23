package axtree

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Property type tokens understood by the decoder.
const (
	TypeBooleanOrUndefined = "booleanOrUndefined"
	TypeBoolean            = "boolean"
	TypeString             = "string"
	TypeInteger            = "integer"
	TypeToken              = "token"
	TypeNodeList           = "nodeList"
	TypeTokenList          = "tokenList"
)

// PropertyValue is the {"type": ..., ...} envelope of a property. Content
// depends on Type; unrecognized types keep their raw fields in Unknown.
type PropertyValue struct {
	Type    string
	Content PropertyContent
}

// PropertyContent is implemented by the payload types below.
type PropertyContent interface {
	isPropertyContent()
}

// Boolean is a booleanOrUndefined payload.
type Boolean struct {
	Type  string
	Value bool
}

// SimpleBoolean is a bare boolean payload.
type SimpleBoolean bool

// String is a string payload.
type String string

// Token is a token payload, e.g. "polite" for aria-live.
type Token string

// Integer is an integer payload.
type Integer int64

// NodeList lists related node ids.
type NodeList []string

// TokenList is a list of tokens.
type TokenList []string

// Unknown keeps every field of the envelope except "type", verbatim.
type Unknown map[string]json.RawMessage

func (Boolean) isPropertyContent()       {}
func (SimpleBoolean) isPropertyContent() {}
func (String) isPropertyContent()        {}
func (Token) isPropertyContent()         {}
func (Integer) isPropertyContent()       {}
func (NodeList) isPropertyContent()      {}
func (TokenList) isPropertyContent()     {}
func (Unknown) isPropertyContent()       {}

// MarshalJSON writes the envelope back in wire form.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	var payload any
	switch c := v.Content.(type) {
	case Boolean:
		payload = c.Value
	case SimpleBoolean:
		payload = bool(c)
	case String:
		payload = string(c)
	case Token:
		payload = string(c)
	case Integer:
		payload = int64(c)
	case NodeList:
		payload = nonNil(c)
	case TokenList:
		payload = nonNil(c)
	case Unknown:
		return marshalUnknown(v.Type, c)
	case nil:
		return marshalUnknown(v.Type, nil)
	}

	typ, err := json.Marshal(v.Type)
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	buf.WriteString(`,"value":`)
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a single envelope. Errors are *DecodeError.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	pv, err := decodePropertyValue(data, "", "value")
	if err != nil {
		return err
	}
	*v = pv
	return nil
}

func marshalUnknown(typ string, rest Unknown) ([]byte, error) {
	keys := make([]string, 0, len(rest))
	for k := range rest {
		if k == "type" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	t, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"type":`)
	buf.Write(t)
	for _, k := range keys {
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val := rest[k]
		if len(val) == 0 {
			val = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
