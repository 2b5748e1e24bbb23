package axtree

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue(t *testing.T, raw string) PropertyValue {
	t.Helper()
	var pv PropertyValue
	require.NoError(t, json.Unmarshal([]byte(raw), &pv))
	return pv
}

func TestPropertyValue_Variants(t *testing.T) {
	tests := []struct {
		raw  string
		want PropertyContent
	}{
		{`{"type": "booleanOrUndefined", "value": true}`, Boolean{Type: "booleanOrUndefined", Value: true}},
		{`{"type": "boolean", "value": true}`, SimpleBoolean(true)},
		{`{"type": "string", "value": "https://example.com"}`, String("https://example.com")},
		{`{"type": "integer", "value": -3}`, Integer(-3)},
		{`{"type": "token", "value": "polite"}`, Token("polite")},
		{`{"type": "nodeList", "value": ["4", "5"]}`, NodeList{"4", "5"}},
		{`{"type": "tokenList", "value": ["a", "b"]}`, TokenList{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			pv := decodeValue(t, tt.raw)
			assert.Equal(t, tt.want, pv.Content)
		})
	}
}

func TestPropertyValue_MissingValueDefaults(t *testing.T) {
	tests := []struct {
		typ  string
		want PropertyContent
	}{
		{"booleanOrUndefined", Boolean{Type: "booleanOrUndefined"}},
		{"boolean", SimpleBoolean(false)},
		{"string", String("")},
		{"integer", Integer(0)},
		{"token", Token("")},
		{"nodeList", NodeList{}},
		{"tokenList", TokenList{}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			pv := decodeValue(t, `{"type": "`+tt.typ+`"}`)
			assert.Equal(t, tt.typ, pv.Type)
			assert.Equal(t, tt.want, pv.Content)
		})
	}
}

func TestPropertyValue_LiberalTokenList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want TokenList
	}{
		{
			name: "embedded nodes",
			raw: `{"type": "tokenList", "value": [
				{"nodeId": "7", "role": {"type": "role", "value": "link"}},
				{"nodeId": "8", "role": {"type": "internalRole", "value": 158}}
			]}`,
			want: TokenList{"7", "8"},
		},
		{
			name: "mixed array",
			raw:  `{"type": "tokenList", "value": ["a", {"value": "b"}, {"other": 1}, 3, true]}`,
			want: TokenList{"a", "b", `{"other":1}`, "3", "true"},
		},
		{
			name: "object value that is not a string",
			raw:  `{"type": "tokenList", "value": [{"value": 5}]}`,
			want: TokenList{`{"value":5}`},
		},
		{
			name: "scalar",
			raw:  `{"type": "tokenList", "value": {"k": [1, 2]}}`,
			want: TokenList{`{"k":[1,2]}`},
		},
		{
			name: "number",
			raw:  `{"type": "tokenList", "value": 12}`,
			want: TokenList{"12"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv := decodeValue(t, tt.raw)
			if diff := cmp.Diff(tt.want, pv.Content); diff != "" {
				t.Errorf("token list mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPropertyValue_RecognizedRoundTrip(t *testing.T) {
	inputs := []string{
		`{"type": "booleanOrUndefined", "value": true}`,
		`{"type": "booleanOrUndefined"}`,
		`{"type": "boolean", "value": false}`,
		`{"type": "string", "value": "hello \"world\""}`,
		`{"type": "integer", "value": 9007199254740993}`,
		`{"type": "token", "value": "assertive"}`,
		`{"type": "nodeList", "value": []}`,
		`{"type": "nodeList", "value": ["1", "2"]}`,
		`{"type": "tokenList", "value": [{"value": "x"}, 2]}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := decodeValue(t, in)

			encoded, err := json.Marshal(first)
			require.NoError(t, err)

			second := decodeValue(t, string(encoded))
			assert.Equal(t, first.Type, second.Type)
			assert.Equal(t, first.Content, second.Content)
		})
	}
}

func TestPropertyValue_UnknownPreserved(t *testing.T) {
	in := `{"type": "futurething", "value": {"nested": [1, 2, {"deep": true}]}, "extra": "kept", "count": 3}`
	pv := decodeValue(t, in)

	assert.Equal(t, "futurething", pv.Type)
	rest, ok := pv.Content.(Unknown)
	require.True(t, ok)
	assert.Len(t, rest, 3)

	encoded, err := json.Marshal(pv)
	require.NoError(t, err)

	var want, got map[string]any
	require.NoError(t, json.Unmarshal([]byte(in), &want))
	require.NoError(t, json.Unmarshal(encoded, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unknown value not preserved (-want +got):\n%s", diff)
	}

	again := decodeValue(t, string(encoded))
	assert.Equal(t, "futurething", again.Type)
	assert.IsType(t, Unknown{}, again.Content)
}

func TestPropertyValue_UnknownWithoutFields(t *testing.T) {
	pv := decodeValue(t, `{"type": "idref"}`)
	encoded, err := json.Marshal(pv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "idref"}`, string(encoded))
}

func TestTree_MarshalRoundTrip(t *testing.T) {
	tree, err := Decode([]byte(headingTree))
	require.NoError(t, err)

	encoded, err := json.Marshal(tree)
	require.NoError(t, err)

	again, err := Decode(encoded)
	require.NoError(t, err)
	if diff := cmp.Diff(tree.Nodes, again.Nodes); diff != "" {
		t.Errorf("tree changed after round trip (-want +got):\n%s", diff)
	}
}

func TestPropertyValue_NullListElements(t *testing.T) {
	_, err := Decode([]byte(`{"nodes": [{"nodeId": "1", "role": {"type": "role", "value": "x"},
		"properties": [{"name": "controls", "value": {"type": "nodeList", "value": ["a", null]}}]}]}`))
	assert.ErrorIs(t, err, ErrPayloadShape)

	_, err = Decode([]byte(`{"nodes": [{"nodeId": "1", "role": {"type": "role", "value": "x"},
		"properties": [{"name": "controls", "value": {"type": "nodeList", "value": ["a", 3]}}]}]}`))
	assert.ErrorIs(t, err, ErrPayloadShape)

	pv := decodeValue(t, `{"type": "tokenList", "value": ["a", null]}`)
	if diff := cmp.Diff(TokenList{"a", "null"}, pv.Content); diff != "" {
		t.Errorf("token list mismatch (-want +got):\n%s", diff)
	}
}
