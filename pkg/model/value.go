package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the JSON shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of a JSON object, held in document order.
type Member struct {
	Key   string
	Value Value
}

// Value represents arbitrary JSON as a tagged variant so that recursive
// rendering can switch exhaustively over the shape. Object member order is
// preserved from the source bytes and numbers stay json.Number, so display
// round-trips the original text. The zero Value is JSON null.
type Value struct {
	kind    Kind
	str     string
	num     json.Number
	boolean bool
	members []Member
	elems   []Value
}

// Null returns the JSON null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a JSON boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number returns a JSON number value.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// String returns a JSON string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array returns a JSON array value.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// Object returns a JSON object value with the given members, in order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// Kind returns the JSON shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string payload if the value is a JSON string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric payload if the value is a JSON number.
func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.num, true
}

// AsBool returns the boolean payload if the value is a JSON bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

// Members returns the object members in document order, or nil for
// non-objects. The returned slice is shared; callers must not mutate it.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.members
}

// Elems returns the array elements, or nil for non-arrays. The returned
// slice is shared; callers must not mutate it.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.elems
}

// Len returns the member count for objects, element count for arrays, and 0
// otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.elems)
	}
	return 0
}

// Get returns the member value for key if the value is an object containing
// it.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// WithoutMember returns a copy of an object value with the named member
// removed. Non-objects and objects without the member come back unchanged.
func (v Value) WithoutMember(key string) Value {
	if v.kind != KindObject {
		return v
	}
	found := false
	for _, m := range v.members {
		if m.Key == key {
			found = true
			break
		}
	}
	if !found {
		return v
	}
	members := make([]Member, 0, len(v.members)-1)
	for _, m := range v.members {
		if m.Key != key {
			members = append(members, m)
		}
	}
	return Value{kind: KindObject, members: members}
}

// ParseValue decodes a complete JSON document into a Value. Object member
// order follows the source; duplicate keys within one object resolve
// last-write-wins. Trailing non-whitespace data is an error.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var members []Member
			index := make(map[string]int)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if at, dup := index[key]; dup {
					// Duplicate key: keep position, replace value.
					members[at].Value = val
					continue
				}
				index[key] = len(members)
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindObject, members: members}, nil
		case '[':
			var elems []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, elems: elems}, nil
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return Value{kind: KindString, str: t}, nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case bool:
		return Value{kind: KindBool, boolean: t}, nil
	case nil:
		return Value{kind: KindNull}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// MarshalJSON implements json.Marshaler, writing object members in their
// preserved order. json.MarshalIndent over a Value therefore pretty-prints
// with stable key ordering.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		if v.num == "" {
			buf.WriteString("0")
			return nil
		}
		buf.WriteString(v.num.String())
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of kind %d", v.kind)
	}
	return nil
}

// Indent renders the value as pretty-printed JSON with the given indent
// string, preserving member order. Used by the raw-document view.
func (v Value) Indent(indent string) (string, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}
