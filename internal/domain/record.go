package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the shape of a field value. Extraction handles each shape
// explicitly rather than relying on generic truthiness.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	// KindRaw covers JSON shapes the transform never interprets (objects,
	// nested arrays). They pass through byte-for-byte.
	KindRaw
)

// Value is a tagged union over the JSON value shapes a record field can carry.
// Numbers keep their original lexeme (json.Number) so pass-through fields are
// re-serialized exactly as they arrived.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	seq  []Value
	raw  json.RawMessage
}

func NullValue() Value            { return Value{kind: KindNull} }
func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func SequenceValue(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// NumberValue wraps a JSON number lexeme.
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// Float64Value encodes a float64 as a number value. Non-finite inputs produce
// a NaN/Inf lexeme rather than being coerced; the caller sees the numeric
// failure instead of a silently wrong coordinate.
func Float64Value(f float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

func (v Value) Kind() Kind { return v.kind }

// Sequence returns the element slice of a sequence value, or nil.
func (v Value) Sequence() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// ScalarString returns the textual form of a scalar value used for trimming,
// parsing, and sentinel comparison: the string itself, the number lexeme,
// "true"/"false" for booleans, and "" for null.
func (v Value) ScalarString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// IsFalsy reports whether a scalar counts as empty for the skip policy:
// null, the empty string, numeric zero, or false.
func (v Value) IsFalsy() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	case KindNumber:
		f, err := v.num.Float64()
		return err == nil && f == 0
	case KindBool:
		return !v.b
	default:
		return false
	}
}

// MarshalJSON serializes the value according to its kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindRaw:
		return v.raw, nil
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %d", v.kind)
	}
}

// parseValue classifies a raw JSON value into a Value.
func parseValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("parse value: empty input")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, fmt.Errorf("parse string value: %w", err)
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, fmt.Errorf("parse bool value: %w", err)
		}
		return BoolValue(b), nil
	case 'n':
		return NullValue(), nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return Value{}, fmt.Errorf("parse sequence value: %w", err)
		}
		seq := make([]Value, len(elems))
		for i, e := range elems {
			v, err := parseValue(e)
			if err != nil {
				return Value{}, err
			}
			seq[i] = v
		}
		return SequenceValue(seq...), nil
	case '{':
		return Value{kind: KindRaw, raw: append(json.RawMessage(nil), trimmed...)}, nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return Value{}, fmt.Errorf("parse number value: %w", err)
		}
		return NumberValue(n), nil
	}
}

// field pairs a name with its value inside a Record.
type field struct {
	name  string
	value Value
}

// Record is an ordered mapping from field name to value, matching the JSON
// object it was decoded from. Encoding preserves the original key order;
// newly set fields are appended, overwritten fields keep their position.
type Record struct {
	fields []field
	index  map[string]int
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{index: make(map[string]int)}
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Get returns the value stored under name and whether the field is present.
func (r Record) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].value, true
}

// Clone returns a copy with its own backing storage, so writes to the
// clone never reach the receiver. Records share state with their copies
// otherwise; any path that writes to a record it does not own must clone
// first.
func (r Record) Clone() Record {
	out := Record{
		fields: make([]field, len(r.fields)),
		index:  make(map[string]int, len(r.index)),
	}
	copy(out.fields, r.fields)
	for name, i := range r.index {
		out.index[name] = i
	}
	return out
}

// Set overwrites an existing field in place or appends a new one.
func (r *Record) Set(name string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, field{name: name, value: v})
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.name
	}
	return names
}

// MarshalJSON writes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := f.value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order. Duplicate keys
// keep the last value, like encoding/json's map decoding.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode record: expected object, got %v", tok)
	}

	*r = NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode record key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode record key: unexpected token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode record field %q: %w", key, err)
		}
		v, err := parseValue(raw)
		if err != nil {
			return fmt.Errorf("decode record field %q: %w", key, err)
		}
		r.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
