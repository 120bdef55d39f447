package jsonmerge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var errNotObject = errors.New("top-level value is not an object")

// member is a single key/value pair of a top-level object. The value is kept
// as raw bytes so numbers and nested structures round-trip untouched.
type member struct {
	key   string
	value json.RawMessage
}

// object is a top-level JSON object that remembers key order.
type object struct {
	members []member
	index   map[string]int
}

func newObject() *object {
	return &object{index: make(map[string]int)}
}

// has reports whether key is present.
func (o *object) has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// set adds key or replaces its value in place. A duplicate key keeps the
// position of its first occurrence and the value of its last, matching
// encoding/json.
func (o *object) set(key string, value json.RawMessage) {
	if i, ok := o.index[key]; ok {
		o.members[i].value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, member{key: key, value: value})
}

func (o *object) clone() *object {
	c := &object{
		members: make([]member, len(o.members)),
		index:   make(map[string]int, len(o.index)),
	}
	copy(c.members, o.members)
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}

// parseObject decodes data as a single top-level JSON object.
func parseObject(data []byte) (*object, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	if !json.Valid(data) {
		return nil, errors.New("malformed JSON")
	}
	// The decoder replaces invalid UTF-8 in keys with U+FFFD, which would
	// rename the key.
	if !utf8.Valid(data) {
		return nil, errors.New("document is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	obj := newObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v where a key was expected", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		obj.set(key, raw)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after top-level object")
	}

	return obj, nil
}

// marshal renders the object with two-space indentation and a trailing
// newline, the layout editors write for their own settings files.
func (o *object) marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeKey(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// encodeKey quotes a key without HTML escaping so keys such as "[json]" or
// "<tag>" are written as authored.
func encodeKey(key string) ([]byte, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return nil, fmt.Errorf("encoding key %q: %w", key, err)
	}
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}
