package camelrow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Attributes is an ordered mapping of attribute names to values.
// Keys keep the order in which they were first set. The zero value
// is an empty mapping ready to use.
type Attributes struct {
	keys   []string
	values map[string]interface{}
}

// NewAttributes returns an empty mapping.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Attrs builds a mapping from alternating keys and values, in order.
// A trailing key without a value is set to nil. Keys must be strings.
//
//  attrs := camelrow.Attrs("firstName", "Ann", "lastName", "Lee")
func Attrs(keyvals ...interface{}) *Attributes {
	attrs := &Attributes{}
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			panic(fmt.Sprintf("camelrow.Attrs: key %v is not a string", keyvals[i]))
		}
		var value interface{}
		if i+1 < len(keyvals) {
			value = keyvals[i+1]
		}
		attrs.Set(key, value)
	}
	return attrs
}

// FromMap builds a mapping from m. Because Go maps are unordered,
// the keys are added in sorted order.
func FromMap(m map[string]interface{}) *Attributes {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := &Attributes{}
	for _, k := range keys {
		attrs.Set(k, m[k])
	}
	return attrs
}

// Len returns the number of entries.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the keys in order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Get returns the value for key and whether it was present.
func (a *Attributes) Get(key string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set sets the value for key. An existing key keeps its position.
func (a *Attributes) Set(key string, value interface{}) {
	if a.values == nil {
		a.values = make(map[string]interface{})
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Delete removes key.
func (a *Attributes) Delete(key string) {
	if a == nil {
		return
	}
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i:i], a.keys[i+1:]...)
			break
		}
	}
}

// Each calls fn for every entry in order.
func (a *Attributes) Each(fn func(key string, value interface{})) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}

// Clone returns a shallow copy.
func (a *Attributes) Clone() *Attributes {
	return a.MapKeys(func(key string) string { return key })
}

// MapKeys returns a new mapping with every key passed through fn.
// Values are unchanged. If fn maps two keys to the same result, the
// later value wins and the earlier position is kept.
func (a *Attributes) MapKeys(fn func(key string) string) *Attributes {
	out := &Attributes{}
	a.Each(func(k string, v interface{}) {
		out.Set(fn(k), v)
	})
	return out
}

// Map returns the entries as a Go map.
func (a *Attributes) Map() map[string]interface{} {
	m := make(map[string]interface{}, a.Len())
	a.Each(func(k string, v interface{}) {
		m[k] = v
	})
	return m
}

// String implements fmt.Stringer.
func (a *Attributes) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	a.Each(func(k string, v interface{}) {
		if buf.Len() > 1 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s:%v", k, v)
	})
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON encodes the mapping as a JSON object, keeping key order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	a.Each(func(k string, v interface{}) {
		if err != nil {
			return
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return
		}
		if vb, err = json.Marshal(v); err != nil {
			return
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order. Nested
// values are decoded the way encoding/json decodes into interface{}.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, found %v", tok)
	}
	*a = Attributes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, found %v", tok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		a.Set(key, value)
	}
	_, err = dec.Token()
	return err
}
