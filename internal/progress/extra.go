package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Member is one JSON object member the document types do not model.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Extra holds unmodelled members in file order so a save writes them back
// unchanged. Values are never mutated and may be shared between copies.
type Extra []Member

// decodeObject unmarshals data into v and returns the members whose keys
// are not json fields of T.
func decodeObject[T any](data []byte, v *T) (Extra, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	known := fieldNames(reflect.TypeFor[T]())

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var extra Extra
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if _, ok := known[key]; ok {
			continue
		}
		extra = append(extra, Member{Key: key, Value: raw})
	}
	return extra, nil
}

// encodeObject marshals v and appends extra after its own fields. Keys v
// already wrote win over extra members with the same name.
func encodeObject(v any, extra Extra) ([]byte, error) {
	out, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return out, nil
	}
	known := fieldNames(reflect.TypeOf(v))

	var buf bytes.Buffer
	buf.Write(out[:len(out)-1])
	wrote := len(out) > 2
	for _, m := range extra {
		if _, ok := known[m.Key]; ok {
			continue
		}
		key, err := marshalNoEscape(m.Key)
		if err != nil {
			return nil, err
		}
		if wrote {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
		wrote = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func fieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
	return names
}
