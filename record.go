package jlstream

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Record is the minimal record shape carried by a JSON-Lines stream: an
// integer id, a string name, and any additional fields preserved verbatim in
// Extra. Immutable once produced by the decoder.
type Record struct {
	ID   int
	Name string

	// Extra holds every field other than id/name, raw and untouched.
	// Nil when the source object carried only the required fields.
	Extra map[string]json.RawMessage
}

// DecodeRecord is the DecodeFunc for Record. Shape violations surface as
// *ShapeError.
func DecodeRecord(b []byte) (Record, error) {
	var r Record
	err := json.Unmarshal(b, &r)
	return r, err
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return &ShapeError{Field: "", Reason: "not a JSON object"}
		}
		return err
	}

	idRaw, ok := raw["id"]
	if !ok {
		return &ShapeError{Field: "id", Reason: "missing"}
	}
	var id int
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return &ShapeError{Field: "id", Reason: "must be an integer"}
	}

	nameRaw, ok := raw["name"]
	if !ok {
		return &ShapeError{Field: "name", Reason: "missing"}
	}
	var name string
	if err := json.Unmarshal(nameRaw, &name); err != nil {
		return &ShapeError{Field: "name", Reason: "must be a string"}
	}

	r.ID = id
	r.Name = name
	r.Extra = nil
	if len(raw) > 2 {
		r.Extra = make(map[string]json.RawMessage, len(raw)-2)
		for k, v := range raw {
			if k == "id" || k == "name" {
				continue
			}
			r.Extra[k] = v
		}
	}
	return nil
}

// MarshalJSON emits id and name first, then Extra fields in sorted key order
// so that equal records always serialize to equal bytes.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.WriteString(strconv.Itoa(r.ID))
	buf.WriteString(`,"name":`)
	name, err := json.Marshal(r.Name)
	if err != nil {
		return nil, err
	}
	buf.Write(name)

	if len(r.Extra) > 0 {
		keys := make([]string, 0, len(r.Extra))
		for k := range r.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.WriteByte(',')
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(r.Extra[k])
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
