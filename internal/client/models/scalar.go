package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ID is a record identifier. The admin API returns numeric ids for most
// tables and string ids for a few; both decode into ID.
type ID string

// IsZero reports whether the id is absent (null, "" or 0 on the wire).
func (id ID) IsZero() bool { return id == "" || id == "0" }

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as JSON numbers so they round-trip to the
// backend in the form it sent them.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Count is a non-negative total that the analytics endpoints send either as
// a number or as a numeric string (SQL SUM over MySQL). Anything unparsable
// decodes as 0.
type Count int64

func (c *Count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(f)
	return nil
}

// Flag is a boolean that MySQL-backed endpoints send as true/false, 0/1 or
// "0"/"1".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(b)), `"`) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
