package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldValue is one value of a menu item's type-specific payload. A value is
// either a plain string (Scalar) or a nested JSON document (Structured, an
// object or an array). The distinction is made once, while decoding the
// request body; everything past the boundary treats the value as opaque and
// it must survive a store round-trip unchanged.
type FieldValue struct {
	Scalar     string
	Structured interface{}
}

func (v FieldValue) IsStructured() bool {
	return v.Structured != nil
}

// Document returns the structured value as an object; nil for scalars and
// arrays.
func (v FieldValue) Document() map[string]interface{} {
	doc, _ := v.Structured.(map[string]interface{})
	return doc
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.Structured != nil {
		return json.Marshal(v.Structured)
	}
	return json.Marshal(v.Scalar)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty field value")
	}

	switch data[0] {
	case '{', '[':
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		v.Structured = doc
		v.Scalar = ""
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// Admin forms submit nested documents as JSON text in a string
		// field. Decode those here so assignment never has to sniff.
		if len(s) > 0 && (s[0] == '{' || s[0] == '[') {
			var inner interface{}
			if err := json.Unmarshal([]byte(s), &inner); err == nil {
				v.Structured = inner
				v.Scalar = ""
				return nil
			}
		}
		v.Scalar = s
		v.Structured = nil
		return nil
	default:
		// Numbers, booleans and null keep their literal text.
		v.Scalar = string(data)
		v.Structured = nil
		return nil
	}
}

// FieldBag is the opaque payload of a menu item, stored as a JSON column.
type FieldBag map[string]FieldValue

func (b FieldBag) Value() (driver.Value, error) {
	if b == nil {
		return "{}", nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (b *FieldBag) Scan(value interface{}) error {
	if value == nil {
		*b = FieldBag{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	default:
		return fmt.Errorf("cannot convert %v to FieldBag", value)
	}
}
