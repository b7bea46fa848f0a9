package db_models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDocument is an opaque jsonb value stored and returned byte for byte.
// An empty document is written as an empty JSON array.
type JSONDocument json.RawMessage

func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "[]", nil
	}
	return string(d), nil
}

func (d *JSONDocument) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append(JSONDocument(nil), v...)
	case string:
		*d = JSONDocument(v)
	default:
		return fmt.Errorf("json document: unsupported scan type %T", src)
	}
	return nil
}

func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("[]"), nil
	}
	return d, nil
}

func (d *JSONDocument) UnmarshalJSON(b []byte) error {
	if d == nil {
		return fmt.Errorf("json document: UnmarshalJSON on nil pointer")
	}
	*d = append((*d)[0:0], b...)
	return nil
}

func (JSONDocument) GormDataType() string {
	return "jsonb"
}
