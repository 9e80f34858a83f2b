package model

import (
	"database/sql/driver"
	"fmt"
)

// RawJSON holds a free-form JSON document stored in a jsonb column.
// An empty value or the literal null maps to SQL NULL.
type RawJSON []byte

func (j RawJSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Value implements driver.Valuer. jsonb wants text, lib/pq sends []byte as bytea.
func (j RawJSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner
func (j *RawJSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append(RawJSON(nil), v...)
	case string:
		*j = RawJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into RawJSON", src)
	}
	return nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if j.IsNull() {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append(RawJSON(nil), data...)
	return nil
}
