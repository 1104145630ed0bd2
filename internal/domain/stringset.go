package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringSet is an order-irrelevant set of free-text tags.
// Persisted as a JSON array in a text column.
type StringSet []string

// Contains reports whether the set holds value (case-insensitive).
func (s StringSet) Contains(value string) bool {
	value = strings.ToLower(value)
	for _, v := range s {
		if strings.ToLower(v) == value {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer for GORM.
func (s StringSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag set: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for GORM.
func (s *StringSet) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tag set source type %T", src)
	}

	if len(data) == 0 {
		*s = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal tag set: %w", err)
	}
	*s = out
	return nil
}
