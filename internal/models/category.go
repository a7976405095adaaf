package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Subcategories is a list of subcategory names stored as a JSON column.
type Subcategories []string

// Value implements driver.Valuer.
func (s Subcategories) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *Subcategories) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("subcategories: unsupported column type")
	}
}

// Category is static reference data for classifying expenses.
// Categories are seeded from fixtures, not managed by users.
type Category struct {
	Base
	Name          string        `gorm:"uniqueIndex;not null" json:"name"`
	Subcategories Subcategories `gorm:"type:text" json:"subcategories,omitempty"`
}
