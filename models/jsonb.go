package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONSlice is an ordered list persisted as a single jsonb column.
type JSONSlice[T any] []T

// Value implements driver.Valuer interface for database storage
func (s JSONSlice[T]) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for database retrieval
func (s *JSONSlice[T]) Scan(value interface{}) error {
	if value == nil {
		*s = JSONSlice[T]{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("jsonb: unsupported scan type %T", value)
}

type PhotoRequirements struct {
	Size           string   `json:"size" bson:"size"`
	Background     string   `json:"background" bson:"background"`
	Specifications []string `json:"specifications" bson:"specifications"`
}

// Value implements driver.Valuer interface for database storage
func (p PhotoRequirements) Value() (driver.Value, error) {
	p.normalize()
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for database retrieval
func (p *PhotoRequirements) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func (p *PhotoRequirements) normalize() {
	if p.Specifications == nil {
		p.Specifications = []string{}
	}
}

type EntryPoints struct {
	Airports []string `json:"airports" bson:"airports"`
	Borders  []string `json:"borders" bson:"borders"`
	Seaports []string `json:"seaports" bson:"seaports"`
}

// Value implements driver.Valuer interface for database storage
func (e EntryPoints) Value() (driver.Value, error) {
	e.normalize()
	return json.Marshal(e)
}

// Scan implements sql.Scanner interface for database retrieval
func (e *EntryPoints) Scan(value interface{}) error {
	return scanJSON(value, e)
}

func (e *EntryPoints) normalize() {
	if e.Airports == nil {
		e.Airports = []string{}
	}
	if e.Borders == nil {
		e.Borders = []string{}
	}
	if e.Seaports == nil {
		e.Seaports = []string{}
	}
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	}
	return fmt.Errorf("jsonb: unsupported scan type %T", value)
}
