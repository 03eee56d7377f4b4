package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attachment references a file held by the attachment store
type Attachment struct {
	StoredName   string `json:"stored_name"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
}

// Attachments is stored as a JSON array. Reads always yield a non-nil slice:
// NULL, empty and malformed column values all decode to an empty list.
type Attachments []Attachment

func (Attachments) GormDataType() string {
	return "text"
}

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		a = Attachments{}
	}
	data, err := json.Marshal([]Attachment(a))
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}
	return string(data), nil
}

func (a *Attachments) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		*a = ParseAttachments(v)
	case string:
		*a = ParseAttachments([]byte(v))
	default:
		*a = Attachments{}
	}
	return nil
}

func (a Attachments) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Attachment(a))
}

// ParseAttachments decodes a stored attachment list. A value that was encoded
// twice (a JSON string holding the array) is unwrapped once.
func ParseAttachments(raw []byte) Attachments {
	var list []Attachment
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return Attachments{}
		}
		return Attachments(list)
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &list); err == nil && list != nil {
			return Attachments(list)
		}
	}
	return Attachments{}
}
