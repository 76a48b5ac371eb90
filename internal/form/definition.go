package form

import (
	"encoding/json"
	"strings"
	"time"
)

// Definition is an admin-authored, reusable form.
type Definition struct {
	ID          string      `json:"_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldSpec `json:"fields"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts both the backend's "_id" and a plain "id".
func (d *Definition) UnmarshalJSON(b []byte) error {
	type plain Definition
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*d = Definition(aux.plain)
	if d.ID == "" {
		d.ID = aux.AltID
	}
	return nil
}

// ParseOptions turns the comma separated option list typed in the form
// builder into a clean option slice.
func ParseOptions(raw string) []string {
	return normalizeOptions(strings.Split(raw, ","))
}

func normalizeOptions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, opt := range in {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		out = append(out, opt)
	}
	return out
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
