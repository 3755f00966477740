package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ref is a reference to another record. The API returns references either
// as a bare id string or as a populated object; both decode into Ref.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts "id", {"_id": "...", "name": "..."} or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var obj struct {
		ID        string `json:"_id"`
		Name      string `json:"name"`
		Title     string `json:"title"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	r.Name = obj.Name
	switch {
	case r.Name != "":
	case obj.Title != "":
		r.Name = obj.Title
	default:
		r.Name = strings.TrimSpace(obj.FirstName + " " + obj.LastName)
	}
	return nil
}

// MarshalJSON writes the reference as its bare id, which is what the API
// expects on create and update.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// String returns the display name, or the id when the reference was not
// populated.
func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
