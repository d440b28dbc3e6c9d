package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User is the authenticated user's record as returned by the login endpoint.
// Only the shape is checked: any JSON object is a user. id and phone are
// lifted out when they have the expected types; everything else, including
// an id or phone of another type, stays verbatim in Extra so the record
// round-trips through durable storage unchanged.
type User struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON accepts any JSON object
func (u *User) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("user record must be a JSON object: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("user record must be a JSON object")
	}

	var out User
	if liftField(fields, "id", &out.ID) {
		delete(fields, "id")
	}
	if liftField(fields, "phone", &out.Phone) {
		delete(fields, "phone")
	}
	if len(fields) > 0 {
		out.Extra = fields
	}

	*u = out
	return nil
}

// liftField decodes fields[key] into dst, reporting whether it did.
// A null or mistyped value is left for Extra.
func liftField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (u User) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(u.Extra)+2)
	for k, v := range u.Extra {
		fields[k] = v
	}
	if _, ok := u.Extra["id"]; !ok {
		fields["id"] = u.ID
	}
	if _, ok := u.Extra["phone"]; !ok {
		fields["phone"] = u.Phone
	}
	return json.Marshal(fields)
}

// PhotoStatus is the lifecycle state of a photo on the server
type PhotoStatus int

const (
	PhotoNormal PhotoStatus = 0
	PhotoTrash  PhotoStatus = 1
	PhotoCover  PhotoStatus = 2
)

func (s PhotoStatus) String() string {
	switch s {
	case PhotoNormal:
		return "normal"
	case PhotoTrash:
		return "trash"
	case PhotoCover:
		return "cover"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Photo represents an uploaded photo
type Photo struct {
	ID      int64       `json:"id"`
	Address string      `json:"address"` // uploads/<user_id>/<file>, relative to the API host
	Text    *string     `json:"text"`
	Time    string      `json:"time"`
	AlbumID *int64      `json:"album_id"`
	UserID  int64       `json:"user_id"`
	Status  PhotoStatus `json:"status"`
}

// Album represents a named collection of photos
type Album struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Content    string  `json:"content"`
	CoverURL   *string `json:"cover_url"`
	UserID     int64   `json:"user_id"`
	CreatedAt  string  `json:"created_at"`
	PhotoCount int     `json:"photo_count"`
}

// SearchView selects which photos a search covers
type SearchView string

const (
	ViewAll    SearchView = "all"
	ViewRecent SearchView = "recent"
	ViewTrash  SearchView = "trash"
)
