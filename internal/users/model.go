package users

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// User is the backend's user document.
type User struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         Role     `json:"role"`
	Bio          string   `json:"bio,omitempty"`
	Location     string   `json:"location,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Interests    []string `json:"interests,omitempty"`
}

// ProfileUpdate is the body of PUT /users/:id.
type ProfileUpdate struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Interests    []string `json:"interests"`
}

// Ref points at a user. The backend returns references either populated
// ({"_id": ..., "name": ...}) or as a bare id string.
type Ref struct {
	ID   string
	User *User
}

func RefTo(id string) Ref {
	return Ref{ID: id}
}

func (r Ref) Name() string {
	if r.User != nil && r.User.Name != "" {
		return r.User.Name
	}
	return ""
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		u := *r.User
		if u.ID == "" {
			u.ID = r.ID
		}
		return json.Marshal(u)
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	case data[0] == '{':
		var u User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		*r = Ref{ID: u.ID, User: &u}
		return nil
	default:
		return fmt.Errorf("user ref: unexpected json %s", string(data))
	}
}

// FilterByRole keeps the users holding role.
func FilterByRole(all []User, role Role) []User {
	out := make([]User, 0, len(all))
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}
