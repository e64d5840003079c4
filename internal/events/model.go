package events

import (
	"time"

	"github.com/addahub/addahub-web/internal/users"
)

const (
	StatusOpen = "open"
	StatusFull = "full"
)

// Event is the backend's event document.
type Event struct {
	ID               string      `json:"_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Date             time.Time   `json:"date,omitzero"`
	Time             string      `json:"time,omitempty"`
	Location         string      `json:"location"`
	Category         string      `json:"category"`
	Image            string      `json:"image,omitempty"`
	AdditionalImages []string    `json:"additionalImages,omitempty"`
	Organizer        users.Ref   `json:"organizer"`
	Price            float64     `json:"price"`
	MaxParticipants  int         `json:"maxParticipants"`
	Participants     []users.Ref `json:"participants"`
	Status           string      `json:"status,omitempty"`
}

func (e Event) IsFree() bool {
	return e.Price <= 0
}

// IsFull compares the local participant list with capacity. An event
// without a capacity is never full here. The backend enforces the real limit.
func (e Event) IsFull() bool {
	if e.MaxParticipants <= 0 {
		return false
	}
	return len(e.Participants) >= e.MaxParticipants
}

func (e Event) SpotsLeft() int {
	if left := e.MaxParticipants - len(e.Participants); left > 0 {
		return left
	}
	return 0
}

func (e Event) HasParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (e Event) IsOrganizer(userID string) bool {
	return userID != "" && e.Organizer.ID == userID
}

// WithParticipant returns a copy with userID appended, unless already present.
func (e Event) WithParticipant(userID string) Event {
	if e.HasParticipant(userID) {
		return e
	}
	out := e
	out.Participants = append(append([]users.Ref(nil), e.Participants...), users.RefTo(userID))
	return out
}

// WithoutParticipant returns a copy with every reference to userID removed.
func (e Event) WithoutParticipant(userID string) Event {
	out := e
	out.Participants = make([]users.Ref, 0, len(e.Participants))
	for _, p := range e.Participants {
		if p.ID != userID {
			out.Participants = append(out.Participants, p)
		}
	}
	return out
}

// Draft carries the editable fields of an event.
type Draft struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Location         string    `json:"location"`
	Image            string    `json:"image,omitempty"`
	AdditionalImages []string  `json:"additionalImages,omitempty"`
	Price            float64   `json:"price"`
	MaxParticipants  int       `json:"maxParticipants"`
}

// NewEvent is the create payload: a draft plus the fields only set on creation.
type NewEvent struct {
	Draft
	Organizer    string   `json:"organizer"`
	Participants []string `json:"participants"`
	Status       string   `json:"status"`
}
