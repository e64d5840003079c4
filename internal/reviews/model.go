package reviews

import (
	"net/url"
	"time"

	"github.com/addahub/addahub-web/internal/users"
)

// Kind is what a review is about.
type Kind string

const (
	KindEvent Kind = "event"
	KindHost  Kind = "host"
)

// Target is the event or host a review list belongs to.
type Target struct {
	Kind Kind
	ID   string
}

func EventTarget(id string) Target { return Target{Kind: KindEvent, ID: id} }
func HostTarget(id string) Target  { return Target{Kind: KindHost, ID: id} }

func (t Target) path() string {
	return "/reviews/" + string(t.Kind) + "/" + url.PathEscape(t.ID)
}

type Review struct {
	ID        string    `json:"_id"`
	Reviewer  users.Ref `json:"reviewer"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Submission is the POST /reviews payload. Exactly one of Event and Host is set.
type Submission struct {
	Event    string `json:"event,omitempty"`
	Host     string `json:"host,omitempty"`
	Reviewer string `json:"reviewer"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func newSubmission(t Target, reviewer string, rating int, comment string) Submission {
	s := Submission{Reviewer: reviewer, Rating: rating, Comment: comment}
	if t.Kind == KindHost {
		s.Host = t.ID
	} else {
		s.Event = t.ID
	}
	return s
}
