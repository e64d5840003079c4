package events

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/addahub/addahub-web/internal/apiclient"
)

// Page is one browse result, with the navigation the view needs.
type Page struct {
	Events   []Event        `json:"events"`
	Meta     apiclient.Meta `json:"meta"`
	Filter   Filter         `json:"filter"`
	URL      string         `json:"url"`
	PrevURL  string         `json:"prevUrl,omitempty"`
	NextURL  string         `json:"nextUrl,omitempty"`
	ClearURL string         `json:"clearUrl"`
	Empty    bool           `json:"empty"`
}

// Service wraps the backend's event endpoints.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Browse issues exactly one request for f. Matching, sorting and paging are
// the backend's; nothing is filtered locally.
func (s *Service) Browse(ctx context.Context, f Filter) (*Page, error) {
	f = f.Normalize()

	var list []Event
	meta, err := s.client.Get(ctx, "/events", f.APIQuery(PageSize), &list)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Events:   list,
		Filter:   f,
		URL:      f.URL(),
		ClearURL: f.Clear().URL(),
		Empty:    len(list) == 0,
	}
	if page.Events == nil {
		page.Events = []Event{}
	}
	if meta != nil {
		page.Meta = *meta
	} else {
		page.Meta = apiclient.Meta{Page: f.Page, Limit: PageSize, Total: len(list), TotalPage: 1}
	}
	if page.Meta.Page > 1 {
		page.PrevURL = f.WithPage(page.Meta.Page - 1).URL()
	}
	if page.Meta.Page < page.Meta.TotalPage {
		page.NextURL = f.WithPage(page.Meta.Page + 1).URL()
	}
	return page, nil
}

// Latest returns the first n events in the backend's default order.
func (s *Service) Latest(ctx context.Context, n int) ([]Event, error) {
	return s.list(ctx, url.Values{"limit": {strconv.Itoa(n)}})
}

// Joined lists the events userID participates in.
func (s *Service) Joined(ctx context.Context, userID string) ([]Event, error) {
	return s.list(ctx, url.Values{"participants": {userID}})
}

// Hosted lists the events organized by userID.
func (s *Service) Hosted(ctx context.Context, userID string) ([]Event, error) {
	return s.list(ctx, url.Values{"organizer": {userID}})
}

// All lists every event the backend returns without filters.
func (s *Service) All(ctx context.Context) ([]Event, error) {
	return s.list(ctx, nil)
}

func (s *Service) list(ctx context.Context, q url.Values) ([]Event, error) {
	var list []Event
	if _, err := s.client.Get(ctx, "/events", q, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Event{}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id required")
	}
	var ev Event
	if _, err := s.client.Get(ctx, eventPath(id), nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Service) Create(ctx context.Context, ne NewEvent) (*Event, error) {
	var ev Event
	if err := s.client.Post(ctx, "/events", ne, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Service) Update(ctx context.Context, id string, d Draft) (*Event, error) {
	var ev Event
	if err := s.client.Put(ctx, eventPath(id), d, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, eventPath(id), nil, nil)
}

type participantBody struct {
	UserID string `json:"userId"`
}

// Join adds userID to a free event.
func (s *Service) Join(ctx context.Context, eventID, userID string) error {
	return s.client.Post(ctx, eventPath(eventID)+"/join", participantBody{UserID: userID}, nil)
}

// Leave removes userID; the backend reads the user from the DELETE body.
func (s *Service) Leave(ctx context.Context, eventID, userID string) error {
	return s.client.Delete(ctx, eventPath(eventID)+"/join", participantBody{UserID: userID}, nil)
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}
