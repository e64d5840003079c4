package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/apiclient"
)

func TestFilter_QueryRoundTrip(t *testing.T) {
	categories := []string{"", "Sports"}
	dates := []string{"", "2025-06-01"}
	locations := []string{"", "Dhaka"}
	searches := []string{"", "board games & tea"}
	pages := []int{1, 4}
	sorts := [][2]string{{"date", "desc"}, {"price", "asc"}, {"title", "desc"}}

	for _, c := range categories {
		for _, d := range dates {
			for _, l := range locations {
				for _, s := range searches {
					for _, p := range pages {
						for _, so := range sorts {
							f := Filter{Category: c, Date: d, Location: l, SearchTerm: s, Page: p, SortBy: so[0], SortOrder: so[1]}
							parsed, err := url.ParseQuery(f.Query().Encode())
							require.NoError(t, err)
							assert.Equal(t, f, FromQuery(parsed), f.URL())
						}
					}
				}
			}
		}
	}
}

func TestFilter_Defaults(t *testing.T) {
	f := FromQuery(url.Values{})
	assert.Equal(t, DefaultFilter(), f)
	assert.Equal(t, "/events", f.URL())
	assert.False(t, f.Active())

	f = FromQuery(url.Values{"page": {"-3"}, "sortOrder": {"sideways"}})
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, "desc", f.SortOrder)
}

func TestFilter_NonPageChangeResetsPage(t *testing.T) {
	base := Filter{Category: "Food", Page: 5}.Normalize()

	for _, key := range []string{KeyCategory, KeyDate, KeyLocation, KeySearchTerm, KeySortBy, KeySortOrder} {
		next, err := base.Set(key, "asc")
		require.NoError(t, err)
		assert.Equal(t, 1, next.Page, key)
	}

	next, err := base.Set(KeyPage, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, next.Page)
	assert.Equal(t, "Food", next.Category)

	_, err = base.Set("colour", "red")
	assert.Error(t, err)
	_, err = base.Set(KeyPage, "two")
	assert.Error(t, err)
}

func TestFilter_Apply(t *testing.T) {
	base := Filter{Page: 4}.Normalize()

	next, err := base.Apply(map[string]string{KeySortBy: "price", KeySortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, "/events?sortBy=price&sortOrder=asc", next.URL())

	next, err = base.Apply(map[string]string{KeyCategory: "Arts", KeyPage: "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Page)
}

func TestFilter_ClearAndAPIQuery(t *testing.T) {
	f := Filter{Category: "Gaming", SearchTerm: "chess", Page: 2}.Normalize()
	assert.True(t, f.Active())
	assert.Equal(t, "/events", f.Clear().URL())

	q := f.APIQuery(PageSize)
	assert.Equal(t, "Gaming", q.Get("category"))
	assert.Equal(t, "chess", q.Get("searchTerm"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "9", q.Get("limit"))
	assert.Equal(t, "date", q.Get("sortBy"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
	assert.False(t, q.Has("location"))
}

func TestEvent_ParticipantHelpers(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id":"123","price":0,"maxParticipants":2,
		"organizer":{"_id":"h1","name":"Host"},
		"participants":["u1",{"_id":"u2","name":"B"}],
		"date":"2025-06-01T18:30:00.000Z"
	}`), &ev))

	assert.True(t, ev.IsFree())
	assert.True(t, ev.IsFull())
	assert.True(t, ev.HasParticipant("u1"))
	assert.True(t, ev.HasParticipant("u2"))
	assert.True(t, ev.IsOrganizer("h1"))
	assert.Equal(t, 0, ev.SpotsLeft())
	assert.Equal(t, 18, ev.Date.Hour())

	left := ev.WithoutParticipant("u1")
	assert.Len(t, left.Participants, 1)
	assert.Len(t, ev.Participants, 2, "original untouched")

	joined := left.WithParticipant("u3")
	assert.Len(t, joined.Participants, 2)
	assert.Len(t, joined.WithParticipant("u3").Participants, 2, "no duplicates")
}

func TestEvent_WithoutCapacityIsNeverFull(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"9","participants":["u1","u2"]}`), &ev))

	assert.Zero(t, ev.MaxParticipants)
	assert.False(t, ev.IsFull())
	assert.Equal(t, 0, ev.SpotsLeft())
}

func TestService_BrowseIssuesOneRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "Sports", r.URL.Query().Get("category"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"success":true,"data":[{"_id":"e1","title":"Futsal"}],"meta":{"page":2,"limit":9,"total":30,"totalPage":4}}`))
	}))
	defer server.Close()

	svc := NewService(apiclient.New(server.URL, time.Second))
	page, err := svc.Browse(context.Background(), Filter{Category: "Sports", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, page.Empty)
	assert.Equal(t, "/events?category=Sports&page=2", page.URL)
	assert.Equal(t, "/events?category=Sports", page.PrevURL)
	assert.Equal(t, "/events?category=Sports&page=3", page.NextURL)
	assert.Equal(t, "/events", page.ClearURL)
}

func TestService_BrowseEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[],"meta":{"page":1,"limit":9,"total":0,"totalPage":0}}`))
	}))
	defer server.Close()

	page, err := NewService(apiclient.New(server.URL, time.Second)).Browse(context.Background(), Filter{Location: "Nowhere"})
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.PrevURL)
	assert.Empty(t, page.NextURL)
	assert.Equal(t, "/events", page.ClearURL)
}

func TestService_ListingQueriesAndJoin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/events":
			q := r.URL.Query()
			switch {
			case q.Get("participants") == "u1", q.Get("organizer") == "u1", q.Get("limit") == "3":
				w.Write([]byte(`{"success":true,"data":[{"_id":"e1"}]}`))
			default:
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
		case r.URL.Path == "/events/e1/join":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u1", body["userId"])
			w.Write([]byte(`{"success":true}`))
		case r.Method == http.MethodPost && r.URL.Path == "/events":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []any{}, body["participants"])
			assert.Equal(t, "open", body["status"])
			assert.Equal(t, "Picnic", body["title"])
			w.Write([]byte(`{"success":true,"data":{"_id":"e9","title":"Picnic"}}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	svc := NewService(apiclient.New(server.URL, time.Second))
	ctx := context.Background()

	for _, fn := range []func() ([]Event, error){
		func() ([]Event, error) { return svc.Joined(ctx, "u1") },
		func() ([]Event, error) { return svc.Hosted(ctx, "u1") },
		func() ([]Event, error) { return svc.Latest(ctx, 3) },
	} {
		list, err := fn()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}

	require.NoError(t, svc.Join(ctx, "e1", "u1"))
	require.NoError(t, svc.Leave(ctx, "e1", "u1"))

	created, err := svc.Create(ctx, NewEvent{
		Draft:        Draft{Title: "Picnic"},
		Organizer:    "h1",
		Participants: []string{},
		Status:       StatusOpen,
	})
	require.NoError(t, err)
	assert.Equal(t, "e9", created.ID)
}
