package participation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/session"
	"github.com/addahub/addahub-web/internal/users"
)

type fakeGateway struct {
	mu         sync.Mutex
	event      events.Event
	joinErr    error
	leaveErr   error
	refetchErr error
	checkout   *CheckoutSession

	joinCalls     int
	leaveCalls    int
	checkoutCalls int

	entered chan struct{}
	release chan struct{}
}

func (f *fakeGateway) Event(context.Context, string) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refetchErr != nil {
		return nil, f.refetchErr
	}
	ev := f.event
	return &ev, nil
}

func (f *fakeGateway) Join(_ context.Context, _ string, userID string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls++
	if f.joinErr != nil {
		return f.joinErr
	}
	f.event = f.event.WithParticipant(userID)
	return nil
}

func (f *fakeGateway) Leave(_ context.Context, _ string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaveCalls++
	if f.leaveErr != nil {
		return f.leaveErr
	}
	f.event = f.event.WithoutParticipant(userID)
	return nil
}

func (f *fakeGateway) CreateCheckout(context.Context, string, string) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkoutCalls++
	if f.checkout == nil {
		return nil, &apiclient.APIError{StatusCode: 500, Message: "stripe down"}
	}
	return f.checkout, nil
}

var userA = session.Identity{UserID: "A", Role: users.RoleUser}

func freeEvent(capacity int, participants ...string) events.Event {
	ev := events.Event{ID: "123", MaxParticipants: capacity, Organizer: users.RefTo("host")}
	for _, p := range participants {
		ev.Participants = append(ev.Participants, users.RefTo(p))
	}
	return ev
}

func participantIDs(ev events.Event) []string {
	ids := []string{}
	for _, p := range ev.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestJoin_FreeEventScenario(t *testing.T) {
	ev := freeEvent(2)
	gw := &fakeGateway{event: ev}
	wf := NewWorkflow(gw, ev, userA)

	assert.Equal(t, FreeJoin, wf.Mode())
	assert.Equal(t, "Join Event", wf.View().Label)

	out, err := wf.Join(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Refreshed)
	assert.Equal(t, []string{"A"}, participantIDs(out.Event))
	assert.Equal(t, Joined, wf.State())
	assert.Equal(t, "Leave Event", wf.View().Label)
	assert.Equal(t, 1, gw.joinCalls)
	assert.Zero(t, gw.checkoutCalls)
}

func TestJoin_AppliesLocallyWhenRefetchFails(t *testing.T) {
	ev := freeEvent(5, "x", "y")
	gw := &fakeGateway{event: ev, refetchErr: errors.New("timeout")}
	wf := NewWorkflow(gw, ev, userA)

	out, err := wf.Join(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Refreshed)
	assert.Len(t, out.Event.Participants, len(ev.Participants)+1)
	assert.True(t, out.Event.HasParticipant("A"))
	assert.Equal(t, Joined, wf.State())
}

func TestJoin_FailureChangesNothing(t *testing.T) {
	ev := freeEvent(5, "x")
	gw := &fakeGateway{event: ev, joinErr: &apiclient.APIError{StatusCode: 400, Message: "Already joined"}}
	wf := NewWorkflow(gw, ev, userA)

	_, err := wf.Join(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Already joined", apiclient.Message(err, "fallback"))
	assert.Equal(t, NotJoined, wf.State())
	assert.Equal(t, []string{"x"}, participantIDs(wf.Event()))
	assert.True(t, wf.View().CanJoin)
}

func TestJoin_PaidEventGoesToCheckout(t *testing.T) {
	ev := freeEvent(5)
	ev.Price = 500
	gw := &fakeGateway{event: ev, checkout: &CheckoutSession{URL: "https://checkout.example/s/abc"}}
	wf := NewWorkflow(gw, ev, userA)

	out, err := wf.Join(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PaidJoin, wf.Mode())
	assert.Equal(t, "https://checkout.example/s/abc", out.Redirect)
	assert.Zero(t, gw.joinCalls, "paid joins never call the direct join endpoint")
	assert.Equal(t, 1, gw.checkoutCalls)
	assert.Empty(t, wf.Event().Participants)
	assert.Equal(t, RedirectingToPayment, wf.State())
}

func TestJoin_PaidCheckoutFailure(t *testing.T) {
	ev := freeEvent(5)
	ev.Price = 10
	gw := &fakeGateway{event: ev}
	wf := NewWorkflow(gw, ev, userA)

	_, err := wf.Join(context.Background())
	require.Error(t, err)
	assert.Equal(t, "stripe down", apiclient.Message(err, ""))
	assert.Equal(t, NotJoined, wf.State())
	assert.Zero(t, gw.joinCalls)
}

func TestJoin_DisabledWhenFull(t *testing.T) {
	for _, price := range []float64{0, 25} {
		t.Run(fmt.Sprintf("price %v", price), func(t *testing.T) {
			ev := freeEvent(2, "x", "y")
			ev.Price = price
			gw := &fakeGateway{event: ev}

			outsider := NewWorkflow(gw, ev, userA)
			assert.False(t, outsider.CanJoin())
			assert.Equal(t, "Event Full", outsider.View().Label)

			_, err := outsider.Join(context.Background())
			assert.ErrorIs(t, err, ErrEventFull)
			assert.Zero(t, gw.joinCalls+gw.checkoutCalls)

			insider := NewWorkflow(gw, ev, session.Identity{UserID: "x"})
			assert.True(t, insider.CanJoin())
			assert.Equal(t, "Leave Event", insider.View().Label)
		})
	}
}

func TestJoin_UnknownCapacityStaysOpen(t *testing.T) {
	ev := freeEvent(0, "x", "y")
	gw := &fakeGateway{event: ev}
	wf := NewWorkflow(gw, ev, userA)

	assert.True(t, wf.CanJoin())
	assert.Equal(t, "Join Event", wf.View().Label)
}

func TestJoin_RequiresSession(t *testing.T) {
	ev := freeEvent(5)
	gw := &fakeGateway{event: ev}
	wf := NewWorkflow(gw, ev, session.Identity{})

	assert.True(t, wf.View().LoginNeeded)
	_, err := wf.Join(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, gw.joinCalls)
}

func TestJoin_SecondActionWhileInFlightIsRejected(t *testing.T) {
	ev := freeEvent(5)
	gw := &fakeGateway{event: ev, entered: make(chan struct{}), release: make(chan struct{})}
	wf := NewWorkflow(gw, ev, userA)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Join(context.Background())
		done <- err
	}()
	<-gw.entered

	assert.Equal(t, Joining, wf.State())
	assert.Equal(t, "Joining...", wf.View().Label)
	assert.False(t, wf.View().CanJoin)

	_, err := wf.Join(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	_, err = wf.Leave(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(gw.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.joinCalls)
	assert.Equal(t, Joined, wf.State())
}

func TestLeave(t *testing.T) {
	ev := freeEvent(5, "A", "x")
	gw := &fakeGateway{event: ev}
	wf := NewWorkflow(gw, ev, userA)
	require.Equal(t, Joined, wf.State())

	out, err := wf.Leave(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, participantIDs(out.Event))
	assert.Equal(t, NotJoined, wf.State())

	_, err = wf.Leave(context.Background())
	assert.ErrorIs(t, err, ErrNotJoined)
}

func TestLeave_FailureStaysJoined(t *testing.T) {
	ev := freeEvent(5, "A")
	gw := &fakeGateway{event: ev, leaveErr: errors.New("boom")}
	wf := NewWorkflow(gw, ev, userA)

	_, err := wf.Leave(context.Background())
	require.Error(t, err)
	assert.Equal(t, Joined, wf.State())
	assert.True(t, wf.Event().HasParticipant("A"))
}

func TestView_CanEdit(t *testing.T) {
	ev := freeEvent(5)
	assert.True(t, NewWorkflow(nil, ev, session.Identity{UserID: "host"}).View().CanEdit)
	assert.True(t, NewWorkflow(nil, ev, session.Identity{UserID: "root", Role: users.RoleAdmin}).View().CanEdit)
	assert.False(t, NewWorkflow(nil, ev, userA).View().CanEdit)

	raw, err := json.Marshal(NewWorkflow(nil, ev, userA).View())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"mode":"free"`)
}

type recordingVerifier struct {
	calls atomic.Int32
	args  []string
	err   error
}

func (r *recordingVerifier) VerifyPayment(_ context.Context, sessionID, eventID, userID string) error {
	r.calls.Add(1)
	r.args = []string{sessionID, eventID, userID}
	return r.err
}

func TestVerification_Scenario(t *testing.T) {
	v := &recordingVerifier{}
	ret := ParseReturn(url.Values{"session_id": {"sess_1"}, "eventId": {"123"}})
	ver := NewVerification(v, ret, userA)

	assert.Equal(t, PaymentVerifying, ver.State())
	res := ver.Run(context.Background())
	again := ver.Run(context.Background())

	assert.Equal(t, int32(1), v.calls.Load())
	assert.Equal(t, []string{"sess_1", "123", "A"}, v.args)
	assert.True(t, res.Verified)
	assert.Equal(t, Joined, res.State)
	assert.Equal(t, Joined, ver.State())
	assert.Equal(t, res, again)
	assert.Equal(t, "/events/123", res.Links[1].Path)
}

func TestVerification_Failures(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		viewer  session.Identity
		err     error
		want    string
		wantHit int32
	}{
		{"missing session", url.Values{"eventId": {"123"}}, userA, nil, MsgInvalidSession, 0},
		{"missing event", url.Values{"session_id": {"s"}}, userA, nil, MsgInvalidSession, 0},
		{"anonymous", url.Values{"session_id": {"s"}, "eventId": {"1"}}, session.Identity{}, nil, MsgLoginRequired, 0},
		{"success false", url.Values{"session_id": {"s"}, "eventId": {"1"}}, userA, &apiclient.APIError{StatusCode: 200}, MsgVerificationFailed, 1},
		{"server message", url.Values{"session_id": {"s"}, "eventId": {"1"}}, userA, &apiclient.APIError{StatusCode: 400, Message: "Session not paid"}, "Session not paid", 1},
		{"network", url.Values{"session_id": {"s"}, "eventId": {"1"}}, userA, fmt.Errorf("%w: dial", apiclient.ErrNetwork), MsgVerifyFallback, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &recordingVerifier{err: tt.err}
			res := NewVerification(v, ParseReturn(tt.query), tt.viewer).Run(context.Background())

			assert.False(t, res.Verified)
			assert.Equal(t, PaymentFailed, res.State)
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, tt.wantHit, v.calls.Load())
			assert.Equal(t, "/", res.Links[0].Path)
		})
	}
}

func TestCancelled(t *testing.T) {
	assert.Len(t, Cancelled(Return{}).Links, 1)
	view := Cancelled(Return{EventID: "9"})
	assert.Equal(t, "/events/9", view.Links[1].Path)
}

func TestInflight(t *testing.T) {
	f := NewInflight()
	release, ok := f.Acquire("A/1")
	require.True(t, ok)
	_, ok = f.Acquire("A/1")
	assert.False(t, ok)
	_, ok = f.Acquire("B/1")
	assert.True(t, ok)
	release()
	_, ok = f.Acquire("A/1")
	assert.True(t, ok)
}

func TestPayments_Client(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/payments/create-checkout-session":
			assert.Equal(t, map[string]string{"eventId": "123", "userId": "A"}, body)
			w.Write([]byte(`{"success":true,"data":{"url":"https://pay.example/s"}}`))
		case "/payments/verify-payment":
			assert.Equal(t, map[string]string{"sessionId": "sess_1", "eventId": "123", "userId": "A"}, body)
			w.Write([]byte(`{"success":false,"message":"not paid"}`))
		}
	}))
	defer server.Close()

	p := NewPayments(apiclient.New(server.URL, time.Second))
	cs, err := p.CreateCheckout(context.Background(), "123", "A")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s", cs.URL)

	err = p.VerifyPayment(context.Background(), "sess_1", "123", "A")
	assert.Equal(t, MsgVerificationFailed, verifyMessage(err))
}
