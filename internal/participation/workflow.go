package participation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrBusy             = errors.New("another participation action is in flight")
	ErrEventFull        = errors.New("event is full")
	ErrAlreadyJoined    = errors.New("already a participant")
	ErrNotJoined        = errors.New("not a participant")
	ErrNoCheckoutURL    = errors.New("checkout session has no url")
)

// Mode is how joining works for an event, fixed when the event is loaded.
type Mode int

const (
	FreeJoin Mode = iota
	PaidJoin
)

func ModeFor(ev events.Event) Mode {
	if ev.IsFree() {
		return FreeJoin
	}
	return PaidJoin
}

func (m Mode) String() string {
	if m == PaidJoin {
		return "paid"
	}
	return "free"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type State string

const (
	NotJoined            State = "not_joined"
	Joining              State = "joining"
	Joined               State = "joined"
	Leaving              State = "leaving"
	RedirectingToPayment State = "redirecting_to_payment"
	PaymentVerifying     State = "payment_verifying"
	PaymentFailed        State = "payment_failed"
)

// Gateway is the backend surface the workflow drives.
type Gateway interface {
	Event(ctx context.Context, id string) (*events.Event, error)
	Join(ctx context.Context, eventID, userID string) error
	Leave(ctx context.Context, eventID, userID string) error
	CreateCheckout(ctx context.Context, eventID, userID string) (*CheckoutSession, error)
}

// Outcome is the result of a successful Join or Leave.
type Outcome struct {
	// Redirect is the hosted checkout page for paid joins.
	Redirect string
	// Refreshed reports whether Event came from the backend after the
	// mutation, rather than from applying the confirmed change locally.
	Refreshed bool
	Event     events.Event
}

// Workflow is the join/leave state of one viewer on one loaded event. At most
// one action runs at a time; nothing changes locally before the backend
// confirms it.
type Workflow struct {
	gw     Gateway
	viewer session.Identity
	mode   Mode

	mu    sync.Mutex
	event events.Event
	state State
	busy  bool
}

func NewWorkflow(gw Gateway, ev events.Event, viewer session.Identity) *Workflow {
	w := &Workflow{
		gw:     gw,
		viewer: viewer,
		mode:   ModeFor(ev),
		event:  ev,
	}
	w.state = w.settled()
	return w
}

func (w *Workflow) settled() State {
	if w.event.HasParticipant(w.viewer.UserID) {
		return Joined
	}
	return NotJoined
}

func (w *Workflow) Mode() Mode {
	return w.mode
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Event() events.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.event
}

// CanJoin reports whether the join control is enabled: it is disabled only
// when the event is full and the viewer is not already in it.
func (w *Workflow) CanJoin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return canJoin(w.event, w.viewer.UserID)
}

func canJoin(ev events.Event, userID string) bool {
	return ev.HasParticipant(userID) || !ev.IsFull()
}

func (w *Workflow) begin(from, during State) (events.Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return events.Event{}, ErrBusy
	}
	if !w.viewer.Authenticated() {
		return events.Event{}, ErrNotAuthenticated
	}
	if w.state != from {
		if from == NotJoined {
			return events.Event{}, ErrAlreadyJoined
		}
		return events.Event{}, ErrNotJoined
	}
	if from == NotJoined && !canJoin(w.event, w.viewer.UserID) {
		return events.Event{}, ErrEventFull
	}

	w.busy = true
	w.state = during
	return w.event, nil
}

func (w *Workflow) abort(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = state
	w.busy = false
}

// Join joins a free event directly, or starts checkout for a paid one. A
// paid join never calls the direct join endpoint and changes nothing locally.
func (w *Workflow) Join(ctx context.Context) (Outcome, error) {
	during := Joining
	if w.mode == PaidJoin {
		during = RedirectingToPayment
	}
	ev, err := w.begin(NotJoined, during)
	if err != nil {
		return Outcome{}, err
	}

	if w.mode == PaidJoin {
		cs, err := w.gw.CreateCheckout(ctx, ev.ID, w.viewer.UserID)
		if err == nil && cs.URL == "" {
			err = ErrNoCheckoutURL
		}
		if err != nil {
			w.abort(NotJoined)
			return Outcome{}, fmt.Errorf("create checkout: %w", err)
		}
		// The viewer leaves for the checkout page; the state stays put.
		w.abort(RedirectingToPayment)
		return Outcome{Redirect: cs.URL, Event: ev}, nil
	}

	if err := w.gw.Join(ctx, ev.ID, w.viewer.UserID); err != nil {
		w.abort(NotJoined)
		return Outcome{}, fmt.Errorf("join event: %w", err)
	}
	return w.confirm(ctx, ev, ev.WithParticipant(w.viewer.UserID)), nil
}

// Leave removes the viewer from the event.
func (w *Workflow) Leave(ctx context.Context) (Outcome, error) {
	ev, err := w.begin(Joined, Leaving)
	if err != nil {
		return Outcome{}, err
	}

	if err := w.gw.Leave(ctx, ev.ID, w.viewer.UserID); err != nil {
		w.abort(Joined)
		return Outcome{}, fmt.Errorf("leave event: %w", err)
	}
	return w.confirm(ctx, ev, ev.WithoutParticipant(w.viewer.UserID)), nil
}

// confirm settles a mutation the backend accepted. The canonical event wins;
// the locally applied change is only used when the re-fetch fails.
func (w *Workflow) confirm(ctx context.Context, before, applied events.Event) Outcome {
	out := Outcome{Event: applied}
	if fresh, err := w.gw.Event(ctx, before.ID); err == nil && fresh != nil {
		out.Event = *fresh
		out.Refreshed = true
	} else if err != nil {
		logging.For(ctx).LogWarn("participation_refresh", "re-fetch failed, applying confirmed change locally",
			"event_id", before.ID, "error", err)
	}

	w.mu.Lock()
	w.event = out.Event
	w.busy = false
	w.state = w.settled()
	w.mu.Unlock()
	return out
}

// View is what the event page renders for the join control.
type View struct {
	State        State   `json:"state"`
	Mode         Mode    `json:"mode"`
	Price        float64 `json:"price"`
	Participants int     `json:"participants"`
	Capacity     int     `json:"capacity"`
	SpotsLeft    int     `json:"spotsLeft"`
	Joined       bool    `json:"joined"`
	CanJoin      bool    `json:"canJoin"`
	Label        string  `json:"label"`
	CanEdit      bool    `json:"canEdit"`
	LoginNeeded  bool    `json:"loginNeeded"`
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	joined := w.event.HasParticipant(w.viewer.UserID)
	return View{
		State:        w.state,
		Mode:         w.mode,
		Price:        w.event.Price,
		Participants: len(w.event.Participants),
		Capacity:     w.event.MaxParticipants,
		SpotsLeft:    w.event.SpotsLeft(),
		Joined:       joined,
		CanJoin:      !w.busy && canJoin(w.event, w.viewer.UserID),
		Label:        label(w.state, joined, w.event.IsFull()),
		CanEdit:      w.event.IsOrganizer(w.viewer.UserID) || w.viewer.IsAdmin(),
		LoginNeeded:  !w.viewer.Authenticated(),
	}
}

func label(state State, joined, full bool) string {
	switch state {
	case Joining, RedirectingToPayment:
		return "Joining..."
	case Leaving:
		return "Leaving..."
	}
	switch {
	case joined:
		return "Leave Event"
	case full:
		return "Event Full"
	default:
		return "Join Event"
	}
}
