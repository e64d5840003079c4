package participation

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/session"
)

const (
	MsgInvalidSession     = "Invalid payment session details."
	MsgLoginRequired      = "Please login"
	MsgVerificationFailed = "Payment verification failed."
	MsgVerifyFallback     = "Verification failed"
)

type Verifier interface {
	VerifyPayment(ctx context.Context, sessionID, eventID, userID string) error
}

// Return carries the identifiers the payment provider appends to the
// success and cancel URLs.
type Return struct {
	SessionID string
	EventID   string
}

func ParseReturn(q url.Values) Return {
	return Return{
		SessionID: strings.TrimSpace(q.Get("session_id")),
		EventID:   strings.TrimSpace(q.Get("eventId")),
	}
}

// Link is a navigation the result view offers.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Result struct {
	State    State  `json:"state"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
	EventID  string `json:"eventId,omitempty"`
	Links    []Link `json:"links"`
}

// Verification checks one payment return. Run calls the backend at most once
// per Verification; later calls get the same result.
type Verification struct {
	verifier Verifier
	ret      Return
	viewer   session.Identity

	once   sync.Once
	done   atomic.Bool
	result Result
}

func NewVerification(v Verifier, ret Return, viewer session.Identity) *Verification {
	return &Verification{verifier: v, ret: ret, viewer: viewer}
}

func (v *Verification) Run(ctx context.Context) Result {
	v.once.Do(func() {
		v.result = v.verify(ctx)
		v.done.Store(true)
	})
	return v.result
}

// State is PaymentVerifying until Run has finished.
func (v *Verification) State() State {
	if !v.done.Load() {
		return PaymentVerifying
	}
	return v.result.State
}

func (v *Verification) verify(ctx context.Context) Result {
	if v.ret.SessionID == "" || v.ret.EventID == "" {
		return v.failed(MsgInvalidSession)
	}
	if !v.viewer.Authenticated() {
		return v.failed(MsgLoginRequired)
	}

	err := v.verifier.VerifyPayment(ctx, v.ret.SessionID, v.ret.EventID, v.viewer.UserID)
	if err != nil {
		logging.For(ctx).LogError("verify_payment", err, "event_id", v.ret.EventID)
		return v.failed(verifyMessage(err))
	}

	return Result{
		State:    Joined,
		Verified: true,
		EventID:  v.ret.EventID,
		Links: []Link{
			{Label: "Find More Events", Path: "/events"},
			{Label: "View Event Details", Path: eventPath(v.ret.EventID)},
		},
	}
}

// verifyMessage tells an explicit rejection (success:false on a 2xx) apart
// from a failed request.
func verifyMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 400 {
		return MsgVerificationFailed
	}
	return apiclient.Message(err, MsgVerifyFallback)
}

func (v *Verification) failed(msg string) Result {
	links := []Link{{Label: "Home", Path: "/"}}
	if v.ret.EventID != "" {
		links = append(links, Link{Label: "Back to Event", Path: eventPath(v.ret.EventID)})
	}
	return Result{State: PaymentFailed, Error: msg, EventID: v.ret.EventID, Links: links}
}

// CancelView is shown when the viewer backs out of checkout.
type CancelView struct {
	Cancelled bool   `json:"cancelled"`
	EventID   string `json:"eventId,omitempty"`
	Links     []Link `json:"links"`
}

func Cancelled(ret Return) CancelView {
	links := []Link{{Label: "Home", Path: "/events"}}
	if ret.EventID != "" {
		links = append(links, Link{Label: "Try Again", Path: eventPath(ret.EventID)})
	}
	return CancelView{Cancelled: true, EventID: ret.EventID, Links: links}
}

func eventPath(id string) string {
	return "/events/" + url.PathEscape(id)
}
