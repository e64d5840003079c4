package participation

import (
	"context"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/events"
)

// CheckoutSession is a hosted checkout page created by the payment provider.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId,omitempty"`
}

type checkoutRequest struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
}

type verifyRequest struct {
	SessionID string `json:"sessionId"`
	EventID   string `json:"eventId"`
	UserID    string `json:"userId"`
}

// Payments wraps the backend's payment endpoints.
type Payments struct {
	client *apiclient.Client
}

func NewPayments(client *apiclient.Client) *Payments {
	return &Payments{client: client}
}

func (p *Payments) CreateCheckout(ctx context.Context, eventID, userID string) (*CheckoutSession, error) {
	var cs CheckoutSession
	if err := p.client.Post(ctx, "/payments/create-checkout-session", checkoutRequest{EventID: eventID, UserID: userID}, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// VerifyPayment asks the backend to confirm a completed checkout and record
// the participation. A success:false answer comes back as an *apiclient.APIError
// with a 2xx status.
func (p *Payments) VerifyPayment(ctx context.Context, sessionID, eventID, userID string) error {
	return p.client.Post(ctx, "/payments/verify-payment", verifyRequest{SessionID: sessionID, EventID: eventID, UserID: userID}, nil)
}

// Backend is the Gateway over the AddaHub REST backend.
type Backend struct {
	events   *events.Service
	payments *Payments
}

func NewBackend(ev *events.Service, payments *Payments) *Backend {
	return &Backend{events: ev, payments: payments}
}

func (b *Backend) Event(ctx context.Context, id string) (*events.Event, error) {
	return b.events.Get(ctx, id)
}

func (b *Backend) Join(ctx context.Context, eventID, userID string) error {
	return b.events.Join(ctx, eventID, userID)
}

func (b *Backend) Leave(ctx context.Context, eventID, userID string) error {
	return b.events.Leave(ctx, eventID, userID)
}

func (b *Backend) CreateCheckout(ctx context.Context, eventID, userID string) (*CheckoutSession, error) {
	return b.payments.CreateCheckout(ctx, eventID, userID)
}

func (b *Backend) VerifyPayment(ctx context.Context, sessionID, eventID, userID string) error {
	return b.payments.VerifyPayment(ctx, sessionID, eventID, userID)
}
