package forms

import (
	"context"
	"errors"
	"net/http"

	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/session"
)

// ErrDenied matches every *Denied.
var ErrDenied = errors.New("navigation denied")

// Denied is a decision to send the viewer elsewhere with a notice. These are
// display guards; the backend still authorizes every request itself.
type Denied struct {
	Status      int
	Redirect    string
	Title       string
	Description string
}

func (d *Denied) Error() string {
	if d.Description == "" {
		return d.Title + " (redirect " + d.Redirect + ")"
	}
	return d.Title + ": " + d.Description + " (redirect " + d.Redirect + ")"
}

func (d *Denied) Is(target error) bool {
	return target == ErrDenied
}

// AsDenied extracts the redirect decision carried by err.
func AsDenied(err error) (*Denied, bool) {
	var d *Denied
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

func denied(status int, redirect, title, description string) *Denied {
	return &Denied{Status: status, Redirect: redirect, Title: title, Description: description}
}

// RequireLogin sends anonymous viewers to /login.
func RequireLogin(id session.Identity) error {
	if !id.Authenticated() {
		return denied(http.StatusUnauthorized, "/login", "Login Required", "Please login to continue.")
	}
	return nil
}

// CreateGate lets hosts and admins open the create form.
func CreateGate(id session.Identity) error {
	if err := RequireLogin(id); err != nil {
		return err
	}
	if !id.CanHost() {
		return denied(http.StatusForbidden, "/dashboard", "Unauthorized", "Only hosts can create events.")
	}
	return nil
}

// MyEventsGate lets hosts and admins list the events they organize.
func MyEventsGate(id session.Identity) error {
	if err := RequireLogin(id); err != nil {
		return err
	}
	if !id.CanHost() {
		return denied(http.StatusForbidden, "/dashboard", "Access Denied", "You must be a host to view this page.")
	}
	return nil
}

// AdminGate guards user and event management.
func AdminGate(id session.Identity) error {
	if err := RequireLogin(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return denied(http.StatusForbidden, "/dashboard", "Access Denied", "Only admins can manage users and events.")
	}
	return nil
}

type EventLoader interface {
	Get(ctx context.Context, id string) (*events.Event, error)
}

// EditGuard loads the event to edit and checks that the viewer organizes it
// or is an admin.
func EditGuard(ctx context.Context, loader EventLoader, eventID string, viewer session.Identity) (*events.Event, error) {
	if err := RequireLogin(viewer); err != nil {
		return nil, err
	}

	ev, err := loader.Get(ctx, eventID)
	if err != nil {
		return nil, denied(http.StatusNotFound, "/my-events", "Error", "Failed to load event details.")
	}
	if !ev.IsOrganizer(viewer.UserID) && !viewer.IsAdmin() {
		return nil, denied(http.StatusForbidden, "/my-events", "Unauthorized", "")
	}
	return ev, nil
}
