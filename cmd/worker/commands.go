package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/addahub/addahub-web/internal/apiclient"
	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/participation"
	"github.com/addahub/addahub-web/internal/session"
)

var errUsage = errors.New(usage)

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	if cmd != "login" {
		if _, err := a.store.Sync(ctx); err != nil {
			return err
		}
	}

	switch cmd {
	case "login":
		if len(args) != 2 {
			return errUsage
		}
		return a.login(ctx, args[0], args[1])
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "events":
		return a.browse(ctx, strings.Join(args, "&"))
	case "join", "leave":
		if len(args) != 1 {
			return errUsage
		}
		return a.participate(ctx, args[0], cmd == "join")
	case "verify":
		if len(args) != 2 {
			return errUsage
		}
		return a.verify(ctx, args[0], args[1])
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("unknown command: %s\n%s", cmd, usage)
	}
}

func (a *app) login(ctx context.Context, email, password string) error {
	tok, err := a.auth.Login(ctx, forms.LoginForm{Email: email, Password: password})
	if err != nil {
		if fe, ok := forms.AsFieldErrors(err); ok {
			return fe
		}
		return errors.New(apiclient.Message(err, "Login failed"))
	}

	id, err := a.store.Login(ctx, session.Credential{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken})
	if err != nil {
		return err
	}
	a.printf("Signed in as %s (%s)\n", id.UserID, id.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out\n")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	p, ok := a.profiles.Profile(ctx)
	if !ok {
		a.printf("Not signed in\n")
		return nil
	}
	a.printf("%s\n  id:   %s\n  role: %s\n", p.DisplayName(), p.Identity.UserID, p.Identity.Role)
	if p.User != nil && p.User.Email != "" {
		a.printf("  email: %s\n", p.User.Email)
	}
	return nil
}

func (a *app) browse(ctx context.Context, raw string) error {
	q, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", raw, err)
	}

	page, err := a.events.Browse(ctx, events.FromQuery(q))
	if err != nil {
		return errors.New(apiclient.Message(err, "Failed to fetch events"))
	}
	if page.Empty {
		a.printf("No events found\n")
		return nil
	}

	for _, ev := range page.Events {
		price := "free"
		if !ev.IsFree() {
			price = fmt.Sprintf("%.2f", ev.Price)
		}
		a.printf("%-26s %-32s %-10s %-8s %d/%d\n",
			ev.ID, ev.Title, ev.Date.Format("2006-01-02"), price, len(ev.Participants), ev.MaxParticipants)
	}
	a.printf("page %d of %d (%d events)\n", page.Meta.Page, page.Meta.TotalPage, page.Meta.Total)
	return nil
}

func (a *app) participate(ctx context.Context, eventID string, join bool) error {
	viewer, _ := a.store.Current()

	ev, err := a.backend.Event(ctx, eventID)
	if err != nil {
		return errors.New(apiclient.Message(err, "Event not found"))
	}
	wf := participation.NewWorkflow(a.backend, *ev, viewer)

	var out participation.Outcome
	if join {
		out, err = wf.Join(ctx)
	} else {
		out, err = wf.Leave(ctx)
	}
	switch {
	case errors.Is(err, participation.ErrNotAuthenticated):
		return errors.New("Please login to join events")
	case errors.Is(err, participation.ErrEventFull):
		return errors.New("Event Full")
	case errors.Is(err, participation.ErrAlreadyJoined):
		return errors.New("You have already joined this event")
	case errors.Is(err, participation.ErrNotJoined):
		return errors.New("You have not joined this event")
	case err != nil && join:
		return errors.New(apiclient.Message(err, "Failed to join event"))
	case err != nil:
		return errors.New(apiclient.Message(err, "Failed to leave event"))
	}

	if out.Redirect != "" {
		a.printf("Complete payment at: %s\n", out.Redirect)
		return nil
	}
	if join {
		a.printf("Joined event!\n")
	} else {
		a.printf("Left event\n")
	}
	a.printf("%s: %d/%d participants\n", out.Event.Title, len(out.Event.Participants), out.Event.MaxParticipants)
	return nil
}

func (a *app) verify(ctx context.Context, sessionID, eventID string) error {
	viewer, _ := a.store.Current()
	res := participation.NewVerification(a.backend, participation.Return{SessionID: sessionID, EventID: eventID}, viewer).Run(ctx)
	if !res.Verified {
		return errors.New(res.Error)
	}
	a.printf("Payment verified, you have joined event %s\n", res.EventID)
	return nil
}

// watch follows login and logout made by other processes until interrupted.
func (a *app) watch(ctx context.Context) error {
	unsubscribe := a.store.Subscribe(func(c session.Change) {
		switch c.Kind {
		case session.LoggedOut:
			a.printf("logged out (was %s)\n", c.Previous.UserID)
		default:
			a.printf("%s: %s (%s)\n", c.Kind, c.Identity.UserID, c.Identity.Role)
		}
	})
	defer unsubscribe()

	w := session.NewWatcher(a.store, a.cfg.Session.SyncInterval)
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	if id, ok := a.store.Current(); ok {
		a.printf("watching session of %s\n", id.UserID)
	} else {
		a.printf("watching session (signed out)\n")
	}
	<-ctx.Done()
	return nil
}
