package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/addahub/addahub-web/internal/events"
	"github.com/addahub/addahub-web/internal/forms"
	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/reviews"
	"github.com/addahub/addahub-web/internal/session"
	"github.com/addahub/addahub-web/internal/users"
)

type invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// Service assembles the signed-in pages: dashboard, my events, profiles and
// the admin actions.
type Service struct {
	events   *events.Service
	users    *users.Repo
	profiles users.Source
	reviews  reviews.Store
}

// New wires the page service. profiles may be a cache in front of repo; it is
// invalidated whenever a profile changes.
func New(ev *events.Service, repo *users.Repo, profiles users.Source, reviewStore reviews.Store) *Service {
	if profiles == nil {
		profiles = repo
	}
	return &Service{events: ev, users: repo, profiles: profiles, reviews: reviewStore}
}

type View struct {
	Profile *users.User    `json:"profile"`
	Joined  []events.Event `json:"joined"`
	Hosted  []events.Event `json:"hosted"`
	CanHost bool           `json:"canHost"`
	Admin   *AdminView     `json:"admin,omitempty"`
}

// AdminView is the overview only admins get.
type AdminView struct {
	Users  []users.User   `json:"users"`
	Hosts  []users.User   `json:"hosts"`
	Events []events.Event `json:"events"`
	Stats  Stats          `json:"stats"`
}

type Stats struct {
	Users  int `json:"users"`
	Hosts  int `json:"hosts"`
	Events int `json:"events"`
}

// Dashboard loads the viewer's profile, then the joined and hosted lists and,
// for admins, every user and event. The role comes from the stored profile.
func (s *Service) Dashboard(ctx context.Context, viewer session.Identity) (*View, error) {
	profile, err := s.profiles.Get(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	view := &View{Profile: profile, CanHost: profile.Role == users.RoleHost || profile.Role == users.RoleAdmin}
	var admin *AdminView
	if profile.Role == users.RoleAdmin {
		admin = &AdminView{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.events.Joined(gctx, viewer.UserID)
		if err != nil {
			return fmt.Errorf("joined events: %w", err)
		}
		view.Joined = list
		return nil
	})
	g.Go(func() error {
		list, err := s.events.Hosted(gctx, viewer.UserID)
		if err != nil {
			return fmt.Errorf("hosted events: %w", err)
		}
		view.Hosted = list
		return nil
	})
	if admin != nil {
		g.Go(func() error {
			all, err := s.users.List(gctx)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			admin.Users = users.FilterByRole(all, users.RoleUser)
			admin.Hosts = users.FilterByRole(all, users.RoleHost)
			return nil
		})
		g.Go(func() error {
			list, err := s.events.All(gctx)
			if err != nil {
				return fmt.Errorf("all events: %w", err)
			}
			admin.Events = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if admin != nil {
		admin.Stats = Stats{Users: len(admin.Users), Hosts: len(admin.Hosts), Events: len(admin.Events)}
		view.Admin = admin
	}
	return view, nil
}

// MyEvents lists the events the viewer organizes.
func (s *Service) MyEvents(ctx context.Context, viewer session.Identity) ([]events.Event, error) {
	return s.events.Hosted(ctx, viewer.UserID)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// ProfileView is the own-profile page: the stored user and the form prefilled
// from it.
type ProfileView struct {
	User users.User        `json:"user"`
	Form forms.ProfileForm `json:"form"`
}

func (s *Service) Profile(ctx context.Context, viewer session.Identity) (*ProfileView, error) {
	u, err := s.profiles.Get(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: *u, Form: forms.ProfileFormFor(*u)}, nil
}

// UpdateProfile validates the form and saves it. Field errors come back as
// forms.FieldErrors without a request.
func (s *Service) UpdateProfile(ctx context.Context, viewer session.Identity, form forms.ProfileForm) (*users.User, error) {
	upd, err := form.Update()
	if err != nil {
		return nil, err
	}
	u, err := s.users.Update(ctx, viewer.UserID, upd)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, viewer.UserID)
	return u, nil
}

// PublicProfile is another user's page with the reviews left for them as a
// host.
type PublicProfile struct {
	User    users.User     `json:"user"`
	Hosted  []events.Event `json:"hosted,omitempty"`
	Reviews reviews.View   `json:"reviews"`
}

func (s *Service) PublicProfile(ctx context.Context, viewer session.Identity, id string) (*PublicProfile, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &PublicProfile{User: *u}
	board := reviews.NewBoard(s.reviews, reviews.HostTarget(u.ID), viewer, u.ID)
	if err := board.Load(ctx); err != nil {
		logging.For(ctx).LogWarn("host_reviews", "failed to fetch host reviews", "user_id", u.ID, "error", err)
	}
	out.Reviews = board.View()

	if u.Role == users.RoleHost {
		hosted, err := s.events.Hosted(ctx, u.ID)
		if err != nil {
			logging.For(ctx).LogWarn("host_events", "failed to fetch hosted events", "user_id", u.ID, "error", err)
		}
		out.Hosted = hosted
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	inv, ok := s.profiles.(invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, id); err != nil {
		logging.For(ctx).LogWarn("profile_cache", "failed to invalidate cached profile", "user_id", id, "error", err)
	}
}
