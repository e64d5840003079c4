package users

import (
	"context"
	"fmt"
	"net/url"

	"github.com/addahub/addahub-web/internal/apiclient"
)

// Source resolves a user by id.
type Source interface {
	Get(ctx context.Context, id string) (*User, error)
}

// Repo reads and writes users through the AddaHub backend.
type Repo struct {
	client *apiclient.Client
}

func NewRepo(client *apiclient.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id required")
	}
	var u User
	if _, err := r.client.Get(ctx, "/users/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id required")
	}
	var u User
	if err := r.client.Put(ctx, "/users/"+url.PathEscape(id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	var all []User
	if _, err := r.client.Get(ctx, "/users", nil, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, "/users/"+url.PathEscape(id), nil, nil)
}
