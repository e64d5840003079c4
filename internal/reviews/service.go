package reviews

import (
	"context"

	"github.com/addahub/addahub-web/internal/apiclient"
)

// Store is the backend surface a Board reads and writes.
type Store interface {
	List(ctx context.Context, t Target) ([]Review, error)
	Submit(ctx context.Context, s Submission) error
}

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, t Target) ([]Review, error) {
	var list []Review
	if _, err := s.client.Get(ctx, t.path(), nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Review{}
	}
	return list, nil
}

func (s *Service) Submit(ctx context.Context, sub Submission) error {
	return s.client.Post(ctx, "/reviews", sub, nil)
}
