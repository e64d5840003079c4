package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/addahub/addahub-web/internal/logging"
	"github.com/addahub/addahub-web/internal/session"
)

var (
	ErrRatingRequired   = errors.New("please select a rating")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCommentRequired  = errors.New("comment is required")
	ErrNotAuthenticated = errors.New("login required")
	ErrOwnTarget        = errors.New("cannot review your own event or profile")
	ErrAlreadyReviewed  = errors.New("already reviewed")
	ErrBusy             = errors.New("a review submission is in flight")
)

// Board is the review list of one target as a viewer sees it. Submissions
// are never appended locally: after the backend accepts one the whole list is
// fetched again.
type Board struct {
	store  Store
	target Target
	viewer session.Identity
	// owner is the organizer of the event, or the host itself. Owners get no
	// review form.
	owner string

	mu      sync.Mutex
	reviews []Review
	busy    bool
}

func NewBoard(store Store, target Target, viewer session.Identity, owner string) *Board {
	return &Board{
		store:   store,
		target:  target,
		viewer:  viewer,
		owner:   owner,
		reviews: []Review{},
	}
}

// Load replaces the list with the backend's.
func (b *Board) Load(ctx context.Context) error {
	list, err := b.store.List(ctx, b.target)
	if err != nil {
		return fmt.Errorf("list %s reviews: %w", b.target.Kind, err)
	}
	b.mu.Lock()
	b.reviews = list
	b.mu.Unlock()
	return nil
}

func (b *Board) Reviews() []Review {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Review(nil), b.reviews...)
}

// HasReviewed reports whether the loaded list holds a review by the viewer,
// whether the backend embedded the reviewer or sent a bare id.
func (b *Board) HasReviewed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasReviewed()
}

func (b *Board) hasReviewed() bool {
	if b.viewer.UserID == "" {
		return false
	}
	for _, r := range b.reviews {
		if r.Reviewer.ID == b.viewer.UserID {
			return true
		}
	}
	return false
}

// CanReview reports whether the review form is shown.
func (b *Board) CanReview() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canReview()
}

func (b *Board) canReview() bool {
	return b.viewer.Authenticated() && b.viewer.UserID != b.owner && !b.hasReviewed()
}

func (b *Board) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.reviews)
}

// Average is the mean rating rounded to one decimal, 0 without reviews.
func (b *Board) Average() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return average(b.reviews)
}

func average(list []Review) float64 {
	if len(list) == 0 {
		return 0
	}
	sum := 0
	for _, r := range list {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(list))*10) / 10
}

// ValidateInput checks the review form on its own, before anything is loaded.
func ValidateInput(rating int, comment string) error {
	switch {
	case rating == 0:
		return ErrRatingRequired
	case rating < 1 || rating > 5:
		return ErrInvalidRating
	case strings.TrimSpace(comment) == "":
		return ErrCommentRequired
	}
	return nil
}

// Submit posts a review and reloads the list. Invalid input and guard
// failures are reported without a request.
func (b *Board) Submit(ctx context.Context, rating int, comment string) error {
	if err := ValidateInput(rating, comment); err != nil {
		return err
	}
	comment = strings.TrimSpace(comment)

	b.mu.Lock()
	switch {
	case b.busy:
		b.mu.Unlock()
		return ErrBusy
	case !b.viewer.Authenticated():
		b.mu.Unlock()
		return ErrNotAuthenticated
	case b.viewer.UserID == b.owner:
		b.mu.Unlock()
		return ErrOwnTarget
	case b.hasReviewed():
		b.mu.Unlock()
		return ErrAlreadyReviewed
	}
	b.busy = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	if err := b.store.Submit(ctx, newSubmission(b.target, b.viewer.UserID, rating, comment)); err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	if err := b.Load(ctx); err != nil {
		logging.For(ctx).LogWarn("review_refresh", "review saved but the list could not be reloaded",
			"target", b.target.ID, "error", err)
	}
	return nil
}

// View is the review section of an event or profile page.
type View struct {
	Reviews     []Review `json:"reviews"`
	Count       int      `json:"count"`
	Average     float64  `json:"average"`
	AverageText string   `json:"averageText"`
	HasReviewed bool     `json:"hasReviewed"`
	CanReview   bool     `json:"canReview"`
	LoginNeeded bool     `json:"loginNeeded"`
}

func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	avg := average(b.reviews)
	return View{
		Reviews:     append([]Review{}, b.reviews...),
		Count:       len(b.reviews),
		Average:     avg,
		AverageText: fmt.Sprintf("%.1f", avg),
		HasReviewed: b.hasReviewed(),
		CanReview:   b.canReview(),
		LoginNeeded: !b.viewer.Authenticated(),
	}
}
