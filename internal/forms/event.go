package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/addahub/addahub-web/internal/events"
)

var Categories = []string{"Social", "Sports", "Outdoors", "Gaming", "Food", "Arts"}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// EventForm is the create/edit event form as the browser submits it. Date and
// time arrive as separate inputs.
type EventForm struct {
	Title            string   `json:"title" validate:"required"`
	Category         string   `json:"category" validate:"required,oneof=Social Sports Outdoors Gaming Food Arts"`
	Description      string   `json:"description" validate:"required"`
	Date             string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string   `json:"time" validate:"required,datetime=15:04"`
	Location         string   `json:"location" validate:"required"`
	MaxParticipants  *int     `json:"maxParticipants" validate:"required,min=2"`
	Price            *float64 `json:"price" validate:"required,min=0"`
	Image            string   `json:"image" validate:"omitempty,url"`
	AdditionalImages []string `json:"additionalImages,omitempty" validate:"omitempty,dive,url"`
}

func (f *EventForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Description = strings.TrimSpace(f.Description)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Location = strings.TrimSpace(f.Location)
	f.Image = strings.TrimSpace(f.Image)

	imgs := f.AdditionalImages[:0:0]
	for _, u := range f.AdditionalImages {
		if u = strings.TrimSpace(u); u != "" {
			imgs = append(imgs, u)
		}
	}
	f.AdditionalImages = imgs
}

// Validate checks the form. A banner image is only required when creating.
func (f *EventForm) Validate(creating bool) FieldErrors {
	f.trim()
	errs := check(f)
	if creating && f.Image == "" {
		errs["image"] = "Banner image is required"
	}
	return errs
}

// Timestamp combines the date and time inputs into one instant in loc.
func (f EventForm) Timestamp(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	ts, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, f.Date+"T"+f.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("combine date and time: %w", err)
	}
	return ts, nil
}

// Draft validates the form for an edit and builds the update body.
func (f EventForm) Draft(loc *time.Location) (events.Draft, error) {
	if errs := f.Validate(false); len(errs) > 0 {
		return events.Draft{}, errs
	}
	return f.draft(loc)
}

// NewEvent validates the form for creation and builds the create body, owned
// by organizerID with nobody joined yet.
func (f EventForm) NewEvent(organizerID string, loc *time.Location) (events.NewEvent, error) {
	if errs := f.Validate(true); len(errs) > 0 {
		return events.NewEvent{}, errs
	}
	d, err := f.draft(loc)
	if err != nil {
		return events.NewEvent{}, err
	}
	return events.NewEvent{
		Draft:        d,
		Organizer:    organizerID,
		Participants: []string{},
		Status:       events.StatusOpen,
	}, nil
}

func (f EventForm) draft(loc *time.Location) (events.Draft, error) {
	ts, err := f.Timestamp(loc)
	if err != nil {
		return events.Draft{}, FieldErrors{"date": "Invalid date"}
	}
	return events.Draft{
		Title:            f.Title,
		Description:      f.Description,
		Category:         f.Category,
		Date:             ts,
		Time:             f.Time,
		Location:         f.Location,
		Image:            f.Image,
		AdditionalImages: f.AdditionalImages,
		Price:            *f.Price,
		MaxParticipants:  *f.MaxParticipants,
	}, nil
}

// Prefill turns a stored event back into form inputs, splitting the
// timestamp in the same location the form combines it in.
func Prefill(ev events.Event, loc *time.Location) EventForm {
	if loc == nil {
		loc = time.Local
	}
	capacity, price := ev.MaxParticipants, ev.Price
	f := EventForm{
		Title:            ev.Title,
		Category:         ev.Category,
		Description:      ev.Description,
		Location:         ev.Location,
		MaxParticipants:  &capacity,
		Price:            &price,
		Image:            ev.Image,
		AdditionalImages: ev.AdditionalImages,
	}
	if !ev.Date.IsZero() {
		local := ev.Date.In(loc)
		f.Date = local.Format(DateLayout)
		f.Time = local.Format(TimeLayout)
	}
	if ev.Time != "" && f.Time == "" {
		f.Time = ev.Time
	}
	return f
}
