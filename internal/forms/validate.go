package forms

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field (its JSON name) to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsFieldErrors extracts field errors from err, if it carries any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// messages is keyed by "<field>.<tag>"; "*.<tag>" is the fallback for a tag.
var messages = map[string]string{
	"title.required":       "Title is required",
	"category.required":    "Category is required",
	"category.oneof":       "Unknown category",
	"description.required": "Description is required",
	"date.required":        "Date is required",
	"date.datetime":        "Invalid date",
	"time.required":        "Time is required",
	"time.datetime":        "Invalid time",
	"location.required":    "Location is required",
	"maxParticipants.min":  "Must be at least 2 participants",
	"price.min":            "Price cannot be negative",
	"name.required":        "Name is required",
	"email.required":       "Email is required",
	"email.address":        "Invalid email address",
	"password.required":    "Password is required",
	"password.min":         "Password must be at least 6 characters",
	"role.required":        "Role is required",
	"role.oneof":           "Role must be user or host",
	"*.required":           "Required",
	"*.url":                "Invalid URL",
}

func check(form any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := messages["*."+tag]; ok {
		return m
	}
	return "Invalid value"
}
