package forms

import (
	"strings"

	"github.com/addahub/addahub-web/internal/users"
)

// ProfileForm holds the editable profile fields. Email is not among them.
type ProfileForm struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	ProfileImage string   `json:"profileImage" validate:"omitempty,url"`
	Interests    []string `json:"interests"`
}

func (f *ProfileForm) Validate() FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.Bio = strings.TrimSpace(f.Bio)
	f.ProfileImage = strings.TrimSpace(f.ProfileImage)
	f.Interests = NormalizeInterests(f.Interests)
	return check(f)
}

func (f ProfileForm) Update() (users.ProfileUpdate, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return users.ProfileUpdate{}, errs
	}
	return users.ProfileUpdate{
		Name:         f.Name,
		Location:     f.Location,
		Bio:          f.Bio,
		ProfileImage: f.ProfileImage,
		Interests:    f.Interests,
	}, nil
}

// NormalizeInterests trims each tag and drops blanks and repeats, keeping
// first-seen order.
func NormalizeInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ProfileFormFor prefills the form from a stored user.
func ProfileFormFor(u users.User) ProfileForm {
	return ProfileForm{
		Name:         u.Name,
		Location:     u.Location,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		Interests:    NormalizeInterests(u.Interests),
	}
}
