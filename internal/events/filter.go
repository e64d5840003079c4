package events

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	KeyCategory   = "category"
	KeyDate       = "date"
	KeyLocation   = "location"
	KeySearchTerm = "searchTerm"
	KeyPage       = "page"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"

	DefaultSortBy    = "date"
	DefaultSortOrder = "desc"
	PageSize         = 9

	BrowsePath = "/events"
)

// Filter is the browse state that lives in the /events query string.
type Filter struct {
	Category   string `json:"category,omitempty" form:"category"`
	Date       string `json:"date,omitempty" form:"date"`
	Location   string `json:"location,omitempty" form:"location"`
	SearchTerm string `json:"searchTerm,omitempty" form:"searchTerm"`
	Page       int    `json:"page" form:"page"`
	SortBy     string `json:"sortBy" form:"sortBy"`
	SortOrder  string `json:"sortOrder" form:"sortOrder"`
}

func DefaultFilter() Filter {
	return Filter{Page: 1, SortBy: DefaultSortBy, SortOrder: DefaultSortOrder}
}

// FromQuery reads a filter from a URL query. Missing or malformed values take
// their defaults, so FromQuery(f.Query()) == f for any normalized f.
func FromQuery(q url.Values) Filter {
	f := Filter{
		Category:   strings.TrimSpace(q.Get(KeyCategory)),
		Date:       strings.TrimSpace(q.Get(KeyDate)),
		Location:   strings.TrimSpace(q.Get(KeyLocation)),
		SearchTerm: strings.TrimSpace(q.Get(KeySearchTerm)),
		SortBy:     strings.TrimSpace(q.Get(KeySortBy)),
		SortOrder:  strings.TrimSpace(q.Get(KeySortOrder)),
	}
	if p, err := strconv.Atoi(q.Get(KeyPage)); err == nil {
		f.Page = p
	}
	return f.Normalize()
}

// Normalize fills defaults and clamps the page.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	f.Date = strings.TrimSpace(f.Date)
	f.Location = strings.TrimSpace(f.Location)
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	f.SortBy = strings.TrimSpace(f.SortBy)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	switch strings.ToLower(f.SortOrder) {
	case "asc":
		f.SortOrder = "asc"
	default:
		f.SortOrder = DefaultSortOrder
	}
	return f
}

// Query is the canonical query string. Defaults are left out so the
// unfiltered view is plain /events.
func (f Filter) Query() url.Values {
	f = f.Normalize()
	q := url.Values{}
	setIf(q, KeyCategory, f.Category)
	setIf(q, KeyDate, f.Date)
	setIf(q, KeyLocation, f.Location)
	setIf(q, KeySearchTerm, f.SearchTerm)
	if f.Page != 1 {
		q.Set(KeyPage, strconv.Itoa(f.Page))
	}
	if f.SortBy != DefaultSortBy {
		q.Set(KeySortBy, f.SortBy)
	}
	if f.SortOrder != DefaultSortOrder {
		q.Set(KeySortOrder, f.SortOrder)
	}
	return q
}

func (f Filter) URL() string {
	q := f.Query()
	if len(q) == 0 {
		return BrowsePath
	}
	return BrowsePath + "?" + q.Encode()
}

// Set changes one field. Any change other than the page sends the view back
// to page 1.
func (f Filter) Set(key, value string) (Filter, error) {
	value = strings.TrimSpace(value)
	switch key {
	case KeyPage:
		p, err := strconv.Atoi(value)
		if err != nil {
			return f, fmt.Errorf("invalid page %q", value)
		}
		return f.WithPage(p), nil
	case KeyCategory:
		f.Category = value
	case KeyDate:
		f.Date = value
	case KeyLocation:
		f.Location = value
	case KeySearchTerm:
		f.SearchTerm = value
	case KeySortBy:
		f.SortBy = value
	case KeySortOrder:
		f.SortOrder = value
	default:
		return f, fmt.Errorf("unknown filter %q", key)
	}
	f.Page = 1
	return f.Normalize(), nil
}

// Apply sets several fields at once. An explicit page among the changes wins
// over the reset to page 1.
func (f Filter) Apply(changes map[string]string) (Filter, error) {
	page, hasPage := changes[KeyPage]
	var err error
	for key, value := range changes {
		if key == KeyPage {
			continue
		}
		if f, err = f.Set(key, value); err != nil {
			return f, err
		}
	}
	if hasPage {
		return f.Set(KeyPage, page)
	}
	return f, nil
}

func (f Filter) WithPage(page int) Filter {
	f.Page = page
	return f.Normalize()
}

func (f Filter) Clear() Filter {
	return DefaultFilter()
}

// Active reports whether anything narrows the result set.
func (f Filter) Active() bool {
	return f.Category != "" || f.Date != "" || f.Location != "" || f.SearchTerm != ""
}

// APIQuery is the query sent to GET /events: filters that are set, plus the
// paging and sort parameters always.
func (f Filter) APIQuery(limit int) url.Values {
	f = f.Normalize()
	q := url.Values{}
	setIf(q, KeyCategory, f.Category)
	setIf(q, KeyDate, f.Date)
	setIf(q, KeyLocation, f.Location)
	setIf(q, KeySearchTerm, f.SearchTerm)
	q.Set(KeyPage, strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set(KeySortBy, f.SortBy)
	q.Set(KeySortOrder, f.SortOrder)
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
