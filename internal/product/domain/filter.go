package domain

import (
	"strings"
)

const (
	DefaultLimit    = 20
	MaxLimit        = 100
	MaxSearchLength = 200

	// AllCategories is the category value clients send to clear the filter.
	AllCategories = "all"
)

// ListFilter narrows List and Search. Zero values mean "unset".
type ListFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// CategoryValue returns the category to filter on. Blank and "all" (any case) are unset.
func (f ListFilter) CategoryValue() (string, bool) {
	c := strings.TrimSpace(f.Category)
	if c == "" || strings.EqualFold(c, AllCategories) {
		return "", false
	}
	return c, true
}

// SearchTerm returns the trimmed search text. A blank term means no text predicate.
func (f ListFilter) SearchTerm() (string, bool) {
	s := strings.TrimSpace(f.Search)
	return s, s != ""
}

// AgeBucket maps an age to its targeting label.
func AgeBucket(age int) string {
	switch {
	case age < 25:
		return "18-24"
	case age < 35:
		return "25-34"
	case age < 45:
		return "35-44"
	case age < 55:
		return "45-54"
	default:
		return "55+"
	}
}

// DemographicFilter selects products targeted at an age bucket and gender.
type DemographicFilter struct {
	AgeBucket string
	Gender    string
}

func NewDemographicFilter(age int, gender string) DemographicFilter {
	return DemographicFilter{AgeBucket: AgeBucket(age), Gender: gender}
}

// Matches reports whether p passes both dimensions. A dimension matches when
// the target is nil, equal to the value, or contains it. Matching is
// case-sensitive, so a "Female" target also contains "male" but not "Male".
func (f DemographicFilter) Matches(p Product) bool {
	return targets(p.AgeTarget, f.AgeBucket) && targets(p.GenderTarget, f.Gender)
}

func targets(target *string, value string) bool {
	return target == nil || *target == value || strings.Contains(*target, value)
}
