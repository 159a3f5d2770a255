package application

import (
	admindomain "github.com/sngm3741/reststop-ratings/api/internal/admin/domain"
)

// AllowListAuthorizer checks emails against a static allow-list.
type AllowListAuthorizer struct {
	emails map[string]struct{}
}

// NewAllowListAuthorizer normalises the configured emails (trimmed, lower-cased).
func NewAllowListAuthorizer(emails []string) *AllowListAuthorizer {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		normalized := admindomain.NormalizeEmail(email)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return &AllowListAuthorizer{emails: set}
}

func (a *AllowListAuthorizer) IsAuthorized(email string) bool {
	normalized := admindomain.NormalizeEmail(email)
	if normalized == "" {
		return false
	}
	_, ok := a.emails[normalized]
	return ok
}
