package domain

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	publicdomain "github.com/sngm3741/reststop-ratings/api/internal/public/domain"
	apperrors "github.com/sngm3741/reststop-ratings/api/pkg/errors"
)

const (
	MinNameRunes    = 2
	MaxNameRunes    = 100
	MaxAddressRunes = 200
	MaxCommentRunes = 500
	MaxStaffCount   = 100
	MaxWaitMinutes  = 480
)

// RejectedByModeratorNote is stamped on reviews a moderator rejects.
const RejectedByModeratorNote = "rejected by moderator"

var idPattern = regexp.MustCompile(`^[0-9a-f-]+$`)

type Name string

// NewName trims and validates a public submission name (2–100 runes).
func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	n := utf8.RuneCountInString(trimmed)
	if n < MinNameRunes || n > MaxNameRunes {
		return "", apperrors.NewValidationError("name must be between 2 and 100 characters")
	}
	return Name(trimmed), nil
}

// NewApprovalName is the approval-time check: at least two runes after trimming.
// Long names that predate the submission limit are still approvable.
func NewApprovalName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) < MinNameRunes {
		return "", apperrors.NewValidationError("invalid establishment name")
	}
	return Name(trimmed), nil
}

func (n Name) String() string {
	return string(n)
}

type Address string

// NewAddress trims and truncates an address to 200 runes.
func NewAddress(value string) Address {
	return Address(truncateRunes(strings.TrimSpace(value), MaxAddressRunes))
}

func (a Address) String() string {
	return string(a)
}

// NewPosition validates latitude [-90,90] and longitude [-180,180].
func NewPosition(lat, lng float64) (publicdomain.Position, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return publicdomain.Position{}, apperrors.NewValidationError("invalid coordinates")
	}
	return publicdomain.Position{Lat: lat, Lng: lng}, nil
}

// NewServiceRating requires a present, nonzero rating within 1–5.
func NewServiceRating(value *float64) (float64, error) {
	if value == nil || *value == 0 || math.IsNaN(*value) {
		return 0, apperrors.NewValidationError("service rating is required")
	}
	if *value < 1 || *value > 5 {
		return 0, apperrors.NewValidationError("service rating must be between 1 and 5")
	}
	return *value, nil
}

// NewComment trims and truncates a review comment to 500 runes.
func NewComment(value string) string {
	return truncateRunes(strings.TrimSpace(value), MaxCommentRunes)
}

// ClampStaffCount clamps to [0,100].
func ClampStaffCount(value int) int {
	return clamp(value, 0, MaxStaffCount)
}

// ClampWaitMinutes clamps to [0,480].
func ClampWaitMinutes(value int) int {
	return clamp(value, 0, MaxWaitMinutes)
}

// ValidateID checks the identifier shape before any store access.
func ValidateID(id string) error {
	if !idPattern.MatchString(strings.TrimSpace(id)) {
		return apperrors.NewValidationError("invalid id")
	}
	return nil
}

// ValidateIDs fails fast on an empty list or on the first malformed id.
func ValidateIDs(ids []string) error {
	if len(ids) == 0 {
		return apperrors.NewValidationError("incomplete data")
	}
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return apperrors.NewValidationError("invalid ids")
		}
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email for allow-list comparison.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func truncateRunes(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}
