package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts any RFC 4122 UUID in canonical form.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, dateStr)
	return t, err == nil
}

// IsValidMonth parses YYYY-MM.
func IsValidMonth(monthStr string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, monthStr)
	return t, err == nil
}

func IsInSlice(value string, slice []string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}

// IsValidCoordinate checks latitude/longitude ranges.
func IsValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
