// Package validation holds the input rules shared by every create and update
// path. Each rule returns the list of violations it found, empty when the
// value is acceptable, so callers can report all of them at once.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

var (
	emailPattern          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern          = regexp.MustCompile(`^\d{10}$`)
	phoneSeparators       = regexp.MustCompile(`[\s-]`)
	usernamePattern       = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	namePattern           = regexp.MustCompile(`^[a-zA-Z ]+$`)
	trackingNumberPattern = regexp.MustCompile(`^TRK\d{12}$`)
)

// Collect concatenates the violations of several rules
func Collect(groups ...[]string) []string {
	var all []string
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// StartOfDay returns local midnight of the day containing t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func Title(title string) []string {
	var v []string
	trimmed := strings.TrimSpace(title)
	if utf8.RuneCountInString(trimmed) < constants.MinTitleLength {
		v = append(v, "Title must be at least 3 characters long")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxTitleLength {
		v = append(v, "Title must not exceed 200 characters")
	}
	return v
}

// DueDate rejects a missing date or one before the start of today
func DueDate(due *time.Time, now time.Time) []string {
	if due == nil || due.IsZero() {
		return []string{"Due date is required"}
	}
	if due.Before(StartOfDay(now)) {
		return []string{"Due date cannot be in the past"}
	}
	return nil
}

// DateFormat reports a date that could not be parsed, e.g. label "due date"
func DateFormat(label string) []string {
	return []string{"Invalid " + label + " format"}
}

func Priority(p models.TaskPriority) []string {
	if !p.Valid() {
		return []string{"Invalid priority value"}
	}
	return nil
}

func TaskStatus(s models.TaskStatus) []string {
	if !s.Valid() {
		return []string{"Invalid status. Must be Pending, In-Progress, or Completed"}
	}
	return nil
}

func Comment(comment string) []string {
	if utf8.RuneCountInString(strings.TrimSpace(comment)) < constants.MinCommentLength {
		return []string{"Comment must be at least 5 characters long"}
	}
	return nil
}

// HoursNotNumeric is reported when hours worked could not be parsed as a number
func HoursNotNumeric() []string {
	return []string{"Hours worked must be a positive number"}
}

func HoursWorked(hours float64) []string {
	var v []string
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		v = append(v, "Hours worked must be a positive number")
	}
	if hours > constants.MaxHoursPerUpdate {
		v = append(v, "Hours worked cannot exceed 24 hours per update")
	}
	return v
}

func isValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	return n >= constants.MinNameLength && n <= constants.MaxNameLength && namePattern.MatchString(trimmed)
}

func FullName(name string) []string {
	if !isValidName(name) {
		return []string{"Full name must contain only letters and spaces (2-50 characters)"}
	}
	return nil
}

func Username(username string) []string {
	if !usernamePattern.MatchString(username) {
		return []string{"Username must be alphanumeric, 3-20 characters"}
	}
	return nil
}

func Email(email string) []string {
	if !emailPattern.MatchString(email) {
		return []string{"Invalid email format"}
	}
	return nil
}

// Phone is optional; an empty value passes
func Phone(phone string) []string {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phoneSeparators.ReplaceAllString(phone, "")) {
		return []string{"Phone number must be 10 digits"}
	}
	return nil
}

func Password(password string) []string {
	if len(password) < constants.MinPasswordLength {
		return []string{fmt.Sprintf("Password must be at least %d characters long", constants.MinPasswordLength)}
	}
	return nil
}

// PasswordConfirmation only applies when a confirmation was supplied
func PasswordConfirmation(password, confirm string) []string {
	if confirm != "" && password != confirm {
		return []string{"Passwords do not match"}
	}
	return nil
}

// Role accepts "Administrator", "admin" and "Employee" in any letter case
func Role(role string) (models.Role, []string) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "administrator", "admin":
		return models.RoleAdministrator, nil
	case "employee":
		return models.RoleEmployee, nil
	}
	return "", []string{"Invalid role. Must be Administrator or Employee"}
}

// CourierParty validates a sender or receiver name; label is "Sender" or "Receiver"
func CourierParty(label, name string) []string {
	if !isValidName(name) {
		return []string{label + " name must contain only letters and spaces (2-50 characters)"}
	}
	return nil
}

func CourierType(courierType string) []string {
	var v []string
	if utf8.RuneCountInString(strings.TrimSpace(courierType)) < constants.MinCourierTypeLength {
		v = append(v, "Courier type is required (minimum 2 characters)")
	}
	if utf8.RuneCountInString(courierType) > constants.MaxCourierTypeLength {
		v = append(v, "Courier type must not exceed 50 characters")
	}
	return v
}

func CourierStatus(s models.CourierStatus) []string {
	if !s.Valid() {
		return []string{"Invalid status. Must be Received or Delivered"}
	}
	return nil
}

// TrackingNumber validates an explicitly supplied tracking number
func TrackingNumber(trackingNumber string) []string {
	if !IsTrackingNumber(trackingNumber) {
		return []string{"Invalid tracking number format"}
	}
	return nil
}

func IsTrackingNumber(s string) bool {
	return trackingNumberPattern.MatchString(s)
}
