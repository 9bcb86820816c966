package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// FieldError is a single field-scoped validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of a request. All fields are
// checked before responding, not just the first invalid one.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidateContact checks a contact-form submission and returns all field
// errors. Inputs are expected pre-trimmed (see NormalizeContact).
func ValidateContact(name, email, message string) ValidationErrors {
	var errs ValidationErrors

	switch {
	case name == "":
		errs = append(errs, FieldError{"name", "Name is required"})
	case utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 100:
		errs = append(errs, FieldError{"name", "Name must be between 2 and 100 characters"})
	case !namePattern.MatchString(name):
		errs = append(errs, FieldError{"name", "Name can only contain letters and spaces"})
	}

	switch {
	case email == "":
		errs = append(errs, FieldError{"email", "Email is required"})
	case !emailPattern.MatchString(email):
		errs = append(errs, FieldError{"email", "Please provide a valid email address"})
	}

	switch {
	case message == "":
		errs = append(errs, FieldError{"message", "Message is required"})
	case utf8.RuneCountInString(message) < 10 || utf8.RuneCountInString(message) > 1000:
		errs = append(errs, FieldError{"message", "Message must be between 10 and 1000 characters"})
	}

	return errs
}

// NormalizeContact trims all fields and lowercases the email, matching what
// gets persisted for every valid submission.
func NormalizeContact(name, email, message string) (string, string, string) {
	return strings.TrimSpace(name),
		strings.ToLower(strings.TrimSpace(email)),
		strings.TrimSpace(message)
}
