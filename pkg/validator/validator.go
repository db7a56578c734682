// Package validator holds the format rules for incoming fields and a Validator
// that accumulates field errors.
//
// Format checks are nil tolerant: a nil value is valid and presence is
// enforced separately with NotBlank.
package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"library_service/pkg/apperr"
)

var (
	EmailRX      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
	PhoneRX      = regexp.MustCompile(`^[0-9]{9,12}$`)
	PostalCodeRX = regexp.MustCompile(`^\d{5}$`)

	digitRX  = regexp.MustCompile(`\d`)
	letterRX = regexp.MustCompile(`[A-Za-z]`)
)

const (
	PasswordMinLength = 6
	PasswordMaxLength = 20
	// A description needs more than this many words.
	DescriptionMinWords = 3
)

func Email(value *string) bool {
	return value == nil || EmailRX.MatchString(*value)
}

// Password requires at least one digit and one letter, 6 to 20 characters.
func Password(value *string) bool {
	if value == nil {
		return true
	}
	n := utf8.RuneCountInString(*value)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return false
	}
	return digitRX.MatchString(*value) && letterRX.MatchString(*value)
}

func Phone(value *string) bool {
	return value == nil || PhoneRX.MatchString(*value)
}

func PostalCode(value *string) bool {
	return value == nil || PostalCodeRX.MatchString(*value)
}

func Description(value *string) bool {
	return value == nil || len(strings.Fields(*value)) > DescriptionMinWords
}

func NotBlank(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}

// Validator collects field errors in the order they were found. Only the first
// error per field is kept.
type Validator struct {
	Errors []apperr.FieldError
	seen   map[string]bool
}

func New() *Validator {
	return &Validator{seen: make(map[string]bool)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if v.seen[field] {
		return
	}
	v.seen[field] = true
	v.Errors = append(v.Errors, apperr.FieldError{Field: field, Message: message})
}

// Check records message for field when ok is false:
//
//	v.Check(pages > 0, "pages", "must be positive")
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when valid, an InvalidInput error with all field errors otherwise.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return apperr.Validation(v.Errors)
}

func (v *Validator) Required(value *string, field string) {
	v.Check(NotBlank(value), field, "must not be blank")
}

func (v *Validator) Email(value *string, field string) {
	v.Check(Email(value), field, "must be a well-formed email address")
}

func (v *Validator) Password(value *string, field string) {
	v.Check(Password(value), field, "must be 6-20 characters with at least one digit and one letter")
}

func (v *Validator) Phone(value *string, field string) {
	v.Check(Phone(value), field, "must contain 9 to 12 digits")
}

func (v *Validator) PostalCode(value *string, field string) {
	v.Check(PostalCode(value), field, "must contain exactly 5 digits")
}

func (v *Validator) Description(value *string, field string) {
	v.Check(Description(value), field, "must contain more than 3 words")
}
