// internal/domain/validate.go
package domain

import (
	"regexp"
	"strings"
	"time"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldErrors maps field name to a human-readable message. Validation
// failures never reach the gateway; they are returned to the caller
// as-is.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid record: " + strings.Join(parts, "; ")
}

// Validate applies the submission checks: required name/phone/email,
// email shape, non-negative followers, and a birth year within
// [1920, current year] when one is set. Returns nil when the record
// is acceptable.
func (k KOC) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(k.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(k.Phone) == "" {
		errs["phone"] = "phone is required"
	}
	if strings.TrimSpace(k.Email) == "" {
		errs["email"] = "email is required"
	} else if !emailRe.MatchString(k.Email) {
		errs["email"] = "email is not valid"
	}
	if k.Followers < 0 {
		errs["followers"] = "followers cannot be negative"
	}
	if k.BirthYear != 0 && (k.BirthYear < 1920 || k.BirthYear > time.Now().Year()) {
		errs["birthYear"] = "birth year is out of range"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
