package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNameLen      = 255
	maxRoleNameLen  = 64
	minPasswordLen  = 8
	maxPasswordSize = 72 // bcrypt ignores anything past 72 bytes
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkText(f fieldErrors, field, value string, max int) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		f.add(field, "is required")
	case utf8.RuneCountInString(value) > max:
		f.add(field, "is too long")
	}
	return value
}

func checkEmail(f fieldErrors, field, value string) string {
	value = normalizeEmail(value)
	if value == "" {
		f.add(field, "is required")
	} else if len(value) > maxNameLen || !emailRe.MatchString(value) {
		f.add(field, "is not a valid email")
	}
	return value
}

func checkPassword(f fieldErrors, pw string) {
	switch {
	case utf8.RuneCountInString(pw) < minPasswordLen:
		f.add("password", "must be at least 8 characters")
	case len(pw) > maxPasswordSize:
		f.add("password", "must be at most 72 bytes")
	case !strings.ContainsFunc(pw, unicode.IsUpper):
		f.add("password", "must contain an uppercase letter")
	}
}

func checkID(f fieldErrors, field, value string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		f.add(field, "is not a valid id")
	}
	return id
}

// checkOptionalID treats nil and "" as absent.
func checkOptionalID(f fieldErrors, field string, value *string) *uuid.UUID {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		f.add(field, "is not a valid id")
		return nil
	}
	return &id
}
