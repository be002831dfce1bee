package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const advisorSeparator = ", "

// AdvisorList is the ordered set of advisor (pembimbing) emails of a class.
// It is stored as ", "-joined text.
type AdvisorList []string

// ParseAdvisorList splits raw on commas, trims entries and drops empties and repeats.
func ParseAdvisorList(raw string) AdvisorList {
	list := AdvisorList{}
	for _, part := range strings.Split(raw, ",") {
		email := strings.TrimSpace(part)
		if email == "" {
			continue
		}
		list = list.With(email)
	}
	return list
}

// Contains reports whether email is an advisor.
func (a AdvisorList) Contains(email string) bool {
	for _, existing := range a {
		if existing == email {
			return true
		}
	}
	return false
}

// With returns the list with email appended when absent.
func (a AdvisorList) With(email string) AdvisorList {
	if email == "" || a.Contains(email) {
		return a
	}
	out := make(AdvisorList, len(a), len(a)+1)
	copy(out, a)
	return append(out, email)
}

// Without returns the list minus the first occurrence of email.
func (a AdvisorList) Without(email string) AdvisorList {
	out := make(AdvisorList, 0, len(a))
	removed := false
	for _, existing := range a {
		if !removed && existing == email {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	return out
}

// String renders the stored form.
func (a AdvisorList) String() string {
	return strings.Join(a, advisorSeparator)
}

// Value implements driver.Valuer.
func (a AdvisorList) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *AdvisorList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = AdvisorList{}
	case string:
		*a = ParseAdvisorList(v)
	case []byte:
		*a = ParseAdvisorList(string(v))
	default:
		return fmt.Errorf("scan advisor list: unsupported type %T", src)
	}
	return nil
}

// MarshalText renders the list as text so JSON payloads keep the legacy string shape.
func (a AdvisorList) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses the legacy string shape.
func (a *AdvisorList) UnmarshalText(text []byte) error {
	*a = ParseAdvisorList(string(text))
	return nil
}
