package domain

import (
	"regexp"
	"strings"
)

// emailPattern local-part, @, домен с точкой, без пробелов
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Member участник спортивного центра
type Member struct {
	ID     int64
	Name   string
	Email  string
	Active bool
}

// IsPersisted returns true if the member has already been stored
func (m *Member) IsPersisted() bool {
	return m.ID != 0
}

// HasEmail returns true if the member has a non-blank email
func (m *Member) HasEmail() bool {
	return strings.TrimSpace(m.Email) != ""
}

// IsValidEmail проверяет синтаксис email
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
