package member

import (
	"net/url"
	"strings"
	"time"
)

const (
	// UnknownName marks a row whose name column was absent or empty.
	UnknownName = "Unknown Name"
	// DefaultRole is used when the participation role column is empty.
	DefaultRole = "مشارك"
)

// Member is the normalized directory entry shown on a card.
type Member struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	NationalID  string `json:"nationalId"`
	BirthDate   string `json:"birthDate"`
	PhoneNumber string `json:"phoneNumber"`
	PhotoURL    string `json:"photoUrl"`
	Region      string `json:"region"`
	University  string `json:"university"`
	Role        string `json:"role"`
}

// Collection is the result of one successful file load. It replaces any
// previous collection and is never mutated afterwards.
type Collection struct {
	ID          string
	SourceFile  string
	LoadedAt    time.Time
	RowsRead    int
	RowsSkipped int
	Members     []Member
}

// Len reports the number of retained members.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Members)
}

// AvatarURL builds the placeholder avatar used when a photo is missing or
// fails to load in the browser.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return "https://ui-avatars.com/api/?name=" + escaped + "&background=random&size=256"
}

// PhotoOrAvatar returns the member photo, or the generated avatar when no
// photo URL is present.
func (m Member) PhotoOrAvatar() string {
	if m.PhotoURL != "" {
		return m.PhotoURL
	}
	return AvatarURL(m.FullName)
}
