package domain

import (
	"strings"
	"time"
)

// Role is derived from the admin markers collection, never stored on
// the identity itself. Absence from the collection means RoleUser.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is what the identity provider asserts about the caller.
// Read-only to this service.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (i Identity) Authenticated() bool { return i.UID != "" }

// Session carries the authenticated identity plus its resolved role and
// is passed explicitly into every service call.
type Session struct {
	Identity Identity `json:"identity"`
	Role     Role     `json:"role"`
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type Crop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Season      string    `json:"season"`
	Location    string    `json:"location"`
	Pesticides  string    `json:"pesticides"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Scheme struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Provider    string    `json:"provider"`
	Eligibility string    `json:"eligibility"`
	Benefits    string    `json:"benefits"`
	Deadline    string    `json:"deadline"` // ISO calendar date, e.g. 2026-03-31
	CreatedAt   time.Time `json:"created_at"`
}

type GrantStatus string

const (
	StatusPending  GrantStatus = "pending"
	StatusApproved GrantStatus = "approved"
	StatusRejected GrantStatus = "rejected"
)

// Terminal reports whether no further status transition is allowed.
func (s GrantStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// GrantApplication is a user's request to be considered for a scheme.
// SchemeTitle, UserName and UserEmail are snapshots taken when the
// application is created and deliberately never refreshed.
type GrantApplication struct {
	ID          string      `json:"id"`
	SchemeID    string      `json:"scheme_id"`
	SchemeTitle string      `json:"scheme_title"`
	UserID      string      `json:"user_id"`
	UserName    string      `json:"user_name"`
	UserEmail   string      `json:"user_email"`
	Status      GrantStatus `json:"status"`
	AppliedAt   time.Time   `json:"applied_at"`
	Notes       string      `json:"notes"`
}

const grantIDSeparator = ":"

// GrantID builds the deterministic application identifier from its
// owner and scheme. One user, one scheme, one application: the store
// rejects a second create under the same id.
func GrantID(userID, schemeID string) string {
	return userID + grantIDSeparator + schemeID
}

// SplitGrantID recovers the owner and scheme from an application id.
func SplitGrantID(id string) (userID, schemeID string, err error) {
	userID, schemeID, ok := strings.Cut(id, grantIDSeparator)
	if !ok || userID == "" || schemeID == "" {
		return "", "", ErrInvalidInput
	}
	return userID, schemeID, nil
}
