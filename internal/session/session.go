package session

// session.go defines the client-held session and the storage contract.
// One session exists at a time; saving a new one overwrites the old.

import "errors"

// UserType identifies which role the session was issued for.
type UserType string

const (
	UserTypeFarmer UserType = "Farmer"
	UserTypeBuyer  UserType = "Buyer"
	UserTypeAdmin  UserType = "Admin"
)

// Valid reports whether t is one of the three known roles.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeFarmer, UserTypeBuyer, UserTypeAdmin:
		return true
	}
	return false
}

// Session is the client's proof of authentication plus the cached
// profile fields pages need without another round trip. The token is
// opaque: it is attached to requests verbatim and never parsed, so
// expiry is only ever discovered through a 401.
type Session struct {
	Token       string   `json:"token"`
	UserID      int64    `json:"user_id"`
	UserType    UserType `json:"user_type"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
}

var ErrInvalidSession = errors.New("session is missing a token or user type")

// Store persists at most one session. Read returns (nil, nil) when no
// session is stored so callers can distinguish "absent" from failure.
type Store interface {
	Save(s Session) error
	Read() (*Session, error)
	Clear() error
	IsActive() bool
}
