package domain

import "time"

// User is the snapshot of a user record taken before the record is removed.
// Optional fields are nil when the record does not carry them.
type User struct {
	UID      int64
	Username string
	UserSlug string
	Email    *string
	Fullname *string
	JoinDate time.Time

	// Fields holds the raw record as read from the store.
	Fields map[string]string
}

func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}

func (u *User) HasFullname() bool {
	return u.Fullname != nil && *u.Fullname != ""
}
