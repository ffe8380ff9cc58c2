package model

// SessionStore keeps the single current identity. Load returns (nil, nil)
// when nobody is logged in.
type SessionStore interface {
	Save(user *User) error
	Load() (*User, error)
	Clear() error
}
