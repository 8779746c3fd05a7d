package domain

// User is a registered chat user. Re-registration overwrites the name.
type User struct {
	UserID string
	Name   string
}
