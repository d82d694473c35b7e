package domain

// User is the identity read from the session token. It is display-only: the
// API is the authority on who the caller is.
type User struct {
	Id    string
	Email Email
}
