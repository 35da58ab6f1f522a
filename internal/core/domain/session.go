package domain

// Session is the server-held authentication state for one signed-in
// user, addressed by the client's session cookie.
type Session struct {
	UserID int64
	Name   string
}
