package dto

import "strings"

// LoginRequest accepts JSON or form-encoded credentials. The login
// identifier may arrive under either the "email" or "identifier" key.
type LoginRequest struct {
	Email      string `json:"email" form:"email"`
	Identifier string `json:"identifier" form:"identifier"`
	Password   string `json:"password" form:"password"`
}

// IdentifierValue normalizes the two accepted identifier keys into one
// trimmed value.
func (r *LoginRequest) IdentifierValue() string {
	if v := strings.TrimSpace(r.Identifier); v != "" {
		return v
	}
	return strings.TrimSpace(r.Email)
}

// RegisterRequest accepts JSON or form-encoded registration input.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

// AuthResponse is the uniform body for login and registration results.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}
