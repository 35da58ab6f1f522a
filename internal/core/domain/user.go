package domain

type User struct {
	ID           int64   `db:"id"`
	Username     *string `db:"username"`
	Email        *string `db:"email"`
	Name         *string `db:"name"`
	PasswordHash string  `db:"password_hash"`
}

func NewUser(username, email, name *string, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
}

// DisplayName resolves the name shown to the user: name, falling back
// to username, falling back to email.
func (u *User) DisplayName() string {
	for _, field := range []*string{u.Name, u.Username, u.Email} {
		if field != nil && *field != "" {
			return *field
		}
	}
	return ""
}
