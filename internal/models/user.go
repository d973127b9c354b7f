package models

// User is a credential record stored in users.json, keyed by username.
type User struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Password    string  `json:"password"` // bcrypt hash
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	LastLoginAt *string `json:"lastLoginAt"`
}

// PublicUser is the profile shape safe to return to clients.
type PublicUser struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	CreatedAt   string  `json:"createdAt"`
	LastLoginAt *string `json:"lastLoginAt"`
}

// Public projects the credential record to its client-safe shape.
func (u *User) Public() PublicUser {
	return PublicUser{
		Username:    u.Username,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
