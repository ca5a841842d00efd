package models

// User is the signed-in user's profile as stored in the session.
//
// Only Email is guaranteed: when GET /auth/me fails right after login the
// client falls back to a profile that carries nothing else.
type User struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	GroupID *int64 `json:"group_id,omitempty"`
}

// DisplayName prefers the name and falls back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Credentials are sent to POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is sent to POST /auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// ProfileUpdate is sent to PUT /users/{id}.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordChange is sent to POST /users/{id}/change-password.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
