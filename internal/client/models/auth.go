package models

// AdminUser is the account returned by the login endpoints.
type AdminUser struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// LoginResponse is the body of POST /auth/admin/login. Older backends put the
// account under "admin", newer ones under "user".
type LoginResponse struct {
	AccessToken   string     `json:"accessToken"`
	RefreshToken  string     `json:"refreshToken"`
	Admin         *AdminUser `json:"admin,omitempty"`
	User          *AdminUser `json:"user,omitempty"`
	TwoFARequired bool       `json:"twofaRequired"`
	TwoFAToken    string     `json:"twofaToken,omitempty"`
}

// Account returns whichever of Admin or User is set.
func (r LoginResponse) Account() *AdminUser {
	if r.Admin != nil {
		return r.Admin
	}
	return r.User
}

// VerifyTwoFARequest is the body of POST /auth/admin/verify-login-2fa.
type VerifyTwoFARequest struct {
	Token      string `json:"token"`
	TwoFAToken string `json:"twofaToken"`
}

// TokenPair is the body returned by POST /admin/auth/refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult tells the caller whether the second factor is still pending.
type LoginResult struct {
	TwoFARequired bool
	TwoFAToken    string
	User          *AdminUser
}

// Me is the body of GET /auth/me.
type Me struct {
	ID           ID     `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// UpdateAccountRequest is the body of PUT /auth/admin/update. Empty fields
// are left unchanged by the backend.
type UpdateAccountRequest struct {
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}
