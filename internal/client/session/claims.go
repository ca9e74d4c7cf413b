package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the console shows about the current access token. The
// signature is not verified; the backend does that on every request.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed at now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Claims decodes the current access token.
func (m *Manager) Claims() (Claims, error) {
	token := m.AccessToken()
	if token == "" {
		return Claims{}, ErrNotLoggedIn
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode access token: %w", err)
	}

	var out Claims
	out.Subject, _ = mc.GetSubject()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if role, ok := mc["role"].(string); ok {
		out.Role = role
	}
	if out.Subject == "" {
		if id, ok := mc["id"].(float64); ok {
			out.Subject = fmt.Sprintf("%.0f", id)
		}
	}
	return out, nil
}
