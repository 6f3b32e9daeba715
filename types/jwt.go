package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims carried by access tokens. Role and
// superuser travel in the token so the dashboard can branch without an
// extra round trip, mirroring what the login response reports.
type Claims struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}
