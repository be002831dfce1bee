package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller passed explicitly into every operation.
type Identity struct {
	Email       string   `json:"email"`
	Name        string   `json:"nama"`
	Role        UserRole `json:"peran"`
	Institution string   `json:"instansi"`
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Profile     string   `form:"profile" json:"profile"`
	Name        string   `form:"nama" json:"nama" validate:"required"`
	Email       string   `form:"email" json:"email" validate:"required,email"`
	Password    string   `form:"password" json:"password" validate:"required,min=6"`
	Role        UserRole `form:"peran" json:"peran" validate:"required,oneof=GURU SISWA"`
	Level       string   `form:"jenjang" json:"jenjang" validate:"required"`
	Institution string   `form:"instansi" json:"instansi" validate:"required"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo describes a user in responses.
type UserInfo struct {
	Name  string   `json:"nama"`
	Email string   `json:"email"`
	Role  UserRole `json:"peran"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email       string   `json:"email"`
	Name        string   `json:"nama"`
	Role        UserRole `json:"peran"`
	Institution string   `json:"instansi"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the caller identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{Email: c.Email, Name: c.Name, Role: c.Role, Institution: c.Institution}
}
