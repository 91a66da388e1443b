package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity encoded in access tokens.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// LoginRequest is the POST /sessions payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
