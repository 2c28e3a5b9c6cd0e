package models

import "github.com/golang-jwt/jwt/v5"

// UserRole identifies what an authenticated caller may do.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleCoordenador  UserRole = "COORDENADOR"
	RoleVisualizador UserRole = "VISUALIZADOR"
)

// JWTClaims represents the JWT payload issued by the identity provider.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Nome   string   `json:"nome"`
	jwt.RegisteredClaims
}
