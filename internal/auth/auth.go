package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated actor attached to every request context. It is
// loaded fresh from storage by the auth middleware so role changes take
// effect on the next request.
type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsAdmin    bool   `json:"is_admin"`
	Department string `json:"department,omitempty"`
	IsActive   bool   `json:"is_active"`
}

// IsAdministrator is the single derived admin check. Storage carries both a
// role column and a legacy is_admin flag; either one grants admin rights.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdmin || u.IsAdmin
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// CanSearchAllActivities reports whether the user may view activities beyond
// the ones they created or are assigned to.
func (u *User) CanSearchAllActivities() bool {
	return u.IsAdministrator() || u.IsManager()
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// ServiceAPI performs authentication-related business logic.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

// RepositoryAPI is the storage contract the auth service depends on.
type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (passwordHash string, userID int64, err error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
}
