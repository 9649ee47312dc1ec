package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/staffsync/staffsync-backend/internal"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/user"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims are carried by both token kinds; Type tells them apart and the
// registered ID is the jti used for revocation.
type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	User         user.User `json:"user"`
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(u *userDatamodel.User) (string, error)
	GenerateRefreshToken(u *userDatamodel.User) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
	AccessTTL() time.Duration
}

// RevocationStore remembers revoked token ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Registration is everything signup persists atomically.
type Registration struct {
	User     *userDatamodel.User
	Employee *employeeDatamodel.Employee
}

type RepositoryAPI interface {
	FindUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*userDatamodel.User, error)
	FindEmployeeID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, reg *Registration, today time.Time) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*AuthTokens, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*coreuser.Principal, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	now                func() time.Time
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) AccessTTL() time.Duration {
	return j.AccessTokenTTL
}

func (j *JWTTokenGenerator) GenerateAccessToken(u *userDatamodel.User) (string, error) {
	return j.sign(u, TokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(u *userDatamodel.User) (string, error) {
	return j.sign(u, TokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(u *userDatamodel.User, typ TokenType, ttl time.Duration, secret []byte) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   u.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(token string) (*Claims, error) {
	return j.validate(token, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(token string) (*Claims, error) {
	return j.validate(token, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString string, want TokenType, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != want || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// remaining is how long the token stays valid, used as the revocation TTL.
func (c *Claims) remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// MemoryRevocationStore is used when no redis URL is configured. Revocations
// do not survive a restart or span instances.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	m.revoked[jti] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(m.now()) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}

// ObservedRevocationStore reports each lookup outcome to observe.
type ObservedRevocationStore struct {
	RevocationStore
	observe func(revoked bool, err error)
}

func NewObservedRevocationStore(store RevocationStore, observe func(revoked bool, err error)) *ObservedRevocationStore {
	return &ObservedRevocationStore{RevocationStore: store, observe: observe}
}

func (o *ObservedRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := o.RevocationStore.IsRevoked(ctx, jti)
	o.observe(revoked, err)
	return revoked, err
}
