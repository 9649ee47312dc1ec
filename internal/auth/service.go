package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/core/common/dates"
	employeeDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/staffsync/staffsync-backend/internal/core/datamodel/user"
	"github.com/staffsync/staffsync-backend/internal/core/events"
	coreuser "github.com/staffsync/staffsync-backend/internal/core/user"
	"github.com/staffsync/staffsync-backend/internal/user"
)

const defaultPosition = "Employee"

// Service is the main auth service with dependencies
type Service struct {
	repo        RepositoryAPI
	tokens      TokenGeneratorAPI
	revocations RevocationStore
	publisher   events.Publisher
	bcryptCost  int
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, revocations RevocationStore, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tokens:      tokens,
		revocations: revocations,
		publisher:   publisher,
		bcryptCost:  bcryptCost,
		logger:      logger,
		now:         time.Now,
	}
}

// Signup creates an EMPLOYEE account with its employee record and signs
// the new user in.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*AuthTokens, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if exists {
		return nil, internal.ErrEmailExists
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := s.now().UTC()
	reg := &Registration{
		User: &userDatamodel.User{
			Email:        dto.Email,
			PasswordHash: hash,
			Role:         coreuser.RoleEmployee.String(),
			Name:         dto.Name,
			Phone:        dto.Phone,
			Department:   dto.Department,
			IsActive:     true,
		},
		Employee: &employeeDatamodel.Employee{
			Position: defaultPosition,
			HireDate: dates.DateOf(now),
			Salary:   decimal.Zero,
			Status:   "active",
		},
	}

	if err := s.repo.Register(ctx, reg, now); err != nil {
		return nil, err
	}

	s.logger.Info("employee signed up",
		"user_id", reg.User.ID,
		"employee_id", reg.Employee.ID,
		"employee_code", reg.Employee.EmployeeCode)

	department := ""
	if reg.User.Department != nil {
		department = *reg.User.Department
	}
	if err := s.publisher.Publish(ctx, events.NewEmployeeJoinedEvent(reg.User.ID, reg.Employee.ID, reg.Employee.EmployeeCode, department)); err != nil {
		s.logger.Warn("failed to publish employee joined event", "user_id", reg.User.ID, "error", err)
	}

	return s.issue(reg.User)
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		s.logger.Info("login rejected", "user_id", u.ID, "reason", "password mismatch")
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	return s.issue(u)
}

// Refresh rotates the pair: the presented refresh token is revoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	if err := (RefreshTokenDTO{RefreshToken: refreshToken}).Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	u, err := s.loadActiveUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.remaining(s.now())); err != nil {
		return nil, internal.NewInternalError("failed to rotate refresh token", err)
	}

	return s.issue(u)
}

// Logout revokes the access token and, when given, the refresh token.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.remaining(s.now())); err != nil {
		return internal.NewInternalError("failed to revoke token", err)
	}

	if refreshToken != "" {
		rc, err := s.tokens.ValidateRefreshToken(refreshToken)
		if err != nil {
			return err
		}
		if rc.UserID != claims.UserID {
			return internal.ErrInvalidToken
		}
		if err := s.revocations.Revoke(ctx, rc.ID, rc.remaining(s.now())); err != nil {
			return internal.NewInternalError("failed to revoke token", err)
		}
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves an access token into the caller's principal.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*coreuser.Principal, error) {
	if accessToken == "" {
		return nil, internal.ErrInvalidToken.WithMessage("Missing authorization token")
	}

	claims, err := s.tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	u, err := s.loadActiveUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	role, err := coreuser.ParseRole(u.Role)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	employeeID, err := s.repo.FindEmployeeID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	p := &coreuser.Principal{
		UserID:     u.ID,
		EmployeeID: employeeID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       role,
		TokenID:    claims.ID,
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	return p, nil
}

func (s *Service) checkRevoked(ctx context.Context, jti string) error {
	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		return internal.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return internal.ErrTokenRevoked
	}
	return nil
}

func (s *Service) loadActiveUser(ctx context.Context, claims *Claims) (*userDatamodel.User, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	u, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken.WithMessage("Token subject no longer exists")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

func (s *Service) issue(u *userDatamodel.User) (*AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}
	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		User:         user.FromDataModel(u),
	}, nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
