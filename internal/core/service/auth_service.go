package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
	"github.com/techzone/storefront-api/internal/pkg/metrics"
)

// Password limits. bcrypt ignores everything past 72 bytes, so longer
// secrets are refused rather than silently truncated.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// TokenIssuer mints bearer tokens for a principal.
type TokenIssuer interface {
	Issue(principalID string) (string, time.Time, error)
}

// AuthService implements registration, login and staff provisioning.
type AuthService struct {
	repo     ports.UserRepository
	tokens   TokenIssuer
	sanitize *bluemonday.Policy
	log      zerolog.Logger
	cost     int
	now      func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		sanitize: bluemonday.StrictPolicy(),
		log:      log,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// Register creates a User account and signs it in on the user channel.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	user, err := s.create(ctx, domain.RoleUser, in)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// Provision creates an Admin or Manager. There is no self-registration for
// staff; the caller is expected to sit behind the admin guard.
func (s *AuthService) Provision(ctx context.Context, role domain.Role, in ports.RegisterInput) (*domain.User, error) {
	switch role {
	case domain.RoleAdmin:
		in.Department = ""
	case domain.RoleManager:
		if strings.TrimSpace(in.Department) == "" {
			return nil, fmt.Errorf("%w: department is required for managers", domain.ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: cannot provision role %q", domain.ErrInvalidArgument, role)
	}

	user, err := s.create(ctx, role, in)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("staff account provisioned")
	return user, nil
}

func (s *AuthService) create(ctx context.Context, role domain.Role, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(s.sanitize.Sanitize(in.Username))
	email := domain.NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if username == "" || email == "" || phone == "" || in.DateOfBirth.IsZero() || in.Password == "" {
		return nil, fmt.Errorf("%w: please fill full form", domain.ErrInvalidArgument)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// Cheap pre-check; the unique index on email is what actually enforces it.
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		DateOfBirth:  in.DateOfBirth.UTC(),
		Role:         role,
		Department:   strings.TrimSpace(s.sanitize.Sanitize(in.Department)),
		Avatar:       in.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login checks credentials and the requested role against the stored
// record, then issues a token for the channel of that role.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (sess *ports.Session, err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		metrics.LoginsTotal.WithLabelValues(string(in.Role), result).Inc()
	}()

	if in.Email == "" || in.Password == "" || in.ConfirmPassword == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: please fill full form", domain.ErrInvalidArgument)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: password and confirm password do not match", domain.ErrInvalidArgument)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, in.Role)
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != in.Role {
		return nil, domain.ErrRoleMismatch
	}

	token, exp, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return &ports.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// ListByRole returns every principal holding role.
func (s *AuthService) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	return s.repo.ListByRole(ctx, role)
}

// Delete removes the principal id only if it holds role. Tokens it already
// holds stop working on the next request because guards re-read the record.
func (s *AuthService) Delete(ctx context.Context, id string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	if err := s.repo.DeleteByIDAndRole(ctx, id, role); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("role", string(role)).Msg("account deleted")
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must contain at least %d characters", domain.ErrInvalidArgument, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must contain at most %d bytes", domain.ErrInvalidArgument, MaxPasswordLength)
	}
	return nil
}
