// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		email, passwordHash string,
		isAdmin bool,
	) (*UserInfo, error)
}

type Service struct {
	repo         Repository
	userProvider UserProvider
	tx           core.Transactor
	metrics      *core.Metrics
	cfg          config.AuthConfig
	now          func() time.Time
}

func NewService(
	repo Repository,
	userProvider UserProvider,
	tx core.Transactor,
	metrics *core.Metrics,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		repo:         repo,
		userProvider: userProvider,
		tx:           tx,
		metrics:      metrics,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the account and its first token pair in one
// transaction. A concurrent duplicate surfaces as ErrEmailExists through
// the unique index.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*TokenResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var resp *TokenResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.userProvider.EmailExists(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrEmailExists
		}

		user, err := s.userProvider.Create(ctx, req.Email, passwordHash, req.IsAdmin)
		if err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return ErrEmailExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		resp, err = s.issuePair(ctx, user.ID)
		return err
	})
	if err != nil {
		s.metrics.RecordAuth("register", "failure")
		return nil, err
	}

	s.metrics.RecordAuth("register", "success")
	return resp, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.metrics.RecordAuth("login", "failure")
		return nil, err
	}

	resp, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAuth("login", "success")
	return resp, nil
}

// Authenticate checks credentials without issuing tokens. Unknown emails
// still pay for one hash verification.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*UserInfo, error) {
	user, err := s.userProvider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// AuthenticateAdmin is the console login. Non-admin accounts are reported
// exactly like wrong passwords.
func (s *Service) AuthenticateAdmin(
	ctx context.Context,
	email, password string,
) (*core.Principal, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.metrics.RecordAuth("console_login", "failure")
		return nil, err
	}

	if !user.IsAdmin {
		s.metrics.RecordAuth("console_login", "failure")
		return nil, ErrInvalidCredentials
	}

	s.metrics.RecordAuth("console_login", "success")
	return &core.Principal{ID: user.ID, Email: user.Email, IsAdmin: true}, nil
}

// Refresh consumes the pair holding refreshToken and issues a new one. The
// consumed row carries the old access token too, so it stops working.
// Expired refresh tokens are rejected and left in place.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	var resp *TokenResponse
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stored, err := s.repo.FindByRefreshHash(ctx, core.HashToken(refreshToken))
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
			}
			return fmt.Errorf("find token: %w", err)
		}

		if stored.IsExpired(s.now()) {
			return fmt.Errorf("refresh: %w", core.ErrTokenExpired)
		}

		if err := s.repo.DeleteByID(ctx, stored.ID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
			}
			return fmt.Errorf("consume token: %w", err)
		}

		resp, err = s.issuePair(ctx, stored.UserID)
		return err
	})
	if err != nil {
		s.metrics.RecordAuth("refresh", "failure")
		return nil, err
	}

	s.metrics.RecordAuth("refresh", "success")
	return resp, nil
}

func (s *Service) Logout(ctx context.Context, accessToken string) error {
	deleted, err := s.repo.DeleteByAccessHash(ctx, core.HashToken(accessToken))
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("logout: %w", core.ErrTokenInvalid)
	}

	s.metrics.RecordAuth("logout", "success")
	return nil
}

// VerifyAccessToken resolves a bearer string to its owner. Access tokens
// carry no expiry of their own; they live until logout or refresh.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	accessToken string,
) (*core.Principal, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	principal, err := s.repo.FindPrincipalByAccessHash(
		ctx,
		core.HashToken(accessToken),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return principal, nil
}

func (s *Service) issuePair(
	ctx context.Context,
	userID string,
) (*TokenResponse, error) {
	accessToken, err := core.GenerateSecureToken(s.cfg.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := core.GenerateSecureToken(s.cfg.TokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := s.now()
	token := &Token{
		ID:               uuid.New().String(),
		UserID:           userID,
		AccessTokenHash:  core.HashToken(accessToken),
		RefreshTokenHash: core.HashToken(refreshToken),
		ExpiresAt:        now.Add(s.cfg.RefreshTokenExpire),
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		RefreshExpiresAt: token.ExpiresAt,
	}, nil
}
