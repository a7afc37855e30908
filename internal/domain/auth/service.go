package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/database"
	"jobtracker/internal/middleware"
	"jobtracker/internal/pkg/jwt"
	"jobtracker/internal/pkg/validator"
)

// dummyHash is compared against when the email is unknown so that signin
// takes the same time either way.
var dummyHash, _ = HashPassword("jobtracker-timing-equalizer")

type Service struct {
	repo   Repository
	tokens *jwt.Service
	now    func() time.Time
}

var _ middleware.AuthVerifier = (*Service)(nil)

func NewService(repo Repository, tokens *jwt.Service) *Service {
	return &Service{repo: repo, tokens: tokens, now: database.Now}
}

// Signup registers a new user. Emails are compared case-insensitively.
func (s *Service) Signup(ctx context.Context, req CredentialsRequest) (*User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Check(&req); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Signin checks the credentials and issues a bearer token.
func (s *Service) Signin(ctx context.Context, req CredentialsRequest) (*TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		_ = CheckPassword(req.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

// Signout revokes the caller's token until it expires.
func (s *Service) Signout(ctx context.Context, p *middleware.Principal) error {
	return s.repo.Revoke(ctx, &RevokedToken{
		JTI:       p.TokenID,
		UserID:    p.UserID,
		ExpiresAt: p.ExpiresAt,
		RevokedAt: s.now(),
	})
}

// Verify implements middleware.AuthVerifier. Token problems wrap
// apperr.ErrUnauthorized; anything else is a storage failure.
func (s *Service) Verify(ctx context.Context, token string) (*middleware.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.repo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	if _, err := s.repo.GetUserByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errUnknownUser
		}
		return nil, err
	}

	p := &middleware.Principal{
		UserID:  claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return p, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// PruneRevoked drops revocations for tokens that have expired.
func (s *Service) PruneRevoked(ctx context.Context) (int64, error) {
	return s.repo.PruneRevoked(ctx, s.now())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
