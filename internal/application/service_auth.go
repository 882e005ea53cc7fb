package application

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

// Register creates an account with the default medium trust score and returns
// a signed bearer token. Duplicate emails surface as conflicts.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return AuthResponse{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(req.Password) < 8 {
		return AuthResponse{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.IsValidRole(role) {
		role = domain.RoleCreator
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		TrustScore:   domain.DefaultTrustScore,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		return AuthResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: userView(user)}, nil
}

// Login validates credentials and account status and returns a fresh token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthResponse{}, domain.ErrInvalidCredentials
	}
	if user.Status == domain.UserStatusBanned {
		return AuthResponse{}, domain.ErrAccountBanned
	}

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: userView(user)}, nil
}

// Authenticate resolves a raw bearer token into a Principal. The HTTP adapter
// calls this once per request; core code trusts the resulting principal.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (domain.Principal, error) {
	claims, err := s.tokenSigner.ParseAndValidate(rawToken)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{
		UserID:     user.UserID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		TrustScore: user.TrustScore,
		Status:     user.Status,
	}, nil
}

// Me returns the caller's own profile projection.
func (s *Service) Me(ctx context.Context, principal domain.Principal) (UserView, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return UserView{}, err
	}
	return userView(user), nil
}

func (s *Service) issueToken(user domain.User) (string, error) {
	now := s.nowFn()
	token, err := s.tokenSigner.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return email, nil
}
