package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/audit"
	"resume-analyzer/internal/shared/metrics"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hash string) bool
}

// TokenIssuer mints access tokens.
type TokenIssuer interface {
	Issue(userID, email, name string) (string, error)
	TTL() time.Duration
}

type Service struct {
	Repo   Repo
	Hasher PasswordHasher
	Tokens TokenIssuer
	Audit  *audit.Logger
}

func NewService(repo Repo, hasher PasswordHasher, tokens TokenIssuer, auditLog *audit.Logger) *Service {
	return &Service{Repo: repo, Hasher: hasher, Tokens: tokens, Audit: auditLog}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"max=200"`
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if s == nil || s.Repo == nil || s.Hasher == nil {
		return User{}, errors.New("users service not configured")
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return User{}, errors.New("email and password are required")
	}
	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashed,
		FullName:       strings.TrimSpace(in.FullName),
		AuthProvider:   ProviderPassword,
		IsActive:       true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	s.Audit.RecordBestEffort(ctx, audit.Event{UserID: user.ID, Action: audit.ActionRegister, Resource: "user"})
	return s.Repo.GetByID(ctx, user.ID)
}

// Authenticate checks credentials. Unknown emails and wrong passwords both
// yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil || s.Hasher == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncLogin("invalid")
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !s.Hasher.Verify(password, user.HashedPassword) {
		metrics.IncLogin("invalid")
		s.Audit.RecordBestEffort(ctx, audit.Event{UserID: user.ID, Action: audit.ActionLogin, Status: audit.StatusFailure})
		return User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.IncLogin("inactive")
		return User{}, ErrInactive
	}
	metrics.IncLogin("success")
	s.Audit.RecordBestEffort(ctx, audit.Event{UserID: user.ID, Action: audit.ActionLogin})
	return user, nil
}

// Login authenticates and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return Token{}, err
	}
	return s.IssueToken(user)
}

// IssueToken mints a bearer token for user.
func (s *Service) IssueToken(user User) (Token, error) {
	if s.Tokens == nil {
		return Token{}, errors.New("token issuer not configured")
	}
	access, err := s.Tokens.Issue(user.ID, user.Email, user.FullName)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int(s.Tokens.TTL().Seconds()),
	}, nil
}

// UpsertExternal returns the account for an externally verified email,
// creating one without a password when none exists.
func (s *Service) UpsertExternal(ctx context.Context, email, fullName, provider string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if email == "" {
		return User{}, errors.New("email is required")
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsActive {
			return User{}, ErrInactive
		}
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		AuthProvider: provider,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return s.Repo.GetByEmail(ctx, email)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	s.Audit.RecordBestEffort(ctx, audit.Event{UserID: user.ID, Action: audit.ActionRegister, Resource: provider})
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// AccountActive reports whether userID still names an active, undeleted
// account. Unknown ids are inactive rather than an error.
func (s *Service) AccountActive(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive && user.DeletedAt == nil, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
