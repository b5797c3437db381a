package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/storefront-backend/internal/users"
	pkgAuth "github.com/openshelf/storefront-backend/pkg/auth"
	"github.com/openshelf/storefront-backend/pkg/config"
	pkgmodels "github.com/openshelf/storefront-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/storefront-backend/pkg/errors"
	"github.com/openshelf/storefront-backend/pkg/security"
)

type stubUserRepository struct {
	data      map[string]*pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{data: map[string]*pkgmodels.User{}}
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.data[dto.Email]; exists {
		return nil, errors.New("UNIQUE constraint failed: users.email")
	}
	user := &pkgmodels.User{
		ID:           uuid.New(),
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
	}
	s.data[dto.Email] = user
	return user, nil
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.data[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *stubUserRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16},
		JWTConfig:      config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 60},
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func TestRegisterIssuesTokenForNewUser(t *testing.T) {
	repo := newStubUserRepository()
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "super-secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("unexpected user payload %+v", resp.User)
	}
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}

	claims, err := pkgAuth.ParseAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "storefront", ExpirationMinutes: 60}, resp.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("token username mismatch: %q", claims.Username)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("token user id mismatch")
	}
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	repo := newStubUserRepository()
	svc := newTestService(t, repo)

	first := RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "super-secret"}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), first)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appErr.Message() != duplicateAccountMessage {
		t.Fatalf("unexpected message %q", appErr.Message())
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	repo := newStubUserRepository()
	svc := newTestService(t, repo)

	hash, err := security.HashPassword("correct-horse", config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo.data["carol@example.com"] = &pkgmodels.User{
		ID:           uuid.New(),
		Username:     "carol",
		Email:        "carol@example.com",
		PasswordHash: hash,
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" || resp.User.Username != "carol" {
		t.Fatalf("unexpected response %+v", resp)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "wrong"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if appErr.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message %q", appErr.Message())
	}
}

func TestLoginUnknownEmailReturnsUnauthorized(t *testing.T) {
	repo := newStubUserRepository()
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
