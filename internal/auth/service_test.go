package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/internal/accounts"
	pkgAuth "github.com/farm2home/farm2home-backend/pkg/auth"
	"github.com/farm2home/farm2home-backend/pkg/config"
	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
	pkgerrors "github.com/farm2home/farm2home-backend/pkg/errors"
	"github.com/farm2home/farm2home-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "farm2home",
		ExpirationMinutes: 10080,
	}
}

func TestServiceLoginByEmail(t *testing.T) {
	password := "harvest-time"
	account := &models.Account{
		ID:           uuid.New(),
		Name:         "Rosa Martins",
		Email:        "rosa@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.AccountRoleFarmer,
	}
	cfg := testJWTConfig()

	svc, err := NewService(ServiceParams{
		AccountRepo: &stubAccountRepo{account: account},
		JWTConfig:   cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Identifier: "Rosa@Example.com",
		Password:   password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Subject != account.ID.String() {
		t.Fatalf("expected subject %s, got %s", account.ID, claims.Subject)
	}
	if claims.Role != enums.AccountRoleFarmer {
		t.Fatalf("expected farmer role claim, got %s", claims.Role)
	}
	if resp.Account == nil || resp.Account.Email != account.Email {
		t.Fatalf("expected account payload, got %+v", resp.Account)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	account := &models.Account{
		ID:           uuid.New(),
		Name:         "Rosa Martins",
		Email:        "rosa@example.com",
		PasswordHash: mustHashPassword(t, "correct-password"),
		Role:         enums.AccountRoleClient,
	}

	svc, err := NewService(ServiceParams{
		AccountRepo: &stubAccountRepo{account: account},
		JWTConfig:   testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Identifier: account.Email,
		Password:   "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "invalid credentials" {
		t.Fatalf("expected generic message, got %q", typed.Message())
	}
}

func TestServiceLoginUnknownIdentifierSameMessage(t *testing.T) {
	svc, err := NewService(ServiceParams{
		AccountRepo: &stubAccountRepo{},
		JWTConfig:   testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Identifier: "ghost@example.com",
		Password:   "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "invalid credentials" {
		t.Fatalf("account enumeration: message %q differs", typed.Message())
	}
}

func TestServiceUpdateProfileIgnoresMissingFields(t *testing.T) {
	account := &models.Account{
		ID:   uuid.New(),
		Name: "Old Name",
		Role: enums.AccountRoleClient,
	}
	repo := &stubAccountRepo{account: account}

	svc, err := NewService(ServiceParams{AccountRepo: repo, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	name := "New Name"
	_, err = svc.UpdateProfile(context.Background(), account.ID, UpdateProfileRequest{Name: &name})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if repo.lastPatch.Name == nil || *repo.lastPatch.Name != "New Name" {
		t.Fatalf("expected name in patch, got %+v", repo.lastPatch)
	}
	if repo.lastPatch.Phone != nil || repo.lastPatch.FarmName != nil {
		t.Fatalf("expected untouched fields to stay nil, got %+v", repo.lastPatch)
	}
}

func TestServiceUpdateProfileRejectsBlankName(t *testing.T) {
	svc, err := NewService(ServiceParams{
		AccountRepo: &stubAccountRepo{},
		JWTConfig:   testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	blank := "   "
	_, err = svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Name: &blank})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubAccountRepo struct {
	account   *models.Account
	lastPatch accounts.ProfilePatch
}

func (s *stubAccountRepo) FindByIdentifier(_ context.Context, identifier string) (*models.Account, error) {
	if s.account == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if strings.EqualFold(identifier, s.account.Email) {
		return s.account, nil
	}
	if s.account.Username != nil && identifier == *s.account.Username {
		return s.account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.account, nil
}

func (s *stubAccountRepo) UpdateProfile(_ context.Context, id uuid.UUID, patch accounts.ProfilePatch) (*models.Account, error) {
	s.lastPatch = patch
	if s.account == nil || s.account.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.Name != nil {
		s.account.Name = *patch.Name
	}
	return s.account, nil
}
