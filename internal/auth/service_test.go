package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/internal/users"
	pkgAuth "github.com/temankemah/temankemah-backend/pkg/auth"
	"github.com/temankemah/temankemah-backend/pkg/config"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/enums"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if _, exists := f.byEmail[dto.Email]; exists {
		return nil, gorm.ErrDuplicatedKey
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		Name:         dto.Name,
		Role:         enums.UserRoleUser,
	}
	f.byEmail[dto.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwt := config.JWTConfig{Secret: "test-secret", Issuer: "temankemah-test", ExpirationMinutes: 60}
	pw := config.PasswordConfig{ArgonMemoryKB: 16, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
	return jwt, pw
}

func newTestService(t *testing.T, repo userRepository) Service {
	t.Helper()
	jwt, pw := testConfigs()
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: jwt, PasswordConfig: pw})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{
		Name:     "Budi Santoso",
		Email:    "Budi@TemanKemah.ID",
		Password: "rahasia-gunung",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.User.Email != "budi@temankemah.id" {
		t.Fatalf("expected lowercased email, got %s", reg.User.Email)
	}
	if reg.AccessToken == "" {
		t.Fatal("expected access token")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "budi@temankemah.id", Password: "rahasia-gunung"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	jwt, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwt, login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Fatalf("token subject mismatch: %s vs %s", claims.UserID, reg.User.ID)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Name: "Budi", Email: "budi@temankemah.id", Password: "rahasia-gunung"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(ctx, LoginRequest{Email: "budi@temankemah.id", Password: "salah"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@temankemah.id", Password: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable: %q", typed.Message())
	}
}

func TestAdminLoginRejectsRegularUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Name: "Budi", Email: "budi@temankemah.id", Password: "rahasia-gunung"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.AdminLogin(ctx, LoginRequest{Email: "budi@temankemah.id", Password: "rahasia-gunung"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginAdmitsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, pw := testConfigs()
	hash, err := security.HashPassword("kunci-admin", pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo.byEmail["admin@temankemah.id"] = &models.User{
		ID:           uuid.New(),
		Email:        "admin@temankemah.id",
		PasswordHash: hash,
		Name:         "Admin",
		Role:         enums.UserRoleAdmin,
	}

	resp, err := svc.AdminLogin(ctx, LoginRequest{Email: "admin@temankemah.id", Password: "kunci-admin"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.User.Role != string(enums.UserRoleAdmin) {
		t.Fatalf("expected admin role, got %s", resp.User.Role)
	}
}
