package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/internal/users"
	pkgAuth "github.com/temankemah/temankemah-backend/pkg/auth"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/config"
	"github.com/temankemah/temankemah-backend/pkg/enums"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type fakeActivities struct{}

func (fakeActivities) Create(context.Context, uuid.UUID, activities.CreateActivityRequest) (*activities.ActivityDTO, error) {
	return &activities.ActivityDTO{}, nil
}

func (fakeActivities) Get(context.Context, uuid.UUID) (*activities.ActivityDTO, error) {
	return &activities.ActivityDTO{}, nil
}

func (fakeActivities) List(context.Context, activities.ListParams) (*activities.ActivityPage, error) {
	return &activities.ActivityPage{}, nil
}

func (fakeActivities) Update(context.Context, uuid.UUID, uuid.UUID, activities.UpdateActivityRequest) (*activities.ActivityDTO, error) {
	return &activities.ActivityDTO{}, nil
}

func (fakeActivities) Delete(context.Context, uuid.UUID, bool, uuid.UUID) error {
	return nil
}

type fakeUsers struct{}

func (fakeUsers) Get(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (fakeUsers) UpdateProfile(context.Context, uuid.UUID, users.UpdateProfileRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (fakeUsers) AwardExp(context.Context, uuid.UUID, int) error { return nil }

func (fakeUsers) List(context.Context) ([]users.UserDTO, error) { return nil, nil }

func (fakeUsers) Delete(context.Context, uuid.UUID) error { return nil }

type fakeSigner struct{}

func (fakeSigner) SignUpload(at time.Time) cdn.UploadSignature {
	return cdn.UploadSignature{Signature: "sig", Timestamp: at.Unix()}
}

func routerFixture(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "temankemah-test", ExpirationMinutes: 60}
	cfg.ReadGate = config.ReadGateConfig{Username: "frontend", Password: "gate-pass"}
	cfg.Media = config.MediaConfig{MaxUploadMB: 10, MaxAdditionalImages: 10}

	logg := logger.New(logger.Options{Level: zerolog.Disabled})
	return NewRouter(cfg, logg, nil, nil, fakeSigner{}, Services{
		Activities: fakeActivities{},
		Users:      fakeUsers{},
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "temankemah-test", ExpirationMinutes: 60}
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	require.NoError(t, err)
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := routerFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-TemanKemah-Env"))
}

func TestReadsRejectMissingCredentials(t *testing.T) {
	router := routerFixture(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}

func TestReadsAcceptSharedBasicCredentials(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	req.SetBasicAuth("frontend", "gate-pass")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadsRejectWrongBasicCredentials(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	req.SetBasicAuth("frontend", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReadsAcceptBearerToken(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWritesRequireBearerToken(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activities/"+uuid.NewString(), nil)
	req.SetBasicAuth("frontend", "gate-pass")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWritesAcceptBearerToken(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activities/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesAcceptAdmins(t *testing.T) {
	router := routerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
