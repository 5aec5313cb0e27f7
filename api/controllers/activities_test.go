package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/temankemah/temankemah-backend/api/middleware"
	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type stubActivitiesService struct {
	created activities.CreateActivityRequest
	userID  uuid.UUID
}

func (s *stubActivitiesService) Create(_ context.Context, userID uuid.UUID, req activities.CreateActivityRequest) (*activities.ActivityDTO, error) {
	s.userID = userID
	s.created = req
	return &activities.ActivityDTO{ID: uuid.New(), UserID: userID, Title: req.Title}, nil
}

func (s *stubActivitiesService) Get(context.Context, uuid.UUID) (*activities.ActivityDTO, error) {
	return nil, nil
}

func (s *stubActivitiesService) List(context.Context, activities.ListParams) (*activities.ActivityPage, error) {
	return nil, nil
}

func (s *stubActivitiesService) Update(context.Context, uuid.UUID, uuid.UUID, activities.UpdateActivityRequest) (*activities.ActivityDTO, error) {
	return nil, nil
}

func (s *stubActivitiesService) Delete(context.Context, uuid.UUID, bool, uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, value := range fields {
		require.NoError(t, writer.WriteField(field, value))
	}
	for field, names := range files {
		for _, name := range names {
			part, err := writer.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = part.Write([]byte("image-bytes"))
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestActivitiesCreateParsesMultipartForm(t *testing.T) {
	svc := &stubActivitiesService{}
	userID := uuid.New()

	body, contentType := multipartBody(t,
		map[string]string{
			"title":       "Muncak Gede",
			"description": "Pendakian dua hari lewat Cibodas.",
			"date":        time.Date(2026, 9, 12, 6, 0, 0, 0, time.UTC).Format(time.RFC3339),
			"location":    "Gunung Gede",
		},
		map[string][]string{
			"cover":             {"cover.jpg"},
			"additional_images": {"one.jpg", "two.jpg"},
		},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	rec := httptest.NewRecorder()

	ActivitiesCreate(svc, testLogger(), 10).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, userID, svc.userID)
	require.Equal(t, "Muncak Gede", svc.created.Title)
	require.Equal(t, "Gunung Gede", svc.created.Location)
	require.NotNil(t, svc.created.Cover)
	require.Equal(t, "cover.jpg", svc.created.Cover.Filename)
	require.Len(t, svc.created.AdditionalImages, 2)
}

func TestActivitiesCreateRequiresIdentity(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{"title": "Muncak"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	ActivitiesCreate(&stubActivitiesService{}, testLogger(), 10).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActivitiesCreateRejectsBadDate(t *testing.T) {
	body, contentType := multipartBody(t,
		map[string]string{
			"title":       "Muncak Gede",
			"description": "Pendakian dua hari.",
			"date":        "12-09-2026",
			"location":    "Gunung Gede",
		},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	ActivitiesCreate(&stubActivitiesService{}, testLogger(), 10).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
