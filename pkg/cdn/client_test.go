package cdn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temankemah/temankemah-backend/pkg/config"
)

func testCDNConfig() config.CDNConfig {
	return config.CDNConfig{
		CloudName:     "temankemah-test",
		APIKey:        "key123",
		APISecret:     "secret456",
		UploadFolder:  "temankemah",
		UploadTimeout: 5 * time.Second,
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
}

func TestUploadSendsSignedMultipart(t *testing.T) {
	var gotPath, gotSignature, gotAPIKey, gotFolder string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotSignature = r.FormValue("signature")
		gotAPIKey = r.FormValue("api_key")
		gotFolder = r.FormValue("folder")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"public_id":"temankemah/abc123","secure_url":"https://res.cloudinary.com/temankemah-test/image/upload/v1738411200/temankemah/abc123.jpg","width":800,"height":600,"bytes":1024,"format":"jpg"}`))
	}))
	defer server.Close()

	client, err := New(testCDNConfig(), WithBaseURL(server.URL), WithClock(fixedClock))
	require.NoError(t, err)

	result, err := client.Upload(context.Background(), "tenda.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/temankemah-test/image/upload", gotPath)
	assert.Equal(t, "key123", gotAPIKey)
	assert.Equal(t, "temankemah", gotFolder)
	assert.Equal(t, "temankemah/abc123", result.PublicID)

	expected := signParams(map[string]string{
		"folder":    "temankemah",
		"timestamp": strconv.FormatInt(fixedClock().Unix(), 10),
	}, "secret456")
	assert.Equal(t, expected, gotSignature)
}

func TestUploadSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer server.Close()

	client, err := New(testCDNConfig(), WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "broken.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestDestroyTreatsNotFoundAsSuccess(t *testing.T) {
	responses := []string{`{"result":"ok"}`, `{"result":"not found"}`, `{"result":"error"}`}
	call := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "temankemah/abc123", r.FormValue("public_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responses[call]))
		call++
	}))
	defer server.Close()

	client, err := New(testCDNConfig(), WithBaseURL(server.URL), WithClock(fixedClock))
	require.NoError(t, err)

	assert.NoError(t, client.Destroy(context.Background(), "temankemah/abc123"))
	assert.NoError(t, client.Destroy(context.Background(), "temankemah/abc123"))
	assert.Error(t, client.Destroy(context.Background(), "temankemah/abc123"))
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := testCDNConfig()
	cfg.APISecret = ""
	_, err := New(cfg)
	require.Error(t, err)
}
