package cdn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/temankemah/temankemah-backend/pkg/config"
)

// Client talks to the image CDN's upload API over HTTPS.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	now        func() time.Time
}

// UploadResult is the subset of the upload response the platform consumes.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	Format    string `json:"format"`
}

// Option overrides client defaults, mainly for tests.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the timestamp source used for request signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New validates the CDN configuration and returns a client.
func New(cfg config.CDNConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" {
		return nil, errors.New("cdn cloud name is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("cdn api key is required")
	}
	if strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errors.New("cdn api secret is required")
	}

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.cloudinary.com/v1_1",
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		folder:     cfg.UploadFolder,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upload sends image bytes to the CDN using a signed multipart request.
func (c *Client) Upload(ctx context.Context, filename string, contents io.Reader) (*UploadResult, error) {
	if filename == "" {
		return nil, errors.New("filename is required")
	}
	if contents == nil {
		return nil, errors.New("file contents are required")
	}

	timestamp := c.now().Unix()
	params := map[string]string{
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	signature := signParams(params, c.apiSecret)

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(fileWriter, contents); err != nil {
		return nil, fmt.Errorf("copying file contents: %w", err)
	}
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": params["timestamp"],
		"signature": signature,
	}
	if c.folder != "" {
		fields["folder"] = c.folder
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing multipart field %q: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("upload", resp)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if result.PublicID == "" || result.SecureURL == "" {
		return nil, errors.New("upload response missing public_id or secure_url")
	}
	return &result, nil
}

// Destroy removes the asset with the given public id from the CDN.
// A "not found" result is treated as success so deletions stay idempotent.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return errors.New("public id is required")
	}

	timestamp := c.now().Unix()
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
	signature := signParams(params, c.apiSecret)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", params["timestamp"])
	form.Set("api_key", c.apiKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroying image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError("destroy", resp)
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding destroy response: %w", err)
	}
	switch result.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("destroy %q: unexpected result %q", publicID, result.Result)
	}
}

func (c *Client) apiError(op string, resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("cdn %s failed (%d): %s", op, resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("cdn %s failed with status %d", op, resp.StatusCode)
}
