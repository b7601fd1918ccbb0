package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/pkg/apperrors"
)

// DefaultBaseURL is the community backend API root.
const DefaultBaseURL = "http://localhost:5000/api"

// TokenSource supplies the bearer credential attached to authenticated
// requests. An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-credential TokenSource, mainly for tests.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// Client is the typed REST client for the community backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewClient creates a Client for the given backend root. tokens may be nil
// for a client that only performs unauthenticated calls.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		validate:   validator.New(),
		logger:     logger,
	}
}

// errorBody is the error envelope the backend returns on failures.
type errorBody struct {
	Error string `json:"error"`
}

// checkRequest validates a request payload before it touches the network.
func (c *Client) checkRequest(req interface{}) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}
	return nil
}

// do performs a JSON request and decodes a JSON response into out when out is
// non-nil. Non-2xx responses are mapped onto apperrors values.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.send(req, out)
}

// doMultipart performs a multipart/form-data request for endpoints that
// accept file uploads alongside form fields.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []Upload, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile("images", file.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	return c.send(req, out)
}

// authorize attaches the bearer credential when one is available.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// send executes the request and decodes the response.
func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("Request transport failure")
		return fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorBody
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Str("error", envelope.Error).
			Msg("Request rejected by backend")
		return apperrors.NewAPIError(resp.StatusCode, envelope.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Upload is a named file attached to a multipart request.
type Upload struct {
	Name    string
	Content io.Reader
}
