// internal/client/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// maxErrorBody caps how much of an error response is read for its message
const maxErrorBody = 64 << 10

// Client is a typed client for the storefront REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	auth       Authorizer
	log        logrus.FieldLogger
}

// NewClient creates an anonymous client for the configured API
func NewClient(cfg config.ClientConfig, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{},
		timeout:    cfg.RequestTimeout,
		auth:       anonymous{},
		log:        log.WithField("component", "api_client"),
	}
}

// WithHTTPClient returns a copy using the given transport client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	clone := *c
	clone.httpClient = hc
	return &clone
}

// WithAuthorizer returns a copy that authorizes requests through a
func (c *Client) WithAuthorizer(a Authorizer) *Client {
	clone := *c
	if a == nil {
		a = anonymous{}
	}
	clone.auth = a
	return &clone
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/users/login", req, &resp, authNone); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.UserID.IsZero() {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Message: "login response missing token or userId"}
	}
	return &resp, nil
}

// Signup creates an account
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var u User
	if err := c.doJSON(ctx, "signup", http.MethodPost, "/users", req, &u, authNone); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser fetches a user record
func (c *Client) GetUser(ctx context.Context, id ID) (*User, error) {
	if id.IsZero() {
		return nil, apperrors.NewValidationError("id", "is required")
	}
	var u User
	if err := c.doJSON(ctx, "get user", http.MethodGet, "/users/"+url.PathEscape(id.String()), nil, &u, authRequired); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a partial update. The response body is a confirmation
// whose shape varies between backends, so it is not decoded.
func (c *Client) UpdateUser(ctx context.Context, id ID, req UpdateUserRequest) error {
	if id.IsZero() {
		return apperrors.NewValidationError("id", "is required")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return c.doJSON(ctx, "update user", http.MethodPut, "/users/"+url.PathEscape(id.String()), req, nil, authRequired)
}

// ForgotPassword asks the backend to email a reset link
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := c.doJSON(ctx, "forgot password", http.MethodPost, "/users/forgot-password", ForgotPasswordRequest{Email: strings.TrimSpace(email)}, &resp, authNone); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password with a reset token
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := c.doJSON(ctx, "reset password", http.MethodPost, "/users/reset-password", req, &resp, authNone); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Categories lists product categories
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.doJSON(ctx, "list categories", http.MethodGet, "/categories", nil, &out, authNone)
	return out, err
}

// Colors lists product colors
func (c *Client) Colors(ctx context.Context) ([]Color, error) {
	var out []Color
	err := c.doJSON(ctx, "list colors", http.MethodGet, "/colors", nil, &out, authNone)
	return out, err
}

// Sizes lists product sizes
func (c *Client) Sizes(ctx context.Context) ([]Size, error) {
	var out []Size
	err := c.doJSON(ctx, "list sizes", http.MethodGet, "/sizes", nil, &out, authNone)
	return out, err
}

// Products lists products, sending the bearer token when a session exists
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]Product, error) {
	params := url.Values{}
	if !q.CategoryID.IsZero() {
		params.Set("categoryId", q.CategoryID.String())
	}
	if s := strings.TrimSpace(q.Query); s != "" {
		params.Set("q", s)
	}
	path := "/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []Product
	err := c.doJSON(ctx, "list products", http.MethodGet, path, nil, &out, authOptional)
	return out, err
}

// Product fetches one product
func (c *Client) Product(ctx context.Context, id ID) (*Product, error) {
	if id.IsZero() {
		return nil, apperrors.NewValidationError("id", "is required")
	}
	var p Product
	if err := c.doJSON(ctx, "get product", http.MethodGet, "/products/"+url.PathEscape(id.String()), nil, &p, authOptional); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upload sends an image as the multipart field "image" and returns its stored path
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperrors.NewValidationError("filename", "is required")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	var resp UploadResponse
	if err := c.do(ctx, "upload", http.MethodPost, "/upload", &body, writer.FormDataContentType(), &resp, authRequired); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}, mode authMode) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out, mode)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}, mode authMode) error {
	header, hasSession := c.auth.AuthorizationHeader()
	if mode == authRequired && !hasSession {
		return &apperrors.AuthenticationError{
			Reason:  apperrors.ReasonNotAuthenticated,
			Message: op + ": not authenticated",
		}
	}
	sendAuth := hasSession && mode != authNone

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sendAuth {
		req.Header.Set("Authorization", header)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp)
		if sendAuth && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.auth.Unauthorized(ctx, header)
			return &apperrors.AuthenticationError{
				Reason:  apperrors.ReasonSessionExpired,
				Message: op + ": session rejected",
				Err:     apiErr,
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Op: op, Err: err}
	}
	if err := decodeBody(raw, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// decodeBody accepts both bare bodies and {"data": ...} envelopes
func decodeBody(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
			return json.Unmarshal(envelope.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *apperrors.NetworkError
	return errors.As(err, &netErr)
}
