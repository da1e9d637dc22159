package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuthorizer struct {
	mu       sync.Mutex
	header   string
	rejected []string
}

func (a *recordingAuthorizer) AuthorizationHeader() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.header, a.header != ""
}

func (a *recordingAuthorizer) Unauthorized(_ context.Context, header string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejected = append(a.rejected, header)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ClientConfig{APIBaseURL: srv.URL + "/api/v1/", RequestTimeout: 2 * time.Second}, logger.Discard())
}

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var body struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "abc-1", "c": null}`), &body))
	assert.Equal(t, ID("42"), body.A)
	assert.Equal(t, ID("abc-1"), body.B)
	assert.True(t, body.C.IsZero())

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))

	out, err := json.Marshal(ID("7"))
	require.NoError(t, err)
	assert.JSONEq(t, `"7"`, string(out))
}

func TestNumericIDsAreCanonical(t *testing.T) {
	tests := []struct {
		raw  string
		want ID
	}{
		{`1`, "1"},
		{`1.0`, "1"},
		{`1e0`, "1"},
		{`-12.00`, "-12"},
		{`"1.0"`, "1.0"},
		{`1.5`, "1.5"},
		{`12345678901234567890`, "12345678901234567890"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	_, err := c.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "secret1"})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = c.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "12345"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	assert.False(t, called)
}

func TestLoginDecodesNumericUserID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		_, _ = io.WriteString(w, `{"token":"tok","userId":7}`)
	}))

	resp, err := c.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, ID("7"), resp.UserID)
}

func TestBearerOnlyCallFailsFastWithoutSession(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	_, err := c.GetUser(context.Background(), "1")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = c.Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.False(t, called)
}

func TestUnauthorizedResponseNotifiesAuthorizer(t *testing.T) {
	auth := &recordingAuthorizer{header: "Bearer stale"}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Invalid or expired token"}`)
	})).WithAuthorizer(auth)

	_, err := c.GetUser(context.Background(), "1")

	var authErr *apperrors.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, apperrors.ReasonSessionExpired, authErr.Reason)
	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, []string{"Bearer stale"}, auth.rejected)
}

func TestPublicCallDoesNotTriggerLogout(t *testing.T) {
	auth := &recordingAuthorizer{header: "Bearer tok"}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusForbidden)
	})).WithAuthorizer(auth)

	_, err := c.Categories(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Empty(t, auth.rejected)
}

func TestAPIErrorMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"user with this email already exists"}`)
	}))

	_, err := c.Signup(context.Background(), SignupRequest{FirstName: "A", LastName: "B", Email: "a@b.co", Password: "secret1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "user with this email already exists", apiErr.Message)
	assert.True(t, apiErr.IsClientError())
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(config.ClientConfig{APIBaseURL: srv.URL, RequestTimeout: time.Second}, logger.Discard())

	_, err := c.Sizes(context.Background())
	assert.True(t, IsNetworkError(err))
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(config.ClientConfig{APIBaseURL: srv.URL, RequestTimeout: 50 * time.Millisecond}, logger.Discard())
	_, err := c.Colors(context.Background())
	assert.True(t, IsNetworkError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProductsQueryAndEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("categoryId"))
		assert.Equal(t, "linen", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"Linen Shirt","price":4999,"categoryId":"3","colors":[{"id":1,"name":"red"}],"sizes":[]}]}`)
	})).WithAuthorizer(StaticToken("tok"))

	products, err := c.Products(context.Background(), ProductQuery{CategoryID: "3", Query: " linen "})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, ID("1"), products[0].ID)
	assert.Equal(t, int64(4999), products[0].Price)
	assert.Equal(t, "red", products[0].Colors[0].Name)
}

func TestUploadSendsMultipartImage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "shirt.png", header.Filename)
		assert.Equal(t, "pixels", string(content))
		_, _ = io.WriteString(w, `{"path":"/uploads/abc.png"}`)
	})).WithAuthorizer(StaticToken("tok"))

	resp, err := c.Upload(context.Background(), "/tmp/shirt.png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", resp.Path)
}

func TestUpdateUserIgnoresConfirmationBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/users/9", r.URL.Path)
		_, _ = io.WriteString(w, `User updated`)
	})).WithAuthorizer(StaticToken("tok"))

	name := "Grace"
	require.NoError(t, c.UpdateUser(context.Background(), "9", UpdateUserRequest{FirstName: &name}))

	err := c.UpdateUser(context.Background(), "9", UpdateUserRequest{})
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}
