package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, method, url, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v), string(data))
}

func TestHealth(t *testing.T) {
	b := apitest.NewBackend(t)

	status, data := call(t, http.MethodGet, b.Server.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	var body map[string]interface{}
	decode(t, data, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	b := apitest.NewBackend(t)

	status, data := call(t, http.MethodPost, b.URL("/users"), "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "engine1",
	})
	require.Equal(t, http.StatusCreated, status, string(data))

	var created struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	decode(t, data, &created)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Empty(t, created.Password)

	status, _ = call(t, http.MethodPost, b.URL("/users"), "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "password": "engine1",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, data = call(t, http.MethodPost, b.URL("/users/login"), "", map[string]string{
		"email": "ada@example.com", "password": "engine1",
	})
	require.Equal(t, http.StatusOK, status)

	var login struct {
		Token  string `json:"token"`
		UserID uint   `json:"userId"`
	}
	decode(t, data, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, created.ID, login.UserID)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	b := apitest.NewBackend(t)
	b.Register(t, "ada@example.com", "engine1")

	wrongStatus, wrongBody := call(t, http.MethodPost, b.URL("/users/login"), "", map[string]string{
		"email": "ada@example.com", "password": "nope-nope",
	})
	unknownStatus, unknownBody := call(t, http.MethodPost, b.URL("/users/login"), "", map[string]string{
		"email": "ghost@example.com", "password": "engine1",
	})

	assert.Equal(t, http.StatusBadRequest, wrongStatus)
	assert.Equal(t, wrongStatus, unknownStatus)
	assert.JSONEq(t, string(wrongBody), string(unknownBody))
}

func TestUserProfileAccess(t *testing.T) {
	b := apitest.NewBackend(t)
	ada := b.Register(t, "ada@example.com", "engine1")
	bob := b.Register(t, "bob@example.com", "engine1")
	token := b.Token(t, ada, false)

	status, _ := call(t, http.MethodGet, b.URL(fmt.Sprintf("/users/%d", ada.ID)), "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, http.MethodGet, b.URL(fmt.Sprintf("/users/%d", bob.ID)), token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, data := call(t, http.MethodPut, b.URL(fmt.Sprintf("/users/%d", ada.ID)), token, map[string]string{
		"firstName": "Augusta",
	})
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = call(t, http.MethodGet, b.URL(fmt.Sprintf("/users/%d", ada.ID)), token, nil)
	require.Equal(t, http.StatusOK, status)

	var profile struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	decode(t, data, &profile)
	assert.Equal(t, "Augusta", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)

	admin := b.Token(t, bob, true)
	status, _ = call(t, http.MethodGet, b.URL(fmt.Sprintf("/users/%d", ada.ID)), admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPasswordResetFlow(t *testing.T) {
	b := apitest.NewBackend(t)
	b.Register(t, "ada@example.com", "engine1")

	knownStatus, knownBody := call(t, http.MethodPost, b.URL("/users/forgot-password"), "", map[string]string{
		"email": "ada@example.com",
	})
	unknownStatus, unknownBody := call(t, http.MethodPost, b.URL("/users/forgot-password"), "", map[string]string{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusOK, knownStatus)
	assert.Equal(t, knownStatus, unknownStatus)
	assert.JSONEq(t, string(knownBody), string(unknownBody))

	token, ok := b.Mailer.Token("ada@example.com")
	require.True(t, ok)

	status, _ := call(t, http.MethodPost, b.URL("/users/reset-password"), "", map[string]string{
		"token": token, "newPassword": "analytical2",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, http.MethodPost, b.URL("/users/reset-password"), "", map[string]string{
		"token": token, "newPassword": "analytical3",
	})
	assert.Equal(t, http.StatusBadRequest, status, "reset tokens are single use")

	status, _ = call(t, http.MethodPost, b.URL("/users/login"), "", map[string]string{
		"email": "ada@example.com", "password": "analytical2",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestCatalogReads(t *testing.T) {
	b := apitest.NewBackend(t)
	catalog := b.SeedCatalog(t)

	status, data := call(t, http.MethodGet, b.URL("/products"), "", nil)
	require.Equal(t, http.StatusOK, status)

	var products []struct {
		ID     uint   `json:"id"`
		Name   string `json:"name"`
		Price  int64  `json:"price"`
		Colors []struct {
			Name string `json:"name"`
		} `json:"colors"`
	}
	decode(t, data, &products)
	require.Len(t, products, 2)

	status, data = call(t, http.MethodGet, b.URL("/products?q=denim"), "", nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, data, &products)
	require.Len(t, products, 1)
	assert.Equal(t, catalog.Jeans.ID, products[0].ID)

	status, data = call(t, http.MethodGet, b.URL(fmt.Sprintf("/products?categoryId=%d", catalog.Shirts.ID+100)), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(data))

	status, _ = call(t, http.MethodGet, b.URL("/products?categoryId=abc"), "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodGet, b.URL("/products/999"), "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	for _, path := range []string{"/categories", "/colors", "/sizes"} {
		status, _ = call(t, http.MethodGet, b.URL(path), "", nil)
		assert.Equal(t, http.StatusOK, status, path)
	}
}

func TestCatalogWritesNeedAdmin(t *testing.T) {
	b := apitest.NewBackend(t)
	catalog := b.SeedCatalog(t)
	ada := b.Register(t, "ada@example.com", "engine1")

	body := map[string]interface{}{
		"name": "Wool Coat", "price": 9900, "categoryId": catalog.Shirts.ID,
		"colorIds": []uint{catalog.Red.ID}, "sizeIds": []uint{catalog.Large.ID},
	}

	status, _ := call(t, http.MethodPost, b.URL("/products"), "", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, http.MethodPost, b.URL("/products"), b.Token(t, ada, false), body)
	assert.Equal(t, http.StatusForbidden, status)

	admin := b.Token(t, ada, true)
	status, data := call(t, http.MethodPost, b.URL("/products"), admin, body)
	require.Equal(t, http.StatusCreated, status, string(data))

	var created struct {
		ID uint `json:"id"`
	}
	decode(t, data, &created)

	status, _ = call(t, http.MethodPost, b.URL("/categories"), admin, map[string]string{"name": "Shirts"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, http.MethodPost, b.URL("/colors"), admin, map[string]string{"name": "Teal", "hex": "teal"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, http.MethodDelete, b.URL(fmt.Sprintf("/products/%d", created.ID)), admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, http.MethodGet, b.URL(fmt.Sprintf("/products/%d", created.ID)), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadImage(t *testing.T) {
	b := apitest.NewBackend(t)
	ada := b.Register(t, "ada@example.com", "engine1")

	upload := func(token, filename string, content []byte) (int, []byte) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req, err := http.NewRequest(http.MethodPost, b.URL("/upload"), &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", w.FormDataContentType())
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, data
	}

	status, _ := upload("", "shirt.png", []byte("png"))
	assert.Equal(t, http.StatusUnauthorized, status)

	token := b.Token(t, ada, false)
	status, _ = upload(token, "notes.txt", []byte("text"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, data := upload(token, "shirt.png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, status, string(data))

	var stored struct {
		Path string `json:"path"`
	}
	decode(t, data, &stored)
	assert.Regexp(t, `^/uploads/.+\.png$`, stored.Path)

	status, served := call(t, http.MethodGet, b.Server.URL+stored.Path, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "png-bytes", string(served))
}
