package http_handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/transport/http/middleware"
)

func authedRequest(method, target string, body *bytes.Buffer, u domain.User) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	return req.WithContext(middleware.WithUser(req.Context(), u))
}

func TestUserHandler_Me(t *testing.T) {
	env := newTestEnv()
	u := env.seedUser("alice@example.com", true)
	h := NewUserHandler(env.authSvc)

	rec := httptest.NewRecorder()
	h.Me(rec, authedRequest(http.MethodGet, "/api/users/me", nil, u))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_Me_NoUserInContext(t *testing.T) {
	env := newTestEnv()
	h := NewUserHandler(env.authSvc)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func avatarForm(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUserHandler_UpdateAvatar(t *testing.T) {
	env := newTestEnv()
	u := env.seedUser("alice@example.com", true)
	h := NewUserHandler(env.authSvc)

	buf, contentType := avatarForm(t, "file", "me.png", []byte("png-bytes"))
	req := authedRequest(http.MethodPatch, "/api/users/avatar", buf, u)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UpdateAvatar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(env.images.lastKey, "avatars/"))
	assert.True(t, strings.HasSuffix(env.images.lastKey, ".png"))
	assert.Contains(t, rec.Body.String(), "https://img.test/avatars/")

	stored, err := env.users.GetByEmail(req.Context(), u.Email)
	require.NoError(t, err)
	assert.Contains(t, stored.Avatar, "avatars/")
}

func TestUserHandler_UpdateAvatar_WrongField(t *testing.T) {
	env := newTestEnv()
	u := env.seedUser("alice@example.com", true)
	h := NewUserHandler(env.authSvc)

	buf, contentType := avatarForm(t, "image", "me.png", []byte("png-bytes"))
	req := authedRequest(http.MethodPatch, "/api/users/avatar", buf, u)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UpdateAvatar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_field")
}

func TestUserHandler_UpdateAvatar_NotMultipart(t *testing.T) {
	env := newTestEnv()
	u := env.seedUser("alice@example.com", true)
	h := NewUserHandler(env.authSvc)

	req := authedRequest(http.MethodPatch, "/api/users/avatar", bytes.NewBufferString(`{"file":"x"}`), u)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.UpdateAvatar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
