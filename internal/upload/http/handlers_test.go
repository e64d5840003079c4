package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addahub/addahub-web/internal/auth"
	"github.com/addahub/addahub-web/internal/session"
	"github.com/addahub/addahub-web/internal/upload"
)

type fakeUploader struct {
	filename string
	data     string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	raw, _ := io.ReadAll(body)
	f.filename, f.data = filename, string(raw)
	return "https://cdn.example/" + filename, nil
}

func multipartBody(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, h *Handler, body *bytes.Buffer, contentType string, signedIn bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.OptionalSession())
	h.Register(r.Group(""))

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	if signedIn {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{UserID: "u1"}).SignedString([]byte("k"))
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: tok})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{}
	body, ct := multipartBody(t, "image", "cat.png", "image/png", "meow")

	w, out := post(t, New(up, 0), body, ct, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example/cat.png", out["data"].(map[string]any)["url"])
	assert.Equal(t, "meow", up.data)
}

func TestUpload_RequiresSession(t *testing.T) {
	body, ct := multipartBody(t, "image", "cat.png", "image/png", "meow")
	w, _ := post(t, New(&fakeUploader{}, 0), body, ct, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpload_MissingField(t *testing.T) {
	body, ct := multipartBody(t, "file", "cat.png", "image/png", "meow")
	w, _ := post(t, New(&fakeUploader{}, 0), body, ct, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_NotAnImage(t *testing.T) {
	body, ct := multipartBody(t, "image", "notes.txt", "text/plain", "hello")
	w, _ := post(t, New(&fakeUploader{}, 0), body, ct, true)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	body, ct := multipartBody(t, "image", "big.png", "image/png", string(bytes.Repeat([]byte("x"), 4096)))
	w, _ := post(t, New(&fakeUploader{}, 512), body, ct, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUpload_Rejected(t *testing.T) {
	body, ct := multipartBody(t, "image", "cat.png", "image/png", "meow")
	w, out := post(t, New(&fakeUploader{err: &upload.RejectedError{Message: "File type not allowed"}}, 0), body, ct, true)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "File type not allowed", out["notice"].(map[string]any)["description"])
}
