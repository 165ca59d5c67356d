package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/privateboard/privateboard/internal/storage"
)

func newUploadsRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	backend, err := storage.NewLocalBackend(storage.LocalConfig{Dir: dir, BaseURL: "http://localhost:4000/uploads"})
	require.NoError(t, err)
	r := gin.New()
	NewUploadsHandler(backend).Register(r)
	return r, dir
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImageStoresFile(t *testing.T) {
	r, dir := newUploadsRouter(t)

	body, ctype := multipartImage(t, "file", "photo.png", "image/png", []byte("png-bytes"))
	req := httptest.NewRequest("POST", "/uploads/image", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.URL, "http://localhost:4000/uploads/"))
	require.True(t, strings.HasSuffix(resp.URL, ".png"))

	key := resp.URL[strings.LastIndex(resp.URL, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestUploadImageMissingFileIs400(t *testing.T) {
	r, _ := newUploadsRouter(t)

	req := httptest.NewRequest("POST", "/uploads/image", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImageRejectsUnsupportedType(t *testing.T) {
	r, dir := newUploadsRouter(t)

	body, ctype := multipartImage(t, "file", "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest("POST", "/uploads/image", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
