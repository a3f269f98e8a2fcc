package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsicat/obsicat-api/internal/model"
)

// doUpload posts a multipart batch of named files with the given contents.
func (a *testApp) doUpload(t *testing.T, token string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestUploadAcceptsFiles(t *testing.T) {
	app := newTestApp(t)
	access := app.register(t, "user@example.com", "secret123")["access_token"].(string)

	rec := app.doUpload(t, access, map[string][]byte{
		"notes.pdf":  []byte("%PDF-1.4 fake"),
		"photo.jpg":  []byte("jpeg-bytes"),
		"script.exe": []byte("skipped"), // unsupported extension
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.EqualValues(t, 2, body["page_count"])
	assert.InDelta(t, 0.2, body["price"].(float64), 1e-9)
	// Without a broker the record completes inline.
	assert.Equal(t, model.UploadCompleted, body["status"])

	uploadID := body["upload_id"].(string)
	rec2 := app.doJSON(t, http.MethodGet, "/api/v1/upload/"+uploadID, "", access)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, model.UploadCompleted, decode(t, rec2)["status"])
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	app := newTestApp(t)
	access := app.register(t, "user@example.com", "secret123")["access_token"].(string)

	rec := app.doJSON(t, http.MethodPost, "/api/v1/upload", "", access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadEnforcesSizeCap(t *testing.T) {
	app := newTestApp(t) // cap is 1 MB in tests
	access := app.register(t, "user@example.com", "secret123")["access_token"].(string)

	big := make([]byte, 2*1024*1024)
	rec := app.doUpload(t, access, map[string][]byte{"big.pdf": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadStatusOwnership(t *testing.T) {
	app := newTestApp(t)
	owner := app.register(t, "owner@example.com", "secret123")["access_token"].(string)
	other := app.register(t, "other@example.com", "secret123")["access_token"].(string)

	rec := app.doUpload(t, owner, map[string][]byte{"doc.docx": []byte("doc")})
	require.Equal(t, http.StatusAccepted, rec.Code)
	uploadID := decode(t, rec)["upload_id"].(string)

	rec2 := app.doJSON(t, http.MethodGet, "/api/v1/upload/"+uploadID, "", other)
	assert.Equal(t, http.StatusForbidden, rec2.Code)

	rec2 = app.doJSON(t, http.MethodGet, "/api/v1/upload/missing", "", owner)
	assert.Equal(t, http.StatusNotFound, rec2.Code)

	rec2 = app.doJSON(t, http.MethodGet, "/api/v1/upload/"+uploadID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}
