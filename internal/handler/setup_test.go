package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/obsicat/obsicat-api/internal/config"
	"github.com/obsicat/obsicat-api/internal/handler"
	"github.com/obsicat/obsicat-api/internal/middleware"
	"github.com/obsicat/obsicat-api/internal/model"
	"github.com/obsicat/obsicat-api/internal/repository"
	"github.com/obsicat/obsicat-api/internal/router"
)

// testApp wires the full router against in-memory stores so handler tests
// exercise the same middleware chain as production.
type testApp struct {
	e        *echo.Echo
	cfg      config.Config
	users    *repository.MemoryUserStore
	payments *repository.MemoryPaymentStore
	uploads  *repository.MemoryUploadStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTL:      7 * 24 * time.Hour,
		RefreshTTL:     30 * 24 * time.Hour,
		PurchaseTTL:    7 * 24 * time.Hour,
		BcryptCost:     4,
		UploadDir:      t.TempDir(),
		MaxTotalSizeMB: 1,
		QRCodeURL:      "/static/images/weixin_qrcode.png",
	}
	users := repository.NewMemoryUserStore()
	payments := repository.NewMemoryPaymentStore(cfg.PurchaseTTL)
	uploads := repository.NewMemoryUploadStore()
	logger := zap.NewNop()

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Admin:  handler.NewAdminHandler(users, payments, uploads),
		Pay:    handler.NewPayHandler(cfg, payments),
		Chat:   handler.NewChatHandler(users),
		Upload: handler.NewUploadHandler(cfg, users, uploads, nil, logger), // nil publisher -> inline completion
	}

	e := echo.New()
	router.Register(e, h,
		middleware.JWTAuthorizer{Secret: cfg.JWTSecret},
		middleware.PurchaseAuthorizer{Payments: payments})

	return &testApp{e: e, cfg: cfg, users: users, payments: payments, uploads: uploads}
}

// doJSON performs a JSON request against the app. An empty token leaves the
// Authorization header unset.
func (a *testApp) doJSON(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// register creates a user through the API and returns the token response.
func (a *testApp) register(t *testing.T, email, password string) map[string]any {
	t.Helper()
	rec := a.doJSON(t, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

// registerAdmin registers a user and promotes it to admin directly in the
// store, then logs in again so the access token carries the admin role.
func (a *testApp) registerAdmin(t *testing.T, email, password string) string {
	t.Helper()
	resp := a.register(t, email, password)
	user := resp["user"].(map[string]any)
	role := model.RoleAdmin
	_, err := a.users.Update(t.Context(), user["id"].(string), repository.UserPatch{Role: &role})
	require.NoError(t, err)

	rec := a.doJSON(t, http.MethodPost, "/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["access_token"].(string)
}
