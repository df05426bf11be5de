package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/config"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local, err := store.NewLocalStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)
	facade := store.NewFacade(store.NewHealth(nil), local, store.GuaranteedUsers("4242"))

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret"
	cfg.Server.JWTExpirationHours = 1

	r := gin.New()
	auth := &AuthHandler{Facade: facade, Cfg: cfg}
	r.POST("/api/v1/auth/login", auth.Login)
	system := &SystemHandler{Facade: facade}
	r.GET("/api/v1/system/status", system.Status)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/login", LoginRequest{Username: "admin", Pin: "4242"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin", resp.User.Username)
	require.Equal(t, "admin", resp.User.Role)
}

func TestLoginEndpointWrongPin(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/login", LoginRequest{Username: "admin", Pin: "0000"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid username or PIN")
}

func TestLoginEndpointMissingFields(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/login", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusEndpointLocalOnly(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var status store.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.False(t, status.Connected)
	require.Equal(t, "No credentials configured", status.Error)
}
