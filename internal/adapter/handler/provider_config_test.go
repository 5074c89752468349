package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func providerConfigRequest(t *testing.T, cfg ProviderConfig) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/provider-config", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewProviderConfigHandler(cfg)
	assert.NoError(t, h.Handle(c))

	var parsed map[string]any
	json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func TestProviderConfigHandler_Complete(t *testing.T) {
	rec, body := providerConfigRequest(t, ProviderConfig{
		URL:     "https://id.example.com",
		AppName: "client-gate",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	cfg := body["config"].(map[string]any)
	assert.Equal(t, "https://id.example.com", cfg["url"])
	assert.Equal(t, "client-gate", cfg["appName"])
}

func TestProviderConfigHandler_MissingVariables(t *testing.T) {
	rec, body := providerConfigRequest(t, ProviderConfig{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "PROVIDER_PUBLIC_URL")
	assert.Contains(t, body["error"], "PROVIDER_APP_NAME")
}
