package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ProviderConfig is the browser-facing identity provider configuration the
// login surface needs to talk to the provider directly.
type ProviderConfig struct {
	URL     string `json:"url"`
	AppName string `json:"appName"`
}

// ProviderConfigHandler serves GET /api/provider-config.
type ProviderConfigHandler struct {
	cfg ProviderConfig
}

// NewProviderConfigHandler creates a new provider config handler.
func NewProviderConfigHandler(cfg ProviderConfig) *ProviderConfigHandler {
	return &ProviderConfigHandler{cfg: cfg}
}

// Handle returns the public provider settings, or 500 naming what is missing
// so a misconfigured deployment fails loudly instead of half-working.
func (h *ProviderConfigHandler) Handle(c echo.Context) error {
	var missing []string
	if h.cfg.URL == "" {
		missing = append(missing, "PROVIDER_PUBLIC_URL")
	}
	if h.cfg.AppName == "" {
		missing = append(missing, "PROVIDER_APP_NAME")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "missing configuration: " + strings.Join(missing, ", "),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"config":  h.cfg,
	})
}
