package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/lehoang/visit-registration/internal/hub"
    "github.com/lehoang/visit-registration/internal/middleware"
    "github.com/lehoang/visit-registration/internal/model"
    "github.com/lehoang/visit-registration/internal/repository"
)

// AdminConfigHandler manages the singleton form configuration and the
// per-admin SMTP credentials.  Config saves replace the stored record
// wholesale, drop the public cache entry and broadcast a change event.
type AdminConfigHandler struct {
    Configs   ConfigStore
    Emails    EmailConfigStore
    Publisher hub.Publisher
    Cache     *middleware.ConfigCache
}

// NewAdminConfigHandler constructs an AdminConfigHandler.  Cache may
// be nil when Redis is unavailable.
func NewAdminConfigHandler(configs ConfigStore, emails EmailConfigStore, pub hub.Publisher, cache *middleware.ConfigCache) *AdminConfigHandler {
    if configs == nil || emails == nil || pub == nil {
        panic("nil dependency passed to NewAdminConfigHandler")
    }
    return &AdminConfigHandler{Configs: configs, Emails: emails, Publisher: pub, Cache: cache}
}

// GetFormConfig handles GET /v1/admin/form-config.
func (h *AdminConfigHandler) GetFormConfig(c echo.Context) error {
    cfg, err := h.Configs.Get(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load form config"})
    }
    return c.JSON(http.StatusOK, echo.Map{"config": cfg})
}

// SaveFormConfig handles PUT /v1/admin/form-config.  The body is the
// full configuration; there are no partial-patch semantics, the last
// writer wins.
func (h *AdminConfigHandler) SaveFormConfig(c echo.Context) error {
    var cfg model.FormConfig
    if err := c.Bind(&cfg); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    ctx := c.Request().Context()
    saved, err := h.Configs.Save(ctx, cfg)
    if err != nil {
        if errors.Is(err, model.ErrInvalidFormConfig) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save form config"})
    }
    h.Cache.Invalidate(ctx)
    h.Publisher.Publish(hub.EventConfigUpdated, saved)
    return c.JSON(http.StatusOK, echo.Map{"config": saved})
}

type setClosedReq struct {
    IsFormClosed bool `json:"isFormClosed"`
}

// SetFormClosed handles PUT /v1/admin/form-config/closed, the manual
// open/close override.  It rewrites only the flag of the stored
// configuration.
func (h *AdminConfigHandler) SetFormClosed(c echo.Context) error {
    var req setClosedReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    ctx := c.Request().Context()
    cfg, err := h.Configs.Get(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load form config"})
    }
    cfg.IsFormClosed = req.IsFormClosed
    saved, err := h.Configs.Save(ctx, cfg)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save form config"})
    }
    h.Cache.Invalidate(ctx)
    h.Publisher.Publish(hub.EventFormToggled, echo.Map{"isFormClosed": saved.IsFormClosed})
    return c.JSON(http.StatusOK, echo.Map{"config": saved})
}

// GetEmailConfig handles GET /v1/admin/email-config for the
// authenticated admin.  404 when none is stored; the caller then knows
// the process-wide fallback applies.
func (h *AdminConfigHandler) GetEmailConfig(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    cfg, err := h.Emails.GetByUser(c.Request().Context(), userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no email config stored"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load email config"})
    }
    return c.JSON(http.StatusOK, echo.Map{"config": cfg})
}

type emailConfigReq struct {
    Host     string `json:"host"`
    Port     int    `json:"port"`
    Secure   bool   `json:"secure"`
    Email    string `json:"email"`
    Password string `json:"password"`
}

// SaveEmailConfig handles PUT /v1/admin/email-config.
func (h *AdminConfigHandler) SaveEmailConfig(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req emailConfigReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Host == "" || req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "host and email are required"})
    }
    if req.Port == 0 {
        req.Port = 587
    }
    cfg := model.EmailConfig{
        UserID:   userID,
        Host:     req.Host,
        Port:     req.Port,
        Secure:   req.Secure,
        Email:    req.Email,
        Password: req.Password,
    }
    if err := h.Emails.Upsert(c.Request().Context(), cfg); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save email config"})
    }
    return c.JSON(http.StatusOK, echo.Map{"config": cfg})
}
