package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"skycities/internal/cache"
)

// HealthHandler reports process and store health.
type HealthHandler struct {
	db      *gorm.DB
	cache   *cache.Client
	backend string
}

// NewHealthHandler creates a new health handler. backend is the store
// backend name chosen at startup.
func NewHealthHandler(db *gorm.DB, cacheClient *cache.Client, backend string) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheClient, backend: backend}
}

// HealthResponse reports service, store and cache state.
type HealthResponse struct {
	Status     string `json:"status"`
	Store      string `json:"store"`
	StoreState string `json:"storeState"`
	Cache      string `json:"cache"`
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:     "ok",
		Store:      h.backend,
		StoreState: "up",
		Cache:      "up",
	}

	if sqlDB, err := h.db.DB(); err != nil {
		resp.StoreState = "down"
	} else if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		resp.StoreState = "down"
	}

	if err := h.cache.Ping(c.Request().Context()); err != nil {
		resp.Cache = "unavailable"
	}

	return c.JSON(http.StatusOK, resp)
}
