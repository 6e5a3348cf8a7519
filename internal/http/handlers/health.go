package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/config"
)

type HealthHandler struct {
	ping func() error
	cfg  config.Config
}

func NewHealthHandler(ping func() error, cfg config.Config) *HealthHandler {
	return &HealthHandler{
		ping: ping,
		cfg:  cfg,
	}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

type InfoResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// Info reports environment and version.
func (h *HealthHandler) Info(ctx *gin.Context) {
	RespondData(ctx, http.StatusOK, InfoResponse{
		Status:      "success",
		Environment: h.cfg.Env,
		Version:     h.cfg.Version,
	})
}
