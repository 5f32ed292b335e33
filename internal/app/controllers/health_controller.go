package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// HealthController reports whether the service can reach its store
type HealthController struct {
	store db.Store
}

// NewHealthController creates a new HealthController
func NewHealthController(store db.Store) *HealthController {
	return &HealthController{store: store}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 500 {object} dto.MessageResponse "Store unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if err := c.store.Ping(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewStoreError(err))
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
