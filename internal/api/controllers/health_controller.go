package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"parkfinder/internal/repositories"
	"parkfinder/pkg/utils"
)

type HealthController struct {
	parkRepo repositories.ParkRepository
}

func NewHealthController(parkRepo repositories.ParkRepository) *HealthController {
	return &HealthController{parkRepo: parkRepo}
}

func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.parkRepo.Ping(ctx); err != nil {
		utils.RespondError(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	utils.RespondSuccess(c, gin.H{"database": "ok"}, "healthy")
}
