package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"parkfinder/internal/services"
	"parkfinder/pkg/utils"
)

type ParksController struct {
	parkService services.ParkServiceInterface
}

func NewParksController(parkService services.ParkServiceInterface) *ParksController {
	return &ParksController{
		parkService: parkService,
	}
}

func (p *ParksController) GetParkByCode(c *gin.Context) {
	parkCode := strings.TrimSpace(c.Param("parkCode"))
	if parkCode == "" {
		utils.RespondError(c, http.StatusBadRequest, "Park code is required")
		return
	}

	park, err := p.parkService.GetParkDetail(c.Request.Context(), parkCode)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, park)
}
