package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"parkfinder/internal/models/request_models"
	"parkfinder/internal/models/response_models"
	"parkfinder/internal/services"
	"parkfinder/pkg/utils"
)

type SearchController struct {
	searchService services.SearchServiceInterface
}

func NewSearchController(searchService services.SearchServiceInterface) *SearchController {
	return &SearchController{
		searchService: searchService,
	}
}

// SearchParks godoc
// POST /api/search {query, limit?, region?}
func (s *SearchController) SearchParks(c *gin.Context) {
	var req request_models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.searchService.Search(c.Request.Context(), services.SearchQuery{
		Query:  req.Query,
		Limit:  req.Limit,
		Region: req.RegionCode(),
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response_models.SearchResponse{
		Data:     result.Parks,
		Total:    len(result.Parks),
		Fallback: result.Fallback(),
	})
}
