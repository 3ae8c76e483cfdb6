package http

import (
	"net/http"

	searchService "github.com/careerfindr/careerfindr-api/internal/modules/search/service"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service searchService.SearchService
}

func NewSearchHandler(service searchService.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// GetToken issues a tenant token scoped to the caller's role so the client
// queries Meilisearch directly.
func (h *SearchHandler) GetToken(c *gin.Context) {
	role := response.GetRole(c)
	if role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := h.service.GenerateSearchToken(role)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": token}})
}
