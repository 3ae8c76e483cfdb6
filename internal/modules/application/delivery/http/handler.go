package http

import (
	"net/http"

	"github.com/careerfindr/careerfindr-api/internal/modules/application/dto"
	applicationService "github.com/careerfindr/careerfindr-api/internal/modules/application/service"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/careerfindr/careerfindr-api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	service applicationService.ApplicationService
}

func NewApplicationHandler(service applicationService.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	var input dto.ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	application, err := h.service.Apply(c.Request.Context(), studentID, jobID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": application})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	companyID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	applicants, err := h.service.ListForJob(c.Request.Context(), companyID, jobID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": applicants})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	studentID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	applications, err := h.service.ListMine(c.Request.Context(), studentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": applications})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	companyID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	applicationID, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var input dto.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	application, err := h.service.UpdateStatus(c.Request.Context(), companyID, applicationID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": application})
}
