package http

import (
	"net/http"

	"github.com/careerfindr/careerfindr-api/internal/modules/faculty/dto"
	facultyService "github.com/careerfindr/careerfindr-api/internal/modules/faculty/service"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/careerfindr/careerfindr-api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacultyHandler struct {
	service facultyService.FacultyService
}

func NewFacultyHandler(service facultyService.FacultyService) *FacultyHandler {
	return &FacultyHandler{service: service}
}

func (h *FacultyHandler) CreateFaculty(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateFacultyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	faculty, err := h.service.CreateFaculty(c.Request.Context(), instituteID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": faculty})
}

func (h *FacultyHandler) UpdateFaculty(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	facultyID, err := uuid.Parse(c.Param("faculty_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty ID"})
		return
	}

	var input dto.UpdateFacultyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	faculty, err := h.service.UpdateFaculty(c.Request.Context(), instituteID, facultyID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": faculty})
}

func (h *FacultyHandler) DeleteFaculty(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	facultyID, err := uuid.Parse(c.Param("faculty_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty ID"})
		return
	}

	if err := h.service.DeleteFaculty(c.Request.Context(), instituteID, facultyID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "faculty deleted"})
}

func (h *FacultyHandler) ListFaculties(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	faculties, err := h.service.ListFaculties(c.Request.Context(), instituteID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": faculties})
}

// BrowseFaculties lists another institute's faculties and courses. Any
// signed-in role may browse; editing stays with the owning institute.
func (h *FacultyHandler) BrowseFaculties(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institute ID"})
		return
	}

	faculties, err := h.service.ListFaculties(c.Request.Context(), instituteID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": faculties})
}

func (h *FacultyHandler) CreateCourse(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	facultyID, err := uuid.Parse(c.Param("faculty_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid faculty ID"})
		return
	}

	var input dto.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	course, err := h.service.CreateCourse(c.Request.Context(), instituteID, facultyID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": course})
}

func (h *FacultyHandler) UpdateCourse(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	var input dto.UpdateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), instituteID, courseID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": course})
}

func (h *FacultyHandler) DeleteCourse(c *gin.Context) {
	instituteID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), instituteID, courseID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}
