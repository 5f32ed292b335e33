package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// CourseController handles course-related operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// bindBody decodes the JSON body into obj. An empty body decodes to the zero value.
func bindBody(ctx *gin.Context, obj interface{}) error {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewBadRequestError(err.Error())
	}
	return nil
}

// GetAllCourses retrieves all courses
// @Summary Get all courses
// @Description Retrieves every stored course
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course "Courses retrieved successfully"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a course; credits may be sent as a number or a numeric string
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} models.Course "Course created successfully"
// @Failure 400 {object} dto.MessageResponse "Invalid request data"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := bindBody(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, course)
}

// GetCourseByID retrieves a course by ID
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course "Course retrieved successfully"
// @Failure 404 {object} dto.MessageResponse "Course not found"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	course, err := c.courseService.GetCourse(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// UpdateCourse partially updates an existing course
// @Summary Update a course
// @Description Applies only the fields present in the body; omitted fields keep their stored values
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course "Course updated successfully"
// @Failure 400 {object} dto.MessageResponse "Invalid request data"
// @Failure 404 {object} dto.MessageResponse "Course not found"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := bindBody(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.MessageResponse "Course deleted"
// @Failure 404 {object} dto.MessageResponse "Course not found"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: dto.MessageCourseDeleted})
}

// GenerateReport aggregates the courses matching the query filters
// @Summary Course report
// @Description Totals and average credits for the courses matching every given filter
// @Tags courses
// @Produce json
// @Param department query string false "Department"
// @Param level query string false "Level"
// @Param semester query string false "Semester"
// @Success 200 {object} models.CourseReport "Report generated successfully"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Router /courses/report [get]
func (c *CourseController) GenerateReport(ctx *gin.Context) {
	var filter models.ReportFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	report, err := c.courseService.GenerateReport(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}
