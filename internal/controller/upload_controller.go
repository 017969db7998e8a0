package controller

import (
	"errors"
	"net/http"

	"valentine_quiz_backend/internal/service"
	"valentine_quiz_backend/internal/util"
	"valentine_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	service *service.QuizService
}

func NewUploadController(s *service.QuizService) *UploadController {
	return &UploadController{service: s}
}

// UploadImage godoc
// @Summary Upload a quiz image
// @Description Incremental per-slot image upload during editing. Re-uploading a slot replaces its blob. HEIC/HEIF is converted to JPEG.
// @Tags quizzes
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "draft quiz id"
// @Param slot formData string true "final, or the question id"
// @Param file formData file true "image file"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /api/quizzes/{id}/images [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	quizID := ctx.Param("id")
	slot := ctx.PostForm("slot")
	if slot == "" {
		util.BadRequest(ctx, "slot is required")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}

	url, err := c.service.UploadQuizImage(ctx.Request.Context(), quizID, slot, file)
	if err != nil {
		monitoring.ImageUploadCounter.WithLabelValues("rejected").Inc()
		switch {
		case errors.Is(err, util.ErrImageTooLarge):
			util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, util.ErrUnsupportedImage), errors.Is(err, util.ErrConversionFailed):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.ImageUploadCounter.WithLabelValues("stored").Inc()
	util.Success(ctx, gin.H{"url": url})
}
