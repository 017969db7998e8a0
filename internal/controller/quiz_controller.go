package controller

import (
	"errors"
	"net/http"

	"valentine_quiz_backend/internal/model"
	"valentine_quiz_backend/internal/service"
	"valentine_quiz_backend/internal/util"
	"valentine_quiz_backend/pkg/logger"
	"valentine_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	service *service.QuizService
}

func NewQuizController(s *service.QuizService) *QuizController {
	return &QuizController{service: s}
}

// CreateQuizResponse is the body of a successful save.
type CreateQuizResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateQuiz godoc
// @Summary Save a quiz
// @Description Persists a complete quiz; inline data-URL images are decoded and moved to blob storage.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body model.Quiz true "quiz"
// @Success 200 {object} CreateQuizResponse
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var quiz model.Quiz
	if err := ctx.ShouldBindJSON(&quiz); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid quiz payload"})
		return
	}

	id, err := c.service.CreateQuiz(ctx.Request.Context(), &quiz)
	if err != nil {
		if errors.Is(err, util.ErrQuizIncomplete) {
			ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logger.Log.Error("quiz create failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save quiz"})
		return
	}

	monitoring.QuizCreatedCounter.Inc()
	ctx.JSON(http.StatusOK, CreateQuizResponse{ID: id})
}

// GetQuiz godoc
// @Summary Fetch a quiz by id
// @Description Returns the persisted quiz for a share link. All miss reasons surface the same way.
// @Tags quizzes
// @Produce json
// @Param id path string true "quiz id"
// @Success 200 {object} model.Quiz
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: "missing quiz id"})
		return
	}

	quiz, err := c.service.FetchQuiz(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, errorResponse{Error: "quiz not found or link expired"})
		return
	}

	// The record id travels in the link, not the body.
	quiz.ID = ""
	ctx.JSON(http.StatusOK, quiz)
}
