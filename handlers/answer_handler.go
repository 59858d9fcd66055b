package handlers

import (
	"net/http"

	"qaservice/schemas"
	"qaservice/services"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answerService *services.AnswerService
}

func NewAnswerHandler(answerService *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
	}
}

func (h *AnswerHandler) ListAnswers(c *gin.Context) {
	answers, err := h.answerService.ListAnswers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}

// CreateAnswer handles POST /questions/:id/answers.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req schemas.AnswerCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	id, err := h.answerService.CreateAnswer(c.Request.Context(), questionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, id)
}

func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	answer, err := h.answerService.GetAnswer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.answerService.DeleteAnswer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
