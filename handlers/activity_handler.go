package handlers

import (
	"log"
	"net/http"

	"qaservice/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ActivityHandler streams the events of one question over a websocket.
type ActivityHandler struct {
	questionService *services.QuestionService
	hub             *services.Hub
}

func NewActivityHandler(questionService *services.QuestionService, hub *services.Hub) *ActivityHandler {
	return &ActivityHandler{
		questionService: questionService,
		hub:             hub,
	}
}

func (h *ActivityHandler) Watch(c *gin.Context) {
	questionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.questionService.GetQuestion(c.Request.Context(), questionID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed for question %d: %v", questionID, err)
		return
	}

	h.hub.RegisterClient(conn, questionID)
}
