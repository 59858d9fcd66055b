package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"qaservice/services"

	"github.com/gin-gonic/gin"
)

// respondError writes the HTTP outcome of a service error. Not-found errors
// are expected; anything else is logged and reported without detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Question not found"})
	case errors.Is(err, services.ErrAnswerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Answer not found"})
	default:
		log.Printf("Unexpected error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
