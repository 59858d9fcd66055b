package routes

import (
	"qaservice/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	questionHandler *handlers.QuestionHandler,
	answerHandler *handlers.AnswerHandler,
	activityHandler *handlers.ActivityHandler,
) {
	api := router.Group("/api")
	{
		api.GET("/health", handlers.Health)

		v1 := api.Group("/v1")
		{
			questions := v1.Group("/questions")
			{
				questions.GET("", questionHandler.ListQuestions)
				questions.POST("", questionHandler.CreateQuestion)
				questions.GET("/:id", questionHandler.GetQuestion)
				questions.DELETE("/:id", questionHandler.DeleteQuestion)
				questions.POST("/:id/answers", answerHandler.CreateAnswer)
			}

			answers := v1.Group("/answers")
			{
				answers.GET("", answerHandler.ListAnswers)
				answers.GET("/:id", answerHandler.GetAnswer)
				answers.DELETE("/:id", answerHandler.DeleteAnswer)
			}
		}
	}

	// WebSocket feed of a question's activity
	router.GET("/ws/questions/:id", activityHandler.Watch)
}
