package schemas

import "time"

type AnswerCreate struct {
	UserID string `json:"user_id" binding:"required,min=1,max=200"`
	Text   string `json:"text" binding:"required,min=1,max=10000"`
}

type Answer struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
