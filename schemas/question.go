package schemas

import "time"

type QuestionCreate struct {
	Text string `json:"text" binding:"required,min=1,max=10000"`
}

// Question is the read model of a question together with its answers.
type Question struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Answers   []Answer  `json:"answers"`
}
