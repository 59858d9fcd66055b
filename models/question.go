package models

import (
	"time"

	"qaservice/schemas"
)

type Question struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:10000;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`

	// Relationships
	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (q Question) PrimaryKey() uint {
	return q.ID
}

// ToReadModel copies the row into a plain read model. Answers are only
// present when the row was loaded with them.
func (q Question) ToReadModel() schemas.Question {
	answers := make([]schemas.Answer, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, a.ToReadModel())
	}
	return schemas.Question{
		ID:        q.ID,
		Text:      q.Text,
		CreatedAt: q.CreatedAt,
		Answers:   answers,
	}
}
