package models

import (
	"time"

	"qaservice/schemas"
)

type Answer struct {
	ID         uint      `gorm:"primaryKey"`
	QuestionID uint      `gorm:"not null;index"`
	UserID     string    `gorm:"size:200;not null"`
	Text       string    `gorm:"size:10000;not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false"`
}

func (a Answer) PrimaryKey() uint {
	return a.ID
}

func (a Answer) ToReadModel() schemas.Answer {
	return schemas.Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
		Text:       a.Text,
		CreatedAt:  a.CreatedAt,
	}
}
