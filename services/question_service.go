package services

import (
	"context"

	"qaservice/models"
	"qaservice/repository"
	"qaservice/schemas"
)

type QuestionService struct {
	tx     repository.Transactor
	events EventPublisher
}

func NewQuestionService(tx repository.Transactor, events EventPublisher) *QuestionService {
	return &QuestionService{tx: tx, events: events}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req schemas.QuestionCreate) (uint, error) {
	var id uint
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		id, err = uow.Questions().AddOne(ctx, models.Question{Text: req.Text})
		return err
	})
	if err != nil {
		return 0, err
	}

	publish(ctx, s.events, Event{Type: EventQuestionCreated, QuestionID: id})
	return id, nil
}

// DeleteQuestion removes the question; storage cascades the delete to its answers.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id uint) error {
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		deleted, err := uow.Questions().DelOne(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrQuestionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.events, Event{Type: EventQuestionDeleted, QuestionID: id})
	return nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id uint) (schemas.Question, error) {
	var question schemas.Question
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		q, found, err := uow.Questions().FindOne(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrQuestionNotFound
		}
		question = q
		return nil
	})
	return question, err
}

func (s *QuestionService) ListQuestions(ctx context.Context) ([]schemas.Question, error) {
	var questions []schemas.Question
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		questions, err = uow.Questions().FindAll(ctx)
		return err
	})
	return questions, err
}
