package services

import (
	"context"
	"errors"

	"qaservice/models"
	"qaservice/repository"
	"qaservice/schemas"
)

type AnswerService struct {
	tx     repository.Transactor
	events EventPublisher
}

func NewAnswerService(tx repository.Transactor, events EventPublisher) *AnswerService {
	return &AnswerService{tx: tx, events: events}
}

// CreateAnswer attaches an answer to questionID. A missing question surfaces
// as ErrQuestionNotFound.
func (s *AnswerService) CreateAnswer(ctx context.Context, questionID uint, req schemas.AnswerCreate) (uint, error) {
	var id uint
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		id, err = uow.Answers().AddOne(ctx, models.Answer{
			QuestionID: questionID,
			UserID:     req.UserID,
			Text:       req.Text,
		})
		return err
	})
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		return 0, ErrQuestionNotFound
	}
	if err != nil {
		return 0, err
	}

	publish(ctx, s.events, Event{Type: EventAnswerCreated, QuestionID: questionID, AnswerID: id})
	return id, nil
}

func (s *AnswerService) DeleteAnswer(ctx context.Context, id uint) error {
	var questionID uint
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		answer, found, err := uow.Answers().FindOne(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrAnswerNotFound
		}
		questionID = answer.QuestionID

		deleted, err := uow.Answers().DelOne(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrAnswerNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.events, Event{Type: EventAnswerDeleted, QuestionID: questionID, AnswerID: id})
	return nil
}

func (s *AnswerService) GetAnswer(ctx context.Context, id uint) (schemas.Answer, error) {
	var answer schemas.Answer
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		a, found, err := uow.Answers().FindOne(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrAnswerNotFound
		}
		answer = a
		return nil
	})
	return answer, err
}

func (s *AnswerService) ListAnswers(ctx context.Context) ([]schemas.Answer, error) {
	var answers []schemas.Answer
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		answers, err = uow.Answers().FindAll(ctx)
		return err
	})
	return answers, err
}
