package services

import (
	"context"
	"testing"

	"qaservice/repository"
	"qaservice/schemas"

	"github.com/stretchr/testify/require"
)

func TestAnswerService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	questionID, err := s.questions.CreateQuestion(ctx, schemas.QuestionCreate{Text: "Q"})
	require.NoError(t, err)

	answerID, err := s.answers.CreateAnswer(ctx, questionID, schemas.AnswerCreate{UserID: "alice", Text: "A"})
	require.NoError(t, err)
	require.NotZero(t, answerID)

	answer, err := s.answers.GetAnswer(ctx, answerID)
	require.NoError(t, err)
	require.Equal(t, answerID, answer.ID)
	require.Equal(t, questionID, answer.QuestionID)
	require.Equal(t, "alice", answer.UserID)
	require.Equal(t, "A", answer.Text)
	require.False(t, answer.CreatedAt.IsZero())

	question, err := s.questions.GetQuestion(ctx, questionID)
	require.NoError(t, err)
	require.Len(t, question.Answers, 1)
	require.Equal(t, answerID, question.Answers[0].ID)
	require.Equal(t, "alice", question.Answers[0].UserID)

	events := s.events.Events()
	require.Len(t, events, 2)
	require.Equal(t, Event{Type: EventAnswerCreated, QuestionID: questionID, AnswerID: answerID, At: events[1].At}, events[1])
}

func TestAnswerService_CreateForMissingQuestion(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	_, err := s.answers.CreateAnswer(ctx, 42, schemas.AnswerCreate{UserID: "alice", Text: "A"})
	require.ErrorIs(t, err, ErrQuestionNotFound)
	require.NotErrorIs(t, err, repository.ErrForeignKeyViolation)

	answers, err := s.answers.ListAnswers(ctx)
	require.NoError(t, err)
	require.Empty(t, answers)
	require.Empty(t, s.events.Events())
}

func TestAnswerService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	questionID, err := s.questions.CreateQuestion(ctx, schemas.QuestionCreate{Text: "Q"})
	require.NoError(t, err)
	keep, err := s.answers.CreateAnswer(ctx, questionID, schemas.AnswerCreate{UserID: "u1", Text: "keep"})
	require.NoError(t, err)
	drop, err := s.answers.CreateAnswer(ctx, questionID, schemas.AnswerCreate{UserID: "u2", Text: "drop"})
	require.NoError(t, err)

	require.NoError(t, s.answers.DeleteAnswer(ctx, drop))

	_, err = s.answers.GetAnswer(ctx, drop)
	require.ErrorIs(t, err, ErrAnswerNotFound)
	err = s.answers.DeleteAnswer(ctx, drop)
	require.ErrorIs(t, err, ErrAnswerNotFound)

	question, err := s.questions.GetQuestion(ctx, questionID)
	require.NoError(t, err)
	require.Len(t, question.Answers, 1)
	require.Equal(t, keep, question.Answers[0].ID)

	events := s.events.Events()
	last := events[len(events)-1]
	require.Equal(t, EventAnswerDeleted, last.Type)
	require.Equal(t, questionID, last.QuestionID)
	require.Equal(t, drop, last.AnswerID)
}

func TestAnswerService_GetMissing(t *testing.T) {
	s := newTestServices(t)

	_, err := s.answers.GetAnswer(context.Background(), 7)
	require.ErrorIs(t, err, ErrAnswerNotFound)
}

func TestAnswerService_ListAcrossQuestions(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	q1, err := s.questions.CreateQuestion(ctx, schemas.QuestionCreate{Text: "Q1"})
	require.NoError(t, err)
	q2, err := s.questions.CreateQuestion(ctx, schemas.QuestionCreate{Text: "Q2"})
	require.NoError(t, err)
	a1, err := s.answers.CreateAnswer(ctx, q1, schemas.AnswerCreate{UserID: "u", Text: "a1"})
	require.NoError(t, err)
	a2, err := s.answers.CreateAnswer(ctx, q2, schemas.AnswerCreate{UserID: "u", Text: "a2"})
	require.NoError(t, err)

	answers, err := s.answers.ListAnswers(ctx)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	require.Equal(t, a1, answers[0].ID)
	require.Equal(t, q1, answers[0].QuestionID)
	require.Equal(t, a2, answers[1].ID)
	require.Equal(t, q2, answers[1].QuestionID)
}

func TestAnswerService_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	s := NewAnswerService(failingTransactor{err: errStorageDown}, nil)

	_, err := s.CreateAnswer(ctx, 1, schemas.AnswerCreate{UserID: "u", Text: "A"})
	require.ErrorIs(t, err, errStorageDown)
	_, err = s.GetAnswer(ctx, 1)
	require.ErrorIs(t, err, errStorageDown)
	_, err = s.ListAnswers(ctx)
	require.ErrorIs(t, err, errStorageDown)
	err = s.DeleteAnswer(ctx, 1)
	require.ErrorIs(t, err, errStorageDown)
}

func TestAnswerService_UniqueViolationIsNotMapped(t *testing.T) {
	ctx := context.Background()
	s := NewAnswerService(failingTransactor{err: repository.ErrUniqueViolation}, nil)

	_, err := s.CreateAnswer(ctx, 1, schemas.AnswerCreate{UserID: "u", Text: "A"})
	require.ErrorIs(t, err, repository.ErrUniqueViolation)
	require.NotErrorIs(t, err, ErrQuestionNotFound)
}
