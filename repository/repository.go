// Package repository is the persistence core: per-entity repositories over
// gorm, the translation of storage constraint failures and the unit of work
// that binds both repositories to a single transaction.
package repository

import (
	"context"
	"errors"

	"qaservice/models"
	"qaservice/schemas"

	"gorm.io/gorm"
)

// Repository is the data access contract shared by every entity. Rows of type
// M go in, read models of type R come out.
type Repository[M any, R any] interface {
	// AddOne inserts row and returns the generated primary key.
	AddOne(ctx context.Context, row M) (uint, error)
	// DelOne reports whether a row with the given id was removed.
	DelOne(ctx context.Context, id uint) (bool, error)
	// FindOne returns false when no row has the given id.
	FindOne(ctx context.Context, id uint) (R, bool, error)
	FindAll(ctx context.Context) ([]R, error)
}

type QuestionRepository = Repository[models.Question, schemas.Question]

type AnswerRepository = Repository[models.Answer, schemas.Answer]

// record is satisfied by the gorm row types in models.
type record[R any] interface {
	PrimaryKey() uint
	ToReadModel() R
}

// QueryOption adjusts the read queries of a repository.
type QueryOption func(db *gorm.DB) *gorm.DB

// PreloadAnswers eager-loads each question's answers with one extra query for
// the whole result set.
func PreloadAnswers(db *gorm.DB) *gorm.DB {
	return db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("answers.id")
	})
}

type gormRepository[M record[R], R any] struct {
	db      *gorm.DB
	options []QueryOption
}

func newGormRepository[M record[R], R any](db *gorm.DB, options ...QueryOption) *gormRepository[M, R] {
	return &gormRepository[M, R]{db: db, options: options}
}

// NewQuestionRepository builds a question repository on db, which is usually
// the transaction of a unit of work.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return newGormRepository[models.Question, schemas.Question](db, PreloadAnswers)
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return newGormRepository[models.Answer, schemas.Answer](db)
}

func (r *gormRepository[M, R]) AddOne(ctx context.Context, row M) (uint, error) {
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, TranslateError(err)
	}
	return row.PrimaryKey(), nil
}

func (r *gormRepository[M, R]) DelOne(ctx context.Context, id uint) (bool, error) {
	var row M
	result := r.db.WithContext(ctx).Delete(&row, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository[M, R]) FindOne(ctx context.Context, id uint) (R, bool, error) {
	var (
		row  M
		zero R
	)
	err := r.query(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return row.ToReadModel(), true, nil
}

func (r *gormRepository[M, R]) FindAll(ctx context.Context) ([]R, error) {
	var rows []M
	if err := r.query(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]R, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToReadModel())
	}
	return out, nil
}

func (r *gormRepository[M, R]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, opt := range r.options {
		q = opt(q)
	}
	return q
}
