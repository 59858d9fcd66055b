package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// UnitOfWork exposes both repositories bound to one open transaction.
//
// Commit and Rollback end the current transaction and start a new one on the
// same unit, so work done after them is still committed or rolled back when
// the enclosing Do returns.
type UnitOfWork interface {
	Questions() QuestionRepository
	Answers() AnswerRepository
	Commit() error
	Rollback() error
}

// Transactor runs a function inside a unit of work.
type Transactor interface {
	// Do commits when fn returns nil and rolls back when it returns an error
	// or panics. The connection is released in every case.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Do(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := &gormUnitOfWork{db: t.db.WithContext(ctx)}
	if err := uow.begin(); err != nil {
		return err
	}

	defer func() {
		if v := recover(); v != nil {
			uow.abort()
			panic(v)
		}
	}()

	if err := fn(uow); err != nil {
		if rerr := uow.abort(); rerr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rerr)
		}
		return err
	}

	if uow.tx == nil {
		return errNoTransaction
	}
	tx := uow.tx
	uow.tx = nil
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var errNoTransaction = errors.New("no open transaction")

// tx is nil between finishing a transaction and a successful begin.
type gormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	questions QuestionRepository
	answers   AnswerRepository
}

func (u *gormUnitOfWork) begin() error {
	tx := u.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	u.tx = tx
	u.questions = NewQuestionRepository(tx)
	u.answers = NewAnswerRepository(tx)
	return nil
}

func (u *gormUnitOfWork) Questions() QuestionRepository {
	return u.questions
}

func (u *gormUnitOfWork) Answers() AnswerRepository {
	return u.answers
}

func (u *gormUnitOfWork) Commit() error {
	if u.tx == nil {
		return errNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return u.begin()
}

func (u *gormUnitOfWork) Rollback() error {
	if u.tx == nil {
		return errNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return u.begin()
}

// abort rolls back the open transaction, if any.
func (u *gormUnitOfWork) abort() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	return tx.Rollback().Error
}
