package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"qaservice/config"
	"qaservice/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:          config.DriverSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "qa.db"),
		DBPoolSize:        2,
		DBMaxOverflow:     2,
		DBConnMaxLifetime: time.Hour,
		DBLogLevel:        "silent",
	}
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { config.CloseDB(db) })
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// failingTransactor runs nothing and fails every unit of work with err.
type failingTransactor struct {
	err error
}

func (t failingTransactor) Do(context.Context, func(repository.UnitOfWork) error) error {
	return t.err
}

var errStorageDown = errors.New("storage down")

type testServices struct {
	questions *QuestionService
	answers   *AnswerService
	events    *recordingPublisher
}

func newTestServices(t *testing.T) testServices {
	t.Helper()

	events := &recordingPublisher{}
	tx := repository.NewTransactor(newTestDB(t))
	return testServices{
		questions: NewQuestionService(tx, events),
		answers:   NewAnswerService(tx, events),
		events:    events,
	}
}
