// Package bootstrap prepares a chat database: collections, indexes and seed documents.
//
// Steps run in a fixed order and the first failure aborts the rest. Nothing is
// retried or rolled back. Collection and index creation tolerate a previous run;
// the seed inserts do not, so a second Run fails on the seed chat with
// repository.ErrDuplicateKey.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chatdb-init/internal/models"
	"github.com/fathima-sithara/chatdb-init/internal/schema"
	"github.com/fathima-sithara/chatdb-init/internal/utils"
)

// Store is the persistence surface the bootstrapper needs.
// *repository.Repository implements it against MongoDB.
type Store interface {
	Database() string
	EnsureCollection(ctx context.Context, name string) error
	EnsureIndex(ctx context.Context, idx schema.Index) (string, error)
	InsertChat(ctx context.Context, c *models.Chat) error
	InsertMessage(ctx context.Context, m *models.Message) error

	CollectionNames(ctx context.Context) ([]string, error)
	Indexes(ctx context.Context, collection string) ([]schema.Index, error)
	CountChats(ctx context.Context, chatID int64) (int64, error)
	ChatsByParticipant(ctx context.Context, userID int64, limit int64) ([]*models.Chat, error)
	RecentMessages(ctx context.Context, chatID int64, limit int64) ([]*models.Message, error)
}

// Observer receives the outcome of every executed step.
type Observer interface {
	ObserveStep(step string, d time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveStep(string, time.Duration, error) {}

type Option func(*Bootstrapper)

func WithObserver(o Observer) Option {
	return func(b *Bootstrapper) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithClock sets the source of created_at and timestamp values.
func WithClock(now func() time.Time) Option {
	return func(b *Bootstrapper) {
		if now != nil {
			b.now = now
		}
	}
}

type Bootstrapper struct {
	store    Store
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

func New(store Store, logger *zap.Logger, opts ...Option) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bootstrapper{
		store:    store,
		logger:   logger,
		observer: noopObserver{},
		now:      utils.NowUTC,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type Result struct {
	Database string
	Steps    []string
	Chat     *models.Chat
	Message  *models.Message
	Duration time.Duration
}

type step struct {
	name string
	run  func(ctx context.Context, res *Result) error
}

// Run executes schema and seed steps.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	return b.exec(ctx, append(b.schemaSteps(), b.seedSteps()...))
}

// Schema creates collections and indexes without inserting documents.
func (b *Bootstrapper) Schema(ctx context.Context) (*Result, error) {
	return b.exec(ctx, b.schemaSteps())
}

// Seed inserts the seed chat and its welcome message.
func (b *Bootstrapper) Seed(ctx context.Context) (*Result, error) {
	return b.exec(ctx, b.seedSteps())
}

func (b *Bootstrapper) schemaSteps() []step {
	steps := []step{{name: "select_database", run: b.selectDatabase}}
	for _, name := range schema.Collections() {
		name := name
		steps = append(steps, step{
			name: "create_collection_" + name,
			run: func(ctx context.Context, _ *Result) error {
				return b.store.EnsureCollection(ctx, name)
			},
		})
	}
	for _, idx := range schema.Indexes() {
		idx := idx
		steps = append(steps, step{
			name: "create_index_" + idx.Name,
			run: func(ctx context.Context, _ *Result) error {
				_, err := b.store.EnsureIndex(ctx, idx)
				return err
			},
		})
	}
	return steps
}

func (b *Bootstrapper) seedSteps() []step {
	return []step{
		{name: "insert_seed_chat", run: b.insertSeedChat},
		{name: "insert_seed_message", run: b.insertSeedMessage},
	}
}

func (b *Bootstrapper) selectDatabase(_ context.Context, res *Result) error {
	res.Database = b.store.Database()
	b.logger.Debug("database selected", zap.String("database", res.Database))
	return nil
}

func (b *Bootstrapper) insertSeedChat(ctx context.Context, res *Result) error {
	c := SeedChat(b.now())
	if err := b.store.InsertChat(ctx, c); err != nil {
		return err
	}
	res.Chat = c
	return nil
}

func (b *Bootstrapper) insertSeedMessage(ctx context.Context, res *Result) error {
	m := SeedMessage(b.now())
	if err := b.store.InsertMessage(ctx, m); err != nil {
		return err
	}
	res.Message = m
	return nil
}

func (b *Bootstrapper) exec(ctx context.Context, steps []step) (*Result, error) {
	start := time.Now()
	res := &Result{Database: b.store.Database()}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			b.observer.ObserveStep(s.name, 0, err)
			b.logger.Warn("bootstrap interrupted", zap.String("step", s.name), zap.Error(err))
			res.Duration = time.Since(start)
			return res, fmt.Errorf("%s: %w", s.name, err)
		}

		t0 := time.Now()
		err := s.run(ctx, res)
		d := time.Since(t0)
		b.observer.ObserveStep(s.name, d, err)

		if err != nil {
			b.logger.Error("bootstrap step failed",
				zap.String("step", s.name),
				zap.Duration("duration", d),
				zap.Error(err),
			)
			res.Duration = time.Since(start)
			return res, fmt.Errorf("%s: %w", s.name, err)
		}
		b.logger.Info("bootstrap step done",
			zap.String("step", s.name),
			zap.Duration("duration", d),
		)
		res.Steps = append(res.Steps, s.name)
	}

	res.Duration = time.Since(start)
	return res, nil
}
