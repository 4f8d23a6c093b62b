// Package memory is a process-local implementation of the persistence layer.
// It enforces the same uniqueness rules as the PostgreSQL store and is used by
// the "memory" storage driver and by usecase tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"blog/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type userRecord struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

type postRecord struct {
	id        uuid.UUID
	title     string
	slug      string
	content   string
	tags      []string
	published bool
	authorID  uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

type state struct {
	users       map[uuid.UUID]userRecord
	usersByMail map[string]uuid.UUID
	posts       map[uuid.UUID]postRecord
	postsBySlug map[string]uuid.UUID
}

func (s *state) clone() *state {
	return &state{
		users:       maps.Clone(s.users),
		usersByMail: maps.Clone(s.usersByMail),
		posts:       maps.Clone(s.posts),
		postsBySlug: maps.Clone(s.postsBySlug),
	}
}

// Store holds users and posts behind a single lock.
type Store struct {
	mu    sync.RWMutex
	data  *state
	txMu  sync.Mutex
	users *userRepository
	posts *postRepository
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{
		data: &state{
			users:       make(map[uuid.UUID]userRecord),
			usersByMail: make(map[string]uuid.UUID),
			posts:       make(map[uuid.UUID]postRecord),
			postsBySlug: make(map[string]uuid.UUID),
		},
	}
	s.users = &userRepository{store: s}
	s.posts = &postRepository{store: s}

	return s
}

// Users returns the store's UserRepository.
func (s *Store) Users() repository.UserRepository {
	return s.users
}

// Posts returns the store's PostRepository.
func (s *Store) Posts() repository.PostRepository {
	return s.posts
}

// Execute runs fn against the store and restores the previous contents when fn
// fails. Transactions are serialized with each other but not isolated from
// concurrent non-transactional writes.
func (s *Store) Execute(ctx context.Context, fn func(repos repository.RepositoryFactory) error) (err error) {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	restore := func() {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			restore()
			panic(r)
		}
	}()

	if err = fn(s); err != nil {
		restore()

		return err
	}

	return nil
}

var (
	_ repository.RepositoryFactory  = (*Store)(nil)
	_ repository.TransactionManager = (*Store)(nil)
)
