package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const prefixByID = "session:id:"

type Repository struct {
	db *badger.DB
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// Create stores a new session without a repository path.
func (r *Repository) Create(_ context.Context) (*Session, error) {
	model := newSessionModel()

	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if setErr := txn.Set(r.getByIDKey(model.ID), data); setErr != nil {
			return fmt.Errorf("failed to store session: %w", setErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return newSession(model), nil
}

// GetByID retrieves a session by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	var session *sessionModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.getByID(txn, id)
		if err == nil {
			session = found
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	return newSession(session), nil
}

// Update applies updater to the stored session and returns the result.
func (r *Repository) Update(_ context.Context, id uuid.UUID, updater func(*Session) error) (*Session, error) {
	var updated *sessionModel

	err := r.db.Update(func(txn *badger.Txn) error {
		old, err := r.getByID(txn, id)
		if err != nil {
			return err
		}

		session := newSession(old)
		if updErr := updater(session); updErr != nil {
			return fmt.Errorf("failed to update session: %w", updErr)
		}

		model := &sessionModel{
			ID:        old.ID,
			RepoPath:  session.RepoPath,
			CreatedAt: old.CreatedAt,
			UpdatedAt: time.Now(),
		}

		data, err := json.Marshal(model)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if setErr := txn.Set(r.getByIDKey(model.ID), data); setErr != nil {
			return fmt.Errorf("failed to update session: %w", setErr)
		}

		updated = model
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return newSession(updated), nil
}

// Delete deletes a session.
func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := r.getByID(txn, id); err != nil {
			return err
		}

		if delErr := txn.Delete(r.getByIDKey(id)); delErr != nil {
			return fmt.Errorf("failed to delete session: %w", delErr)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *Repository) getByID(txn *badger.Txn, id uuid.UUID) (*sessionModel, error) {
	var session sessionModel

	item, err := txn.Get(r.getByIDKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if valErr := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &session)
	}); valErr != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", valErr)
	}

	return &session, nil
}

// getByIDKey generates the key for storing a session.
func (r *Repository) getByIDKey(id uuid.UUID) []byte {
	return []byte(prefixByID + id.String())
}
