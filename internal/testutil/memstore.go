// Package testutil provides in-memory stores and fixtures for tests that do
// not need MySQL. The stores follow the same contracts as the repository
// package, including its sentinel errors.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notekeep/notekeep-go/internal/crypto"
	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/repository"
)

// FastHashParams keeps Argon2id cheap in tests.
var FastHashParams = crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1}

// Store is an in-memory users and notes store.
type Store struct {
	mu     sync.Mutex
	users  map[int64]model.User
	notes  map[int64]model.Note
	nextID int64
	err    error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[int64]model.User),
		notes: make(map[int64]model.Note),
	}
}

// Users returns the store viewed as a user store.
func (s *Store) Users() *UserStore { return &UserStore{s} }

// Notes returns the store viewed as a note store.
func (s *Store) Notes() *NoteStore { return &NoteStore{s} }

// Fail makes every subsequent call return err. A nil err restores normal behaviour.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// NoteCount returns the number of stored notes across all owners.
func (s *Store) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

type UserStore struct{ s *Store }

func (u *UserStore) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	for _, existing := range s.users {
		if existing.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	user := model.User{ID: s.id(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	s.users[user.ID] = user
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (u *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (u *UserStore) Delete(ctx context.Context, id int64) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for noteID, n := range s.notes {
		if n.OwnerID == id {
			delete(s.notes, noteID)
		}
	}
	delete(s.users, id)
	return nil
}

type NoteStore struct{ s *Store }

func (n *NoteStore) Create(ctx context.Context, ownerID int64, title, content string) (*model.Note, error) {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	now := time.Now().UTC()
	note := model.Note{ID: s.id(), OwnerID: ownerID, Title: title, Content: content, CreatedAt: now, UpdatedAt: now}
	s.notes[note.ID] = note
	return &note, nil
}

// owned must be called with the lock held.
func (n *NoteStore) owned(id, ownerID int64) (model.Note, error) {
	note, ok := n.s.notes[id]
	if !ok || note.OwnerID != ownerID {
		return model.Note{}, repository.ErrNoteNotFound
	}
	return note, nil
}

func (n *NoteStore) GetOwned(ctx context.Context, id, ownerID int64) (*model.Note, error) {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	note, err := n.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (n *NoteStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Note, error) {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	notes := []model.Note{}
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
	return notes, nil
}

func (n *NoteStore) UpdateOwned(ctx context.Context, id, ownerID int64, title, content *string) (*model.Note, error) {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	note, err := n.owned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		note.Title = *title
	}
	if content != nil {
		note.Content = *content
	}
	note.UpdatedAt = time.Now().UTC()
	s.notes[id] = note
	return &note, nil
}

func (n *NoteStore) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	s := n.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	if _, err := n.owned(id, ownerID); err != nil {
		return err
	}
	delete(s.notes, id)
	return nil
}
