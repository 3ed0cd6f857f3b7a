package service

import (
	"context"

	"github.com/notekeep/notekeep-go/internal/model"
)

// UserStore persists users. Lookups return repository.ErrUserNotFound when
// nothing matches and Create returns repository.ErrDuplicateEmail on conflict.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

// NoteStore persists notes. Every single-note method is filtered by both the
// note ID and the owner ID atomically and returns repository.ErrNoteNotFound
// when the pair does not match.
type NoteStore interface {
	Create(ctx context.Context, ownerID int64, title, content string) (*model.Note, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*model.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Note, error)
	UpdateOwned(ctx context.Context, id, ownerID int64, title, content *string) (*model.Note, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
