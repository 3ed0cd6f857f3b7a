package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notekeep/notekeep-go/internal/model"
)

var ErrNoteNotFound = errors.New("note not found")

const selectNote = `SELECT id, owner_id, title, content, created_at, updated_at FROM notes`

// NoteRepository handles note persistence. Every lookup and mutation of a
// single note is filtered by both its ID and its owner in the same statement.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note owned by ownerID and returns the stored row.
func (r *NoteRepository) Create(ctx context.Context, ownerID int64, title, content string) (*model.Note, error) {
	var note *model.Note
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO notes (owner_id, title, content) VALUES (?, ?, ?)`, ownerID, title, content)
		if err != nil {
			return fmt.Errorf("inserting note: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading note id: %w", err)
		}

		note, err = scanNote(tx.QueryRowContext(ctx, selectNote+` WHERE id = ? AND owner_id = ?`, id, ownerID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetOwned retrieves a note only if it belongs to ownerID.
func (r *NoteRepository) GetOwned(ctx context.Context, id, ownerID int64) (*model.Note, error) {
	return scanNote(r.db.QueryRowContext(ctx, selectNote+` WHERE id = ? AND owner_id = ?`, id, ownerID))
}

// ListByOwner retrieves all notes of ownerID, newest first.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		selectNote+` WHERE owner_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// UpdateOwned applies the non-nil fields to the note if it belongs to ownerID.
// The row is locked for the duration of the transaction.
func (r *NoteRepository) UpdateOwned(ctx context.Context, id, ownerID int64, title, content *string) (*model.Note, error) {
	var note *model.Note
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		current, err := scanNote(tx.QueryRowContext(ctx,
			selectNote+` WHERE id = ? AND owner_id = ? FOR UPDATE`, id, ownerID))
		if err != nil {
			return err
		}

		if title != nil {
			current.Title = *title
		}
		if content != nil {
			current.Content = *content
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE notes SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP(6) WHERE id = ? AND owner_id = ?`,
			current.Title, current.Content, id, ownerID); err != nil {
			return fmt.Errorf("updating note: %w", err)
		}

		note, err = scanNote(tx.QueryRowContext(ctx, selectNote+` WHERE id = ? AND owner_id = ?`, id, ownerID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteOwned removes the note if it belongs to ownerID.
func (r *NoteRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func scanNote(row *sql.Row) (*model.Note, error) {
	note := &model.Note{}
	err := row.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("querying note: %w", err)
	}
	return note, nil
}
