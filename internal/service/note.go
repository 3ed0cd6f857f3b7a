package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/pdf"
	"github.com/notekeep/notekeep-go/internal/repository"
)

const maxTitleLength = 255

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be at most 255 characters")
	ErrNoUpdates     = errors.New("no updates provided")
)

// NoteService handles note business logic. Every operation on a single note
// goes through the owner-scoped store methods, so a note that belongs to
// someone else is reported exactly like one that does not exist.
type NoteService struct {
	notes NoteStore
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

// Authorize returns the note only if it is owned by user.
func (s *NoteService) Authorize(ctx context.Context, user *model.User, noteID int64) (*model.Note, error) {
	note, err := s.notes.GetOwned(ctx, noteID, user.ID)
	if err != nil {
		return nil, translateNoteErr(err)
	}
	return note, nil
}

// List returns the user's notes, newest first.
func (s *NoteService) List(ctx context.Context, user *model.User) ([]model.NoteResponse, error) {
	notes, err := s.notes.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	result := make([]model.NoteResponse, len(notes))
	for i := range notes {
		result[i] = model.NewNoteResponse(&notes[i])
	}
	return result, nil
}

// Create stores a new note owned by user.
func (s *NoteService) Create(ctx context.Context, user *model.User, req model.NoteCreateRequest) (model.NoteResponse, error) {
	if err := validateTitle(req.Title); err != nil {
		return model.NoteResponse{}, err
	}

	note, err := s.notes.Create(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		return model.NoteResponse{}, fmt.Errorf("creating note: %w", err)
	}
	return model.NewNoteResponse(note), nil
}

// Get returns one of the user's notes.
func (s *NoteService) Get(ctx context.Context, user *model.User, noteID int64) (model.NoteResponse, error) {
	note, err := s.Authorize(ctx, user, noteID)
	if err != nil {
		return model.NoteResponse{}, err
	}
	return model.NewNoteResponse(note), nil
}

// Update changes the title and/or content of one of the user's notes.
func (s *NoteService) Update(ctx context.Context, user *model.User, noteID int64, req model.NoteUpdateRequest) (model.NoteResponse, error) {
	if req.Title == nil && req.Content == nil {
		return model.NoteResponse{}, ErrNoUpdates
	}
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			return model.NoteResponse{}, err
		}
	}

	note, err := s.notes.UpdateOwned(ctx, noteID, user.ID, req.Title, req.Content)
	if err != nil {
		return model.NoteResponse{}, translateNoteErr(err)
	}
	return model.NewNoteResponse(note), nil
}

// Delete removes one of the user's notes.
func (s *NoteService) Delete(ctx context.Context, user *model.User, noteID int64) error {
	return translateNoteErr(s.notes.DeleteOwned(ctx, noteID, user.ID))
}

// ExportPDF renders one of the user's notes and returns a download filename
// together with the document.
func (s *NoteService) ExportPDF(ctx context.Context, user *model.User, noteID int64) (string, []byte, error) {
	note, err := s.Authorize(ctx, user, noteID)
	if err != nil {
		return "", nil, err
	}

	data, err := pdf.RenderNote(note.Title, note.Content)
	if err != nil {
		return "", nil, err
	}
	return pdf.Filename(note.Title), data, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func translateNoteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNoteNotFound):
		return ErrNoteNotFound
	default:
		return fmt.Errorf("accessing note: %w", err)
	}
}
