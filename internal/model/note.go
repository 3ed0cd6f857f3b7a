package model

import "time"

// Note is a text note owned by exactly one user.
type Note struct {
	ID        int64
	OwnerID   int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteCreateRequest represents a note creation request.
type NoteCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteUpdateRequest represents a partial note update. Nil fields are left unchanged.
type NoteUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNoteResponse converts a Note for the API.
func NewNoteResponse(n *Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
