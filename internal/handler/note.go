package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/notekeep/notekeep-go/internal/middleware"
	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/service"
)

// NoteHandler handles HTTP requests for note operations.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// HandleList handles GET /notes requests.
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	notes, err := h.service.List(r.Context(), user)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleCreate handles POST /notes requests.
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.NoteCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		h.writeNoteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /notes/{note_id} requests.
func (h *NoteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := h.target(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), user, noteID)
	if err != nil {
		h.writeNoteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /notes/{note_id} requests.
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := h.target(w, r)
	if !ok {
		return
	}

	var req model.NoteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), user, noteID, req)
	if err != nil {
		h.writeNoteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /notes/{note_id} requests.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user, noteID); err != nil {
		h.writeNoteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleExportPDF handles GET /notes/{note_id}/pdf and its alias
// GET /notes/{note_id}/export/pdf.
func (h *NoteHandler) HandleExportPDF(w http.ResponseWriter, r *http.Request) {
	user, noteID, ok := h.target(w, r)
	if !ok {
		return
	}

	filename, data, err := h.service.ExportPDF(r.Context(), user, noteID)
	if err != nil {
		h.writeNoteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// target returns the authenticated user and the note ID from the URL.
func (h *NoteHandler) target(w http.ResponseWriter, r *http.Request) (*model.User, int64, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return nil, 0, false
	}

	noteID, err := strconv.ParseInt(chi.URLParam(r, "note_id"), 10, 64)
	if err != nil || noteID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid note id"))
		return nil, 0, false
	}

	return user, noteID, true
}

func (h *NoteHandler) writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrNoUpdates):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeInternalError(w, r, err)
	}
}
