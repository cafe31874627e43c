package http

import (
	"net/http"

	"github.com/jotterhq/jotter/internal/service"
	"github.com/jotterhq/jotter/pkg/httpx"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

// NotesHandler serves the note CRUD endpoints. Every operation is
// scoped to the authenticated user from the request context.
type NotesHandler struct {
	NoteService *service.NoteService
}

// HandleList godoc
//
//	@Summary		List Notes Endpoint
//	@Description	Return all of the user's notes, newest first.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	notesdk.NotesData	"notes"
//	@Failure		401	{object}	httpx.Envelope		"unauthorized"
//	@Failure		500	{object}	httpx.Envelope		"server_error"
//	@Router			/notes [get].
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.NoteService.ListNotes(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]notesdk.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}
	httpx.WriteData(w, http.StatusOK, notesdk.NotesData{Notes: out})
}

// HandleCreate godoc
//
//	@Summary		Create Note Endpoint
//	@Description	Store a new note for the user.
//	@Tags			Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		notesdk.NoteRequest	true	"title, value"
//	@Success		201		{object}	notesdk.NoteData	"note"
//	@Failure		400		{object}	httpx.Envelope		"validation_error"
//	@Failure		401		{object}	httpx.Envelope		"unauthorized"
//	@Failure		500		{object}	httpx.Envelope		"server_error"
//	@Router			/notes [post].
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	var req notesdk.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.NoteService.CreateNote(ctx, userID, service.NoteParams{
		Title: req.Title,
		Value: req.Value,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, notesdk.NoteData{Note: toNoteDTO(*note)})
}

// HandleGet godoc
//
//	@Summary		Get Note Endpoint
//	@Description	Return one of the user's notes. Notes owned by anyone else read as
//	@Description	absent.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string				true	"Note ID"
//	@Success		200	{object}	notesdk.NoteData	"note"
//	@Failure		401	{object}	httpx.Envelope		"unauthorized"
//	@Failure		404	{object}	httpx.Envelope		"not_found"
//	@Failure		500	{object}	httpx.Envelope		"server_error"
//	@Router			/notes/{id} [get].
func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	note, err := h.NoteService.GetNote(ctx, userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, notesdk.NoteData{Note: toNoteDTO(*note)})
}

// HandleUpdate godoc
//
//	@Summary		Update Note Endpoint
//	@Description	Replace the title and value of one of the user's notes.
//	@Tags			Notes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Note ID"
//	@Param			request	body		notesdk.NoteRequest	true	"title, value"
//	@Success		200		{object}	notesdk.NoteData	"note"
//	@Failure		400		{object}	httpx.Envelope		"validation_error"
//	@Failure		401		{object}	httpx.Envelope		"unauthorized"
//	@Failure		404		{object}	httpx.Envelope		"not_found"
//	@Failure		500		{object}	httpx.Envelope		"server_error"
//	@Router			/notes/{id} [put].
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	var req notesdk.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.NoteService.UpdateNote(ctx, userID, r.PathValue("id"), service.NoteParams{
		Title: req.Title,
		Value: req.Value,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, notesdk.NoteData{Note: toNoteDTO(*note)})
}

// HandleDelete godoc
//
//	@Summary		Delete Note Endpoint
//	@Description	Remove one of the user's notes.
//	@Tags			Notes
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string				true	"Note ID"
//	@Success		200	{object}	notesdk.DeletedData	"deleted"
//	@Failure		401	{object}	httpx.Envelope		"unauthorized"
//	@Failure		404	{object}	httpx.Envelope		"not_found"
//	@Failure		500	{object}	httpx.Envelope		"server_error"
//	@Router			/notes/{id} [delete].
func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Unauthorized")
		return
	}

	if err := h.NoteService.DeleteNote(ctx, userID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, notesdk.DeletedData{Deleted: true})
}
