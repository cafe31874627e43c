package notesdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListNotes returns the signed-in user's notes, newest first.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var data NotesData
	if err := c.callAuth(ctx, http.MethodGet, "/notes", nil, &data, http.StatusOK); err != nil {
		return nil, err
	}
	return data.Notes, nil
}

// CreateNote creates a note and returns it as stored.
func (c *Client) CreateNote(ctx context.Context, req NoteRequest) (*Note, error) {
	var data NoteData
	if err := c.callAuth(ctx, http.MethodPost, "/notes", req, &data, http.StatusCreated); err != nil {
		return nil, err
	}
	return &data.Note, nil
}

// GetNote fetches a single note by ID.
func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	var data NoteData
	if err := c.callAuth(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &data, http.StatusOK); err != nil {
		return nil, err
	}
	return &data.Note, nil
}

// UpdateNote replaces a note's title and value and returns the result.
func (c *Client) UpdateNote(ctx context.Context, id string, req NoteRequest) (*Note, error) {
	var data NoteData
	if err := c.callAuth(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), req, &data, http.StatusOK); err != nil {
		return nil, err
	}
	return &data.Note, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	var data DeletedData
	return c.callAuth(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, &data, http.StatusOK)
}
