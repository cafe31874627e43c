package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/internal/store"
	"github.com/jotterhq/jotter/pkg/idx"
	"github.com/jotterhq/jotter/pkg/slogx"
)

// MaxNoteTitleLen and MaxNoteValueLen bound note fields so a single
// row stays comfortably small.
const (
	MaxNoteTitleLen = 200
	MaxNoteValueLen = 50_000
)

// NoteService owns note CRUD. Every operation is scoped to the owner;
// a note belonging to someone else is indistinguishable from one that
// does not exist.
type NoteService struct {
	Store store.Store
}

// NoteParams carries the writable fields of a note.
type NoteParams struct {
	Title string
	Value string
}

func (p NoteParams) validate() (NoteParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return p, &ValidationError{Msg: "title is required"}
	}
	if len(p.Title) > MaxNoteTitleLen {
		return p, &ValidationError{Msg: fmt.Sprintf("title exceeds %d characters", MaxNoteTitleLen)}
	}
	if len(p.Value) > MaxNoteValueLen {
		return p, &ValidationError{Msg: fmt.Sprintf("value exceeds %d characters", MaxNoteValueLen)}
	}
	return p, nil
}

// CreateNote stores a new note for the user.
func (s *NoteService) CreateNote(ctx context.Context, userID string, p NoteParams) (*domain.Note, error) {
	log := slogx.FromContext(ctx)

	p, err := p.validate()
	if err != nil {
		return nil, err
	}

	note := domain.Note{
		ID:     idx.New().String(),
		UserID: userID,
		Title:  p.Title,
		Value:  p.Value,
	}
	if err := s.Store.Notes().CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	created, err := s.Store.Notes().GetNote(ctx, userID, note.ID)
	if err != nil {
		return nil, fmt.Errorf("load created note: %w", err)
	}

	log.Debug("note created", "note_id", note.ID, "user_id", userID)
	return &created, nil
}

// GetNote returns one of the user's notes.
func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.Store.Notes().GetNote(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: note", ErrNotFound)
		}
		return nil, fmt.Errorf("load note: %w", err)
	}
	return &note, nil
}

// ListNotes returns all of the user's notes, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]domain.Note, error) {
	notes, err := s.Store.Notes().ListNotesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote replaces the title and value of one of the user's notes.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, p NoteParams) (*domain.Note, error) {
	log := slogx.FromContext(ctx)

	p, err := p.validate()
	if err != nil {
		return nil, err
	}

	note, err := s.Store.Notes().GetNote(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: note", ErrNotFound)
		}
		return nil, fmt.Errorf("load note: %w", err)
	}

	note.Title = p.Title
	note.Value = p.Value
	note.UpdatedAt = time.Now().UTC()
	if err := s.Store.Notes().UpdateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: note", ErrNotFound)
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	log.Debug("note updated", "note_id", noteID, "user_id", userID)
	return &note, nil
}

// DeleteNote removes one of the user's notes.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Notes().DeleteNote(ctx, userID, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: note", ErrNotFound)
		}
		return fmt.Errorf("delete note: %w", err)
	}

	log.Debug("note deleted", "note_id", noteID, "user_id", userID)
	return nil
}
