package sqlite

import (
	"context"
	"time"

	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/internal/store"
)

type notesRepo struct {
	db dbtx
}

const noteColumns = `id, user_id, title, value, created_at, updated_at`

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Value, n.CreatedAt, n.UpdatedAt)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *notesRepo) GetNote(ctx context.Context, userID, noteID string) (domain.Note, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`,
		noteID, userID)

	var n domain.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Value, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notesRepo) ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	// ULID primary keys sort by creation time, so id DESC is newest first.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Value, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) UpdateNote(ctx context.Context, n domain.Note) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, value = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		n.Title, n.Value, time.Now().UTC(), n.ID, n.UserID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) DeleteNote(ctx context.Context, userID, noteID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
