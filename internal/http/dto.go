package http

import (
	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/pkg/notesdk"
)

func toUserDTO(u *domain.User) notesdk.User {
	return notesdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toNoteDTO(n domain.Note) notesdk.Note {
	return notesdk.Note{
		ID:        n.ID,
		Title:     n.Title,
		Value:     n.Value,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
