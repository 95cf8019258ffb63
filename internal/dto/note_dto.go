package dto

import (
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/viewstate"
)

const (
	FrameListState = "list_state"
	FrameError     = "error"
)

type NoteResponse struct {
	DocumentId  string    `json:"document_id"`
	OwnerId     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ColorIndex  int       `json:"color_index"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewNoteResponse(n entity.Note) NoteResponse {
	return NoteResponse{
		DocumentId:  n.DocumentId,
		OwnerId:     n.OwnerId,
		Title:       n.Title,
		Description: n.Description,
		ColorIndex:  n.ColorIndex,
		Color:       entity.ColorAt(n.ColorIndex),
		CreatedAt:   n.CreatedAt,
	}
}

// ListStateResponse is the list screen record. Status is loading, success or failure.
type ListStateResponse struct {
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	Notes             []NoteResponse `json:"notes,omitempty"`
	Error             string         `json:"error,omitempty"`
	NoteDeletedStatus bool           `json:"note_deleted_status"`
}

func NewListStateResponse(s viewstate.ListState) ListStateResponse {
	res := ListStateResponse{
		Type:              FrameListState,
		Status:            s.Notes.Kind().String(),
		NoteDeletedStatus: s.NoteDeletedStatus,
	}
	if s.Notes.IsSuccess() {
		res.Notes = make([]NoteResponse, 0, len(s.Notes.Notes()))
		for _, n := range s.Notes.Notes() {
			res.Notes = append(res.Notes, NewNoteResponse(n))
		}
	}
	if err := s.Notes.Err(); err != nil {
		res.Error = err.Error()
	}
	return res
}

type DeleteNoteResponse struct {
	NoteDeletedStatus bool `json:"note_deleted_status"`
}

// ListScreenCommand is sent by websocket clients of the list screen.
type ListScreenCommand struct {
	Action     string `json:"action" validate:"required,oneof=delete"`
	DocumentId string `json:"document_id" validate:"required"`
}

type PaletteResponse struct {
	Colors []string `json:"colors"`
}
