package dto

import (
	"color-notes-be/internal/entity"
	"color-notes-be/internal/viewstate"
)

type DetailStateResponse struct {
	ColorIndex       int           `json:"color_index"`
	Color            string        `json:"color"`
	Title            string        `json:"title"`
	Note             string        `json:"note"`
	NoteAddedStatus  bool          `json:"note_added_status"`
	UpdateNoteStatus bool          `json:"update_note_status"`
	SelectedNote     *NoteResponse `json:"selected_note"`
	SavedDocumentId  string        `json:"saved_document_id,omitempty"`
}

func NewDetailStateResponse(s viewstate.DetailFormState) DetailStateResponse {
	res := DetailStateResponse{
		ColorIndex:       s.ColorIndex,
		Color:            entity.ColorAt(s.ColorIndex),
		Title:            s.Title,
		Note:             s.Note,
		NoteAddedStatus:  s.NoteAddedStatus,
		UpdateNoteStatus: s.UpdateNoteStatus,
		SavedDocumentId:  s.SavedDocumentId,
	}
	if s.SelectedNote != nil {
		selected := NewNoteResponse(*s.SelectedNote)
		res.SelectedNote = &selected
	}
	return res
}

// UpdateDetailRequest edits the form. Absent fields are left alone.
type UpdateDetailRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=500"`
	Note       *string `json:"note" validate:"omitempty,max=20000"`
	ColorIndex *int    `json:"color_index"`
}
