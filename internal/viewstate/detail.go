package viewstate

import (
	"context"
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/service"
)

// DetailFormState is the edit buffer of the single-note screen.
type DetailFormState struct {
	ColorIndex       int
	Title            string
	Note             string
	NoteAddedStatus  bool
	UpdateNoteStatus bool
	SelectedNote     *entity.Note
	// SavedDocumentId is the id assigned by the last successful Save.
	SavedDocumentId string
}

type DetailViewState struct {
	store  service.INoteStore
	auth   service.IAuthGateway
	logger logger.ILogger
	state  *Observable[DetailFormState]
	now    func() time.Time
}

func NewDetailViewState(store service.INoteStore, auth service.IAuthGateway, log logger.ILogger) *DetailViewState {
	return &DetailViewState{
		store:  store,
		auth:   auth,
		logger: log,
		state:  NewObservable(DetailFormState{}),
		now:    time.Now,
	}
}

func (v *DetailViewState) State() DetailFormState {
	return v.state.Get()
}

func (v *DetailViewState) Watch() (<-chan DetailFormState, func()) {
	return v.state.Watch()
}

func (v *DetailViewState) SetTitle(title string) {
	v.state.Update(func(s DetailFormState) DetailFormState {
		s.Title = title
		return s
	})
}

func (v *DetailViewState) SetNote(note string) {
	v.state.Update(func(s DetailFormState) DetailFormState {
		s.Note = note
		return s
	})
}

func (v *DetailViewState) SetColorIndex(colorIndex int) {
	v.state.Update(func(s DetailFormState) DetailFormState {
		s.ColorIndex = entity.ClampColorIndex(colorIndex)
		return s
	})
}

// Load fills the form from the stored note. Read failures and missing notes
// leave the form as it was.
func (v *DetailViewState) Load(ctx context.Context, documentId string) {
	if documentId == "" {
		return
	}

	note, err := v.store.ReadOne(ctx, documentId)
	if err != nil {
		v.logger.Warn("DetailViewState", "Failed to load note", map[string]interface{}{"document_id": documentId, "error": err.Error()})
		return
	}
	if note == nil {
		return
	}

	v.state.Update(func(s DetailFormState) DetailFormState {
		selected := *note
		s.SelectedNote = &selected
		s.ColorIndex = entity.ClampColorIndex(note.ColorIndex)
		s.Title = note.Title
		s.Note = note.Description
		return s
	})
}

// Reset puts the screen back into fresh "create" mode.
func (v *DetailViewState) Reset() {
	v.state.Set(DetailFormState{})
}

// Save creates a note from the form. It writes nothing and returns an error when
// no user is signed in or when the form holds an existing note.
func (v *DetailViewState) Save(ctx context.Context) error {
	userId := v.auth.UserId()
	if userId == "" {
		return service.ErrNotAuthenticated
	}

	form := v.state.Get()
	if form.SelectedNote != nil && form.SelectedNote.IsPersisted() {
		return service.ErrNoteAlreadySaved
	}

	note, err := v.store.Create(ctx, userId, form.Title, form.Note, form.ColorIndex, v.now())
	if err != nil {
		v.logger.Error("DetailViewState", "Failed to save note", map[string]interface{}{"error": err.Error()})
	}

	v.state.Update(func(s DetailFormState) DetailFormState {
		s.NoteAddedStatus = err == nil
		if err == nil {
			s.SavedDocumentId = note.DocumentId
		}
		return s
	})
	return err
}

// CommitUpdate writes the form's title, body and color to documentId.
func (v *DetailViewState) CommitUpdate(ctx context.Context, documentId string) error {
	form := v.state.Get()

	err := v.store.Update(ctx, documentId, form.Title, form.Note, form.ColorIndex)
	if err != nil {
		v.logger.Error("DetailViewState", "Failed to update note", map[string]interface{}{"document_id": documentId, "error": err.Error()})
	}

	v.state.Update(func(s DetailFormState) DetailFormState {
		s.UpdateNoteStatus = err == nil
		return s
	})
	return err
}

// ClearResultFlags resets both outcome flags together.
func (v *DetailViewState) ClearResultFlags() {
	v.state.Update(func(s DetailFormState) DetailFormState {
		s.NoteAddedStatus = false
		s.UpdateNoteStatus = false
		return s
	})
}
