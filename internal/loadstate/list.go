// Package loadstate holds the load state of the notes list screen.
package loadstate

import "color-notes-be/internal/entity"

type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	default:
		return "loading"
	}
}

// List is exactly one of Loading, Success(notes) or Failure(err).
// The zero value is Loading.
type List struct {
	kind  Kind
	notes []entity.Note
	err   error
}

func Loading() List {
	return List{kind: KindLoading}
}

// Success copies notes; a nil slice becomes an empty list.
func Success(notes []entity.Note) List {
	copied := make([]entity.Note, len(notes))
	copy(copied, notes)
	return List{kind: KindSuccess, notes: copied}
}

func Failure(err error) List {
	return List{kind: KindFailure, err: err}
}

func (l List) Kind() Kind {
	return l.kind
}

func (l List) IsLoading() bool { return l.kind == KindLoading }
func (l List) IsSuccess() bool { return l.kind == KindSuccess }
func (l List) IsFailure() bool { return l.kind == KindFailure }

// Notes returns a copy of the Success payload and nil for the other variants.
func (l List) Notes() []entity.Note {
	if l.kind != KindSuccess {
		return nil
	}
	copied := make([]entity.Note, len(l.notes))
	copy(copied, l.notes)
	return copied
}

// Err is the Failure payload, nil for the other variants.
func (l List) Err() error {
	if l.kind != KindFailure {
		return nil
	}
	return l.err
}
