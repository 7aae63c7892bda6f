package entity

import (
	"time"

	"github.com/eugenemartinez/drop-note-api/internal/errs"
)

var (
	ErrNoteNotFound  = errs.New(errs.NotFound, "note not found")
	ErrDuplicateNote = errs.New(errs.Conflict, "note id or modification code already in use")
)

// Visibility controls whether a note participates in listing, search,
// tag aggregation and random selection. Private notes stay reachable by id.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// MaxTags is the hard cap on distinct tags per note.
const MaxTags = 10

type Note struct {
	ID               string
	Title            string
	Content          string
	Username         string
	Tags             []string
	Visibility       Visibility
	ModificationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NoteUpdate carries the fields of a partial update. Nil means
// "leave as is"; a pointer to an empty slice clears the tags.
type NoteUpdate struct {
	Title      *string
	Content    *string
	Tags       *[]string
	Visibility *Visibility
}

func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil && u.Visibility == nil
}

type NoteCreatedEvent struct {
	CreatedNote Note
}
