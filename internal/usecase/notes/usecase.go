// Package notes is the query and mutation engine over the note corpus.
// It owns validation, modification-code authorization, pagination
// semantics and the anonymous username counter; storage itself sits
// behind the notesRepository contract.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/imkira/go-observer"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/errs"
	"github.com/eugenemartinez/drop-note-api/pkg/logger/slogx"
)

type notesRepository interface {
	InsertNote(ctx context.Context, note entity.Note) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	GetNotesByIDs(ctx context.Context, ids []string) ([]entity.Note, error)
	UpdateNote(ctx context.Context, id string, update entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, id string) (bool, error)
	QueryNotes(ctx context.Context, params entity.ListParams) ([]entity.Note, int, error)
	PickRandomPublicNote(ctx context.Context) (entity.Note, error)
	DistinctPublicTags(ctx context.Context) ([]string, error)
	NextAnonymousSeq(ctx context.Context) (int64, error)
}

type transactor interface {
	RunInTx(ctx context.Context, f func(context.Context) error) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo notesRepository `option:"mandatory" validate:"required"`
	tx   transactor      `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
	observer observer.Property
}

// maxCreateAttempts bounds the retry on id/code uniqueness collisions.
// With crypto-random values a second collision in a row already points at
// a broken environment, not bad luck.
const maxCreateAttempts = 3

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate notes usecase options: %v", err)
	}

	prop := observer.NewProperty(entity.Note{})

	return &Usecase{Options: opts, observer: prop}, nil
}

type CreateNoteInput struct {
	Title      string
	Content    string
	Username   string
	Tags       []string
	Visibility entity.Visibility
}

// CreateNote validates input, resolves the username (anonymous label from
// the persisted counter when absent), generates the id and modification
// code and inserts the note. The returned note is the only place the
// modification code is ever exposed.
func (u *Usecase) CreateNote(ctx context.Context, input CreateNoteInput) (entity.Note, error) {
	note, err := normalizeCreate(input)
	if err != nil {
		return entity.Note{}, err
	}

	if note.Username == "" {
		seq, err := u.repo.NextAnonymousSeq(ctx)
		if err != nil {
			return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
		}
		note.Username = fmt.Sprintf("Anonymous#%d", seq)
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		note.ID = uuid.NewString()

		code, err := NewModificationCode()
		if err != nil {
			return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
		}
		note.ModificationCode = code

		var created entity.Note
		err = u.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = u.repo.InsertNote(ctx, note)
			return err
		})
		if errors.Is(err, entity.ErrDuplicateNote) {
			slogx.Warn(ctx, "note id or code collision, retrying with fresh values",
				slogx.NoteID(note.ID))
			continue
		}
		if err != nil {
			return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
		}

		if created.Visibility == entity.VisibilityPublic {
			u.observer.Update(created)
		}

		slogx.Info(ctx, "success to create note",
			slogx.NoteID(created.ID), slogx.Username(created.Username))
		return created, nil
	}

	return entity.Note{}, fmt.Errorf("usecase create note: %w", entity.ErrDuplicateNote)
}

func (u *Usecase) GetNote(ctx context.Context, id string) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", err)
	}

	return note, nil
}

// UpdateNote applies a partial update after the presented code passes the
// constant-time check. A wrong code wins over bad input: a caller without
// the code learns nothing about field validation.
func (u *Usecase) UpdateNote(ctx context.Context, id, code string, update entity.NoteUpdate) (entity.Note, error) {
	var updated entity.Note
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.repo.GetNote(ctx, id)
		if err != nil {
			return err
		}

		if !Authorize(current.ModificationCode, code) {
			return errs.New(errs.PermissionDenied, "invalid modification code")
		}

		normalized, err := normalizeUpdate(update)
		if err != nil {
			return err
		}

		updated, err = u.repo.UpdateNote(ctx, id, normalized)
		return err
	})
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	slogx.Info(ctx, "success to update note", slogx.NoteID(id))

	return updated, nil
}

// DeleteNote removes the note when the code matches. A missing note is a
// success, so deleting twice gives the same outcome as deleting once.
func (u *Usecase) DeleteNote(ctx context.Context, id, code string) error {
	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := u.repo.GetNote(ctx, id)
		if errors.Is(err, entity.ErrNoteNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if !Authorize(current.ModificationCode, code) {
			return errs.New(errs.PermissionDenied, "invalid modification code")
		}

		_, err = u.repo.DeleteNote(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	return nil
}

// ListNotes serves one page of the public corpus. Page and limit are
// clamped rather than rejected; an unknown sort key is an error.
func (u *Usecase) ListNotes(ctx context.Context, params entity.ListParams) ([]entity.Note, entity.Pagination, error) {
	params, err := normalizeListParams(params)
	if err != nil {
		return nil, entity.Pagination{}, err
	}

	notes, total, err := u.repo.QueryNotes(ctx, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("usecase list notes: %w", err)
	}

	return notes, entity.Pagination{
		Page:       params.Page,
		Limit:      params.Limit,
		TotalItems: total,
		TotalPages: totalPages(total, params.Limit),
	}, nil
}

// GetNotesByIDs fetches notes by id regardless of visibility: whoever
// holds an id is assumed to have been given it. Duplicate ids collapse,
// missing ids are omitted without error.
func (u *Usecase) GetNotesByIDs(ctx context.Context, ids []string) ([]entity.Note, error) {
	ids = dedupeStrings(ids)
	if len(ids) == 0 {
		return []entity.Note{}, nil
	}

	notes, err := u.repo.GetNotesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("usecase get notes by ids: %w", err)
	}

	return notes, nil
}

func (u *Usecase) RandomNote(ctx context.Context) (entity.Note, error) {
	note, err := u.repo.PickRandomPublicNote(ctx)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase random note: %w", err)
	}

	return note, nil
}

func (u *Usecase) ListTags(ctx context.Context) ([]string, error) {
	tags, err := u.repo.DistinctPublicTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase list tags: %w", err)
	}

	return tags, nil
}

// SubscribeToCreated streams public notes as they are created, until ctx
// is done.
func (u *Usecase) SubscribeToCreated(ctx context.Context) <-chan entity.NoteCreatedEvent {
	stream := u.observer.Observe()

	result := make(chan entity.NoteCreatedEvent)
	go func() {
		defer close(result)
		for {
			select {
			case <-ctx.Done():
				return

			case <-stream.Changes():
				note := stream.Next().(entity.Note)

				select {
				case <-ctx.Done():
					return
				case result <- entity.NoteCreatedEvent{CreatedNote: note}:
				}
			}
		}
	}()

	return result
}

func totalPages(items, limit int) int {
	pages := (items + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}

	return pages
}
