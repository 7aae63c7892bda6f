package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/pkg/logger/slogx"
)

const noteColumns = `id::text, title, content, username, COALESCE(tags, '{}'), visibility, modification_code, created_at, updated_at`

const uniqueViolation = "23505"

func (r *Repo) InsertNote(ctx context.Context, note entity.Note) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO drop_note (id, title, content, username, tags, visibility, modification_code)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		RETURNING `+noteColumns,
		note.ID,
		note.Title,
		note.Content,
		note.Username,
		note.Tags,
		note.Visibility,
		note.ModificationCode,
	)

	inserted, err := scanNote(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.Note{}, entity.ErrDuplicateNote
		}
		return entity.Note{}, fmt.Errorf("insert note: %v", err)
	}

	slogx.Debug(ctx, "success to insert note", slogx.NoteID(inserted.ID))

	return inserted, nil
}

func (r *Repo) GetNote(ctx context.Context, id string) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+noteColumns+`
		FROM drop_note
		WHERE id = $1::uuid`,
		id,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return note, nil
}

// GetNotesByIDs fetches all notes matching ids, public or private.
// Missing ids are silently omitted.
func (r *Repo) GetNotesByIDs(ctx context.Context, ids []string) ([]entity.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+noteColumns+`
		FROM drop_note
		WHERE id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get notes by ids: %v", err)
	}

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, fmt.Errorf("get notes by ids: %v", err)
	}

	return notes, nil
}

func (r *Repo) UpdateNote(ctx context.Context, id string, update entity.NoteUpdate) (entity.Note, error) {
	set, args := buildUpdateSet(update)
	if len(set) == 0 {
		return r.GetNote(ctx, id)
	}

	args = append(args, id)
	sql := fmt.Sprintf(`
		UPDATE drop_note
		SET %s
		WHERE id = $%d::uuid
		RETURNING `+noteColumns,
		set, len(args),
	)

	note, err := scanNote(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("update note: %v", err)
	}

	return note, nil
}

func (r *Repo) DeleteNote(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM drop_note WHERE id = $1::uuid`, id)
	if err != nil {
		return false, fmt.Errorf("delete note: %v", err)
	}

	return tag.RowsAffected() > 0, nil
}

// QueryNotes returns one page of public notes plus the total row count for
// the same filter.
func (r *Repo) QueryNotes(ctx context.Context, params entity.ListParams) ([]entity.Note, int, error) {
	q := buildListQuery(params)

	rows, err := r.db.Query(ctx, q.selectSQL, q.selectArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query notes: %v", err)
	}

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("query notes: %v", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %v", err)
	}

	return notes, total, nil
}

// PickRandomPublicNote selects one public note with uniform probability.
// ORDER BY random() scans every public row, acceptable at this corpus size.
func (r *Repo) PickRandomPublicNote(ctx context.Context) (entity.Note, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+noteColumns+`
		FROM drop_note
		WHERE visibility = 'public'
		ORDER BY random()
		LIMIT 1`,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("pick random public note: %v", err)
	}

	return note, nil
}

func (r *Repo) DistinctPublicTags(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT unnest(tags) AS tag
		FROM drop_note
		WHERE visibility = 'public' AND tags IS NOT NULL AND array_length(tags, 1) > 0
		ORDER BY tag ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("distinct public tags: %v", err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("distinct public tags: %v", err)
	}

	return tags, nil
}

// NextAnonymousSeq advances the store-wide anonymous username counter.
// Postgres sequences are atomic across sessions, so no two callers ever
// observe the same value.
func (r *Repo) NextAnonymousSeq(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('anonymous_user_seq')`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next anonymous seq: %v", err)
	}

	return next, nil
}

func scanNote(row pgx.Row) (entity.Note, error) {
	var n entity.Note
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Username,
		&n.Tags,
		&n.Visibility,
		&n.ModificationCode,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return entity.Note{}, err
	}

	return n, nil
}

func collectNotes(rows pgx.Rows) ([]entity.Note, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Note, error) {
		return scanNote(row)
	})
}
