package notes

import (
	"strings"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/errs"
)

func normalizeCreate(input CreateNoteInput) (entity.Note, error) {
	if isBlank(input.Title) {
		return entity.Note{}, errs.New(errs.InvalidArgument, "title must be a non-empty string")
	}
	if isBlank(input.Content) {
		return entity.Note{}, errs.New(errs.InvalidArgument, "content must be a non-empty string")
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = entity.VisibilityPublic
	}
	if !visibility.Valid() {
		return entity.Note{}, errs.New(errs.InvalidArgument, "visibility must be 'public' or 'private'")
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return entity.Note{}, err
	}

	return entity.Note{
		Title:      input.Title,
		Content:    input.Content,
		Username:   strings.TrimSpace(input.Username),
		Tags:       tags,
		Visibility: visibility,
	}, nil
}

func normalizeUpdate(update entity.NoteUpdate) (entity.NoteUpdate, error) {
	if update.Empty() {
		return entity.NoteUpdate{}, errs.New(errs.InvalidArgument, "no updatable fields provided")
	}

	if update.Title != nil && isBlank(*update.Title) {
		return entity.NoteUpdate{}, errs.New(errs.InvalidArgument, "title must be a non-empty string")
	}
	if update.Content != nil && isBlank(*update.Content) {
		return entity.NoteUpdate{}, errs.New(errs.InvalidArgument, "content must be a non-empty string")
	}
	if update.Visibility != nil && !update.Visibility.Valid() {
		return entity.NoteUpdate{}, errs.New(errs.InvalidArgument, "visibility must be 'public' or 'private'")
	}

	if update.Tags != nil {
		tags, err := normalizeTags(*update.Tags)
		if err != nil {
			return entity.NoteUpdate{}, err
		}
		update.Tags = &tags
	}

	return update, nil
}

// normalizeTags drops exact duplicates keeping first occurrence order,
// then enforces the cap on what remains.
func normalizeTags(tags []string) ([]string, error) {
	deduped := dedupeStrings(tags)
	if len(deduped) > entity.MaxTags {
		return nil, errs.Newf(errs.InvalidArgument, "maximum of %d tags allowed", entity.MaxTags)
	}

	return deduped, nil
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func normalizeListParams(params entity.ListParams) (entity.ListParams, error) {
	if params.Sort == "" {
		params.Sort = entity.DefaultSort
	}
	if !params.Sort.Valid() {
		return entity.ListParams{}, errs.Newf(errs.InvalidArgument, "unknown sort %q", params.Sort)
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = entity.DefaultPageLimit
	}
	if params.Limit < 1 {
		params.Limit = 1
	}
	if params.Limit > entity.MaxPageLimit {
		params.Limit = entity.MaxPageLimit
	}

	return params, nil
}
