package notes

import (
	"time"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
)

type noteResponse struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Username         string   `json:"username"`
	Tags             []string `json:"tags"`
	Visibility       string   `json:"visibility"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
	ModificationCode string   `json:"modification_code,omitempty"`
}

// toNoteResponse shapes a note for the wire. The modification code is
// included only on the create response, never on reads.
func toNoteResponse(note entity.Note, withCode bool) noteResponse {
	resp := noteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		Username:   note.Username,
		Tags:       note.Tags,
		Visibility: string(note.Visibility),
		CreatedAt:  note.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  note.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if withCode {
		resp.ModificationCode = note.ModificationCode
	}

	return resp
}

func toNoteResponses(notes []entity.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n, false))
	}

	return out
}

type paginationResponse struct {
	CurrentPage int     `json:"current_page"`
	PerPage     int     `json:"per_page"`
	TotalNotes  int     `json:"total_notes"`
	TotalPages  int     `json:"total_pages"`
	FilterTag   *string `json:"filter_tag"`
	SearchTerm  *string `json:"search_term"`
	Sort        string  `json:"sort"`
}

type listResponse struct {
	Notes      []noteResponse     `json:"notes"`
	Pagination paginationResponse `json:"pagination"`
}

func toListResponse(notes []entity.Note, p entity.Pagination, params entity.ListParams) listResponse {
	pr := paginationResponse{
		CurrentPage: p.Page,
		PerPage:     p.Limit,
		TotalNotes:  p.TotalItems,
		TotalPages:  p.TotalPages,
		Sort:        string(params.Sort),
	}
	if params.Tag != "" {
		pr.FilterTag = &params.Tag
	}
	if params.Search != "" {
		pr.SearchTerm = &params.Search
	}

	return listResponse{
		Notes:      toNoteResponses(notes),
		Pagination: pr,
	}
}
