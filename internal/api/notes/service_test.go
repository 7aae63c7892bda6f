package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/errs"
	notesuc "github.com/eugenemartinez/drop-note-api/internal/usecase/notes"
)

type stubUsecase struct {
	createFn func(notesuc.CreateNoteInput) (entity.Note, error)
	getFn    func(string) (entity.Note, error)
	updateFn func(string, string, entity.NoteUpdate) (entity.Note, error)
	deleteFn func(string, string) error
	listFn   func(entity.ListParams) ([]entity.Note, entity.Pagination, error)
	batchFn  func([]string) ([]entity.Note, error)
	randomFn func() (entity.Note, error)
	tagsFn   func() ([]string, error)
}

func (s *stubUsecase) CreateNote(_ context.Context, in notesuc.CreateNoteInput) (entity.Note, error) {
	return s.createFn(in)
}

func (s *stubUsecase) GetNote(_ context.Context, id string) (entity.Note, error) {
	return s.getFn(id)
}

func (s *stubUsecase) UpdateNote(_ context.Context, id, code string, update entity.NoteUpdate) (entity.Note, error) {
	return s.updateFn(id, code, update)
}

func (s *stubUsecase) DeleteNote(_ context.Context, id, code string) error {
	return s.deleteFn(id, code)
}

func (s *stubUsecase) ListNotes(_ context.Context, params entity.ListParams) ([]entity.Note, entity.Pagination, error) {
	return s.listFn(params)
}

func (s *stubUsecase) GetNotesByIDs(_ context.Context, ids []string) ([]entity.Note, error) {
	return s.batchFn(ids)
}

func (s *stubUsecase) RandomNote(context.Context) (entity.Note, error) {
	return s.randomFn()
}

func (s *stubUsecase) ListTags(context.Context) ([]string, error) {
	return s.tagsFn()
}

func (s *stubUsecase) SubscribeToCreated(context.Context) <-chan entity.NoteCreatedEvent {
	ch := make(chan entity.NoteCreatedEvent)
	close(ch)
	return ch
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(uc notesUsecase, db pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(uc, db).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func sampleNote() entity.Note {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return entity.Note{
		ID:               "3d5c9f9e-4a7d-4a57-b2ce-0bd43bd903a1",
		Title:            "hello",
		Content:          "<p>world</p>",
		Username:         "tester",
		Tags:             []string{"go"},
		Visibility:       entity.VisibilityPublic,
		ModificationCode: "a1b2c3d4",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestCreateNote_ReturnsCodeOnce(t *testing.T) {
	note := sampleNote()
	router := newTestRouter(&stubUsecase{
		createFn: func(in notesuc.CreateNoteInput) (entity.Note, error) {
			require.Equal(t, "hello", in.Title)
			require.Equal(t, entity.VisibilityPublic, in.Visibility)
			return note, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodPost, "/api/notes", gin.H{
		"title":      "hello",
		"content":    "<p>world</p>",
		"visibility": "PUBLIC",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, note.ID, body["id"])
	require.Equal(t, "a1b2c3d4", body["modification_code"])
	require.Equal(t, "2025-06-01T12:00:00Z", body["created_at"])
}

func TestCreateNote_ValidationErrorIs400(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		createFn: func(notesuc.CreateNoteInput) (entity.Note, error) {
			return entity.Note{}, errs.New(errs.InvalidArgument, "title must be a non-empty string")
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodPost, "/api/notes", gin.H{"title": ""})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "title must be a non-empty string")
}

func TestGetNote_WithholdsCode(t *testing.T) {
	note := sampleNote()
	router := newTestRouter(&stubUsecase{
		getFn: func(id string) (entity.Note, error) {
			require.Equal(t, note.ID, id)
			return note, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/notes/"+note.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotContains(t, body, "modification_code")
	require.Equal(t, "hello", body["title"])
}

func TestGetNote_MalformedIDIs404(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		getFn: func(string) (entity.Note, error) {
			t.Fatal("usecase must not be called for a malformed id")
			return entity.Note{}, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/notes/not-a-uuid", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateNote_StatusMapping(t *testing.T) {
	note := sampleNote()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"wrong code", errs.New(errs.PermissionDenied, "invalid modification code"), http.StatusForbidden},
		{"missing note", entity.ErrNoteNotFound, http.StatusNotFound},
		{"bad fields", errs.New(errs.InvalidArgument, "no updatable fields provided"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubUsecase{
				updateFn: func(string, string, entity.NoteUpdate) (entity.Note, error) {
					return entity.Note{}, tc.err
				},
			}, stubPinger{})

			rec := doJSON(t, router, http.MethodPut, "/api/notes/"+note.ID, gin.H{
				"modification_code": "whatever",
				"title":             "x",
			})
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestUpdateNote_MissingCodeIs400(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		updateFn: func(string, string, entity.NoteUpdate) (entity.Note, error) {
			t.Fatal("usecase must not be called without a code")
			return entity.Note{}, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodPut, "/api/notes/"+sampleNote().ID, gin.H{"title": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "missing modification_code")
}

func TestDeleteNote_NoContent(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		deleteFn: func(id, code string) error {
			require.Equal(t, "a1b2c3d4", code)
			return nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodDelete, "/api/notes/"+sampleNote().ID, gin.H{
		"modification_code": "a1b2c3d4",
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestListNotes_EchoesQueryInPagination(t *testing.T) {
	note := sampleNote()
	router := newTestRouter(&stubUsecase{
		listFn: func(params entity.ListParams) ([]entity.Note, entity.Pagination, error) {
			require.Equal(t, "go", params.Tag)
			require.Equal(t, 2, params.Page)
			require.Equal(t, entity.SortTitleAsc, params.Sort)
			return []entity.Note{note}, entity.Pagination{Page: 2, Limit: 10, TotalItems: 11, TotalPages: 2}, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/notes?tag=go&page=2&sort=TITLE_ASC", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notes      []map[string]any `json:"notes"`
		Pagination struct {
			CurrentPage int     `json:"current_page"`
			TotalNotes  int     `json:"total_notes"`
			TotalPages  int     `json:"total_pages"`
			FilterTag   *string `json:"filter_tag"`
			SearchTerm  *string `json:"search_term"`
			Sort        string  `json:"sort"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Notes, 1)
	require.NotContains(t, body.Notes[0], "modification_code")
	require.Equal(t, 2, body.Pagination.CurrentPage)
	require.Equal(t, 11, body.Pagination.TotalNotes)
	require.NotNil(t, body.Pagination.FilterTag)
	require.Equal(t, "go", *body.Pagination.FilterTag)
	require.Nil(t, body.Pagination.SearchTerm)
	require.Equal(t, "title_asc", body.Pagination.Sort)
}

func TestBatchGetNotes(t *testing.T) {
	note := sampleNote()
	router := newTestRouter(&stubUsecase{
		batchFn: func(ids []string) ([]entity.Note, error) {
			require.Len(t, ids, 1)
			return []entity.Note{note}, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodPost, "/api/notes/batch", gin.H{
		"ids": []string{note.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), note.ID)
}

func TestBatchGetNotes_InvalidUUIDIs400(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		batchFn: func([]string) ([]entity.Note, error) {
			t.Fatal("usecase must not be called with invalid ids")
			return nil, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodPost, "/api/notes/batch", gin.H{
		"ids": []string{"nope"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "nope")
}

func TestRandomNote_EmptyCorpusIs404(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		randomFn: func() (entity.Note, error) {
			return entity.Note{}, entity.ErrNoteNotFound
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/notes/random", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "no public notes found")
}

func TestListTags(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		tagsFn: func() ([]string, error) {
			return []string{"a", "b"}, nil
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"tags":["a","b"]}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubUsecase{}, stubPinger{})
	rec := doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database_status":"connected"`)

	router = newTestRouter(&stubUsecase{}, stubPinger{err: errors.New("down")})
	rec = doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database_status":"disconnected"`)
}

func TestUntypedErrorsAre500AndOpaque(t *testing.T) {
	router := newTestRouter(&stubUsecase{
		getFn: func(string) (entity.Note, error) {
			return entity.Note{}, errors.New("pgx: connection refused to 10.0.0.9")
		},
	}, stubPinger{})

	rec := doJSON(t, router, http.MethodGet, "/api/notes/"+sampleNote().ID, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "10.0.0.9")
	require.Contains(t, rec.Body.String(), "internal server error")
}
