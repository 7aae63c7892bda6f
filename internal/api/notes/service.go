// Package notes exposes the engine over HTTP, translating JSON bodies and
// query parameters into engine calls and error kinds into status codes.
package notes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/errs"
	notesuc "github.com/eugenemartinez/drop-note-api/internal/usecase/notes"
)

type notesUsecase interface {
	CreateNote(ctx context.Context, input notesuc.CreateNoteInput) (entity.Note, error)
	GetNote(ctx context.Context, id string) (entity.Note, error)
	UpdateNote(ctx context.Context, id, code string, update entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, id, code string) error
	ListNotes(ctx context.Context, params entity.ListParams) ([]entity.Note, entity.Pagination, error)
	GetNotesByIDs(ctx context.Context, ids []string) ([]entity.Note, error)
	RandomNote(ctx context.Context) (entity.Note, error)
	ListTags(ctx context.Context) ([]string, error)
	SubscribeToCreated(ctx context.Context) <-chan entity.NoteCreatedEvent
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Service struct {
	uc notesUsecase
	db pinger
}

func New(uc notesUsecase, db pinger) *Service {
	return &Service{uc: uc, db: db}
}

func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/", s.health)

	api := r.Group("/api")
	api.POST("/notes", s.createNote)
	api.GET("/notes", s.listNotes)
	api.POST("/notes/batch", s.batchGetNotes)
	// gin rejects static siblings of a :id segment in the same method tree,
	// so /notes/random and /notes/feed are dispatched from the param route.
	api.GET("/notes/:id", s.getNote)
	api.PUT("/notes/:id", s.updateNote)
	api.DELETE("/notes/:id", s.deleteNote)
	api.GET("/tags", s.listTags)
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errs.CodeOf(err)
	c.JSON(errs.HTTPStatus(code), gin.H{"error": errs.MessageOf(err)})
}
