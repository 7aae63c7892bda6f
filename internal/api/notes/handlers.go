package notes

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eugenemartinez/drop-note-api/internal/entity"
	"github.com/eugenemartinez/drop-note-api/internal/errs"
	notesuc "github.com/eugenemartinez/drop-note-api/internal/usecase/notes"
)

type createNoteRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Username   string   `json:"username"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

func (s *Service) createNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.New(errs.InvalidArgument, "invalid JSON payload"))
		return
	}

	note, err := s.uc.CreateNote(c.Request.Context(), notesuc.CreateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Username:   req.Username,
		Tags:       req.Tags,
		Visibility: entity.Visibility(strings.ToLower(req.Visibility)),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toNoteResponse(note, true))
}

func (s *Service) getNote(c *gin.Context) {
	switch c.Param("id") {
	case "random":
		s.randomNote(c)
		return
	case "feed":
		s.feed(c)
		return
	}

	id, err := noteID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	note, err := s.uc.GetNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note, false))
}

type updateNoteRequest struct {
	ModificationCode string    `json:"modification_code"`
	Title            *string   `json:"title"`
	Content          *string   `json:"content"`
	Tags             *[]string `json:"tags"`
	Visibility       *string   `json:"visibility"`
}

func (s *Service) updateNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.New(errs.InvalidArgument, "invalid JSON payload"))
		return
	}
	if req.ModificationCode == "" {
		respondError(c, errs.New(errs.InvalidArgument, "missing modification_code"))
		return
	}

	update := entity.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Visibility != nil {
		vis := entity.Visibility(strings.ToLower(*req.Visibility))
		update.Visibility = &vis
	}

	note, err := s.uc.UpdateNote(c.Request.Context(), id, req.ModificationCode, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note, false))
}

type deleteNoteRequest struct {
	ModificationCode string `json:"modification_code"`
}

func (s *Service) deleteNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req deleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.New(errs.InvalidArgument, "invalid JSON payload"))
		return
	}
	if req.ModificationCode == "" {
		respondError(c, errs.New(errs.InvalidArgument, "missing modification_code"))
		return
	}

	if err := s.uc.DeleteNote(c.Request.Context(), id, req.ModificationCode); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Service) listNotes(c *gin.Context) {
	params := entity.ListParams{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Sort:   entity.SortOrder(strings.ToLower(c.DefaultQuery("sort", string(entity.DefaultSort)))),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", entity.DefaultPageLimit),
	}

	notes, pagination, err := s.uc.ListNotes(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(notes, pagination, params))
}

type batchGetRequest struct {
	IDs []string `json:"ids"`
}

func (s *Service) batchGetNotes(c *gin.Context) {
	var req batchGetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDs == nil {
		respondError(c, errs.New(errs.InvalidArgument, "missing or invalid 'ids' field: must be a list of UUID strings"))
		return
	}

	var invalid []string
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err != nil {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		respondError(c, errs.Newf(errs.InvalidArgument, "invalid UUID format for ids: %s", strings.Join(invalid, ", ")))
		return
	}

	notes, err := s.uc.GetNotesByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": toNoteResponses(notes)})
}

func (s *Service) randomNote(c *gin.Context) {
	note, err := s.uc.RandomNote(c.Request.Context())
	if err != nil {
		if errors.Is(err, entity.ErrNoteNotFound) {
			respondError(c, errs.New(errs.NotFound, "no public notes found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note, false))
}

func (s *Service) listTags(c *gin.Context) {
	tags, err := s.uc.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// feed streams newly created public notes as server-sent events.
func (s *Service) feed(c *gin.Context) {
	ctx := c.Request.Context()
	events := s.uc.SubscribeToCreated(ctx)

	c.Writer.Header().Set("Cache-Control", "no-store")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("note_created", toNoteResponse(ev.CreatedNote, false))
			return true
		}
	})
}

func (s *Service) health(c *gin.Context) {
	status := "connected"
	if err := s.db.Ping(c.Request.Context()); err != nil {
		status = "disconnected"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "DropNote API is running",
		"database_status": status,
	})
}

// noteID validates the path id. A malformed uuid cannot name any note,
// so it reports not found rather than a validation error.
func noteID(c *gin.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", entity.ErrNoteNotFound
	}

	return id.String(), nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}
