package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/model"
	"github.com/conspiralab/conspiralab/internal/queue"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/utils"
)

// TheoryStore is the slice of the theory repository the catalog endpoints need.
type TheoryStore interface {
	Create(ctx context.Context, t *model.Theory) error
	List(ctx context.Context) ([]model.Theory, error)
	GetByID(ctx context.Context, id string) (*model.Theory, error)
	Update(ctx context.Context, id, title, slug, summary, body string) (*model.Theory, error)
	Delete(ctx context.Context, id string) error
}

// CommentStore is the slice of the comment repository the catalog endpoints need.
type CommentStore interface {
	Add(ctx context.Context, cm *model.Comment) error
	ListByTheory(ctx context.Context, theoryID string) ([]model.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByTheory(ctx context.Context, theoryID string) error
}

// TheoryHandler bundles dependencies for catalog browsing and the admin CRUD
// endpoints. Publish, when set, sends content events to the broker; a nil
// Publish disables events entirely.
type TheoryHandler struct {
	Theories TheoryStore
	Comments CommentStore
	Publish  func(context.Context, queue.ContentEvent) error
}

func NewTheoryHandler(t TheoryStore, cm CommentStore) *TheoryHandler {
	return &TheoryHandler{Theories: t, Comments: cm, Publish: queue.PublishContentActivity}
}

type theoryReq struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// List handles GET /v1/theories.
func (h *TheoryHandler) List(c echo.Context) error {
	items, err := h.Theories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/theories/:id.
func (h *TheoryHandler) Get(c echo.Context) error {
	t, err := h.Theories.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Create handles POST /v1/theories (admin only).
func (h *TheoryHandler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req theoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	t := &model.Theory{
		Title:   req.Title,
		Slug:    utils.Slugify(req.Title),
		Summary: strings.TrimSpace(req.Summary),
		Body:    req.Body,
	}
	if oid, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
		t.AuthorID = oid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Theories.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a theory with this title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create theory"})
	}

	h.emit(queue.ContentEvent{
		Kind:     queue.KindTheoryCreated,
		TheoryID: t.ID.Hex(),
		ActorID:  actor.ID,
		Title:    t.Title,
	})
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/theories/:id (admin only).
func (h *TheoryHandler) Update(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req theoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	t, err := h.Theories.Update(ctx, c.Param("id"),
		req.Title, utils.Slugify(req.Title), strings.TrimSpace(req.Summary), req.Body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theory not found"})
		}
		if errors.Is(err, repository.ErrSlugExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a theory with this title already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.emit(queue.ContentEvent{
		Kind:     queue.KindTheoryUpdated,
		TheoryID: t.ID.Hex(),
		ActorID:  actor.ID,
		Title:    t.Title,
	})
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/theories/:id (admin only). Comments attached to
// the theory are removed with it.
func (h *TheoryHandler) Delete(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Theories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if err := h.Comments.DeleteByTheory(ctx, id); err != nil {
		c.Logger().Warnf("delete theory %s: comment cleanup failed: %v", id, err)
	}

	h.emit(queue.ContentEvent{
		Kind:     queue.KindTheoryDeleted,
		TheoryID: id,
		ActorID:  actor.ID,
	})
	return c.NoContent(http.StatusNoContent)
}

// emit publishes a content event in the background. Events are best-effort;
// the request does not wait for, or fail on, the broker.
func (h *TheoryHandler) emit(ev queue.ContentEvent) {
	if h.Publish == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
