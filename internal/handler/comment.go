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
)

type commentReq struct {
	Body string `json:"body"`
}

// ListComments handles GET /v1/theories/:id/comments.
func (h *TheoryHandler) ListComments(c echo.Context) error {
	items, err := h.Comments.ListByTheory(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AddComment handles POST /v1/theories/:id/comments (admin only). The author
// name is denormalized from the current identity at write time.
func (h *TheoryHandler) AddComment(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Theories.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	cm := &model.Comment{
		TheoryID:   t.ID,
		AuthorName: actor.DisplayName,
		Body:       req.Body,
	}
	if oid, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
		cm.AuthorID = oid
	}
	if err := h.Comments.Add(ctx, cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add comment"})
	}

	h.emit(queue.ContentEvent{
		Kind:      queue.KindCommentPosted,
		TheoryID:  t.ID.Hex(),
		CommentID: cm.ID.Hex(),
		ActorID:   actor.ID,
		Title:     t.Title,
	})
	return c.JSON(http.StatusCreated, cm)
}

// DeleteComment handles DELETE /v1/comments/:id (admin only).
func (h *TheoryHandler) DeleteComment(c echo.Context) error {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.emit(queue.ContentEvent{
		Kind:      queue.KindCommentDeleted,
		CommentID: id,
		ActorID:   actor.ID,
	})
	return c.NoContent(http.StatusNoContent)
}
