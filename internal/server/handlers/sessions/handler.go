package sessions

import (
	"errors"
	"fmt"

	"github.com/gitstate/gitstate/internal/server/validation"
	"github.com/gitstate/gitstate/internal/sessions"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	sessionsSvc *sessions.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(sessionsSvc *sessions.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		sessionsSvc: sessionsSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/sessions")

	r.Use(h.errorsHandler)
	r.Post("/", h.post)
	r.Get("/:id", h.get)
	r.Put("/:id/repository", validation.DecorateWithBodyEx(h.validator, h.putRepository))
	r.Delete("/:id/repository", h.deleteRepository)
	r.Delete("/:id", h.delete)
}

func (h *Handler) post(c *fiber.Ctx) error {
	session, err := h.sessionsSvc.Create(c.Context())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(session))
}

func (h *Handler) get(c *fiber.Ctx) error {
	id, err := getSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionsSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	return c.JSON(h.toResponse(session))
}

func (h *Handler) putRepository(c *fiber.Ctx, req *PUTRepositoryRequest) error {
	id, err := getSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionsSvc.SetRepoPath(c.Context(), id, req.Path)
	if err != nil {
		return fmt.Errorf("failed to set repository: %w", err)
	}

	return c.JSON(h.toResponse(session))
}

func (h *Handler) deleteRepository(c *fiber.Ctx) error {
	id, err := getSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionsSvc.ClearRepoPath(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to clear repository: %w", err)
	}

	return c.JSON(h.toResponse(session))
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, err := getSessionID(c)
	if err != nil {
		return err
	}

	if delErr := h.sessionsSvc.Delete(c.Context(), id); delErr != nil {
		return fmt.Errorf("failed to delete session: %w", delErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, sessions.ErrInvalidRepoPath):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}

func (h *Handler) toResponse(session *sessions.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		RepoPath:  session.RepoPath,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
