package commands

import (
	"errors"
	"fmt"

	"github.com/gitstate/gitstate/internal/dispatch"
	"github.com/gitstate/gitstate/internal/sessions"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	sessionsSvc *sessions.Service
	dispatcher  *dispatch.Dispatcher

	logger *zap.Logger
}

func NewHandler(sessionsSvc *sessions.Service, dispatcher *dispatch.Dispatcher, logger *zap.Logger) handler.Handler {
	return &Handler{
		sessionsSvc: sessionsSvc,
		dispatcher:  dispatcher,

		logger: logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/commands", h.list)

	r = r.Group("/sessions/:id/commands")

	r.Use(h.errorsHandler)
	r.Post("/:command", h.post)
}

func (h *Handler) list(c *fiber.Ctx) error {
	return c.JSON(CommandsResponse{Commands: h.dispatcher.Commands()})
}

// post runs a command against the session's repository. The response body is
// the single message the dispatcher produced.
func (h *Handler) post(c *fiber.Ctx) error {
	id, err := getSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.sessionsSvc.Get(c.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	conn := dispatch.Connection{
		ID:       session.ID.String(),
		RepoPath: session.RepoPath,
	}

	if dispErr := h.dispatcher.Dispatch(c.Context(), conn, c.Params("command"), newResponseSender(c)); dispErr != nil {
		return fmt.Errorf("failed to dispatch command: %w", dispErr)
	}

	return nil
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, dispatch.ErrUnknownCommand):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, dispatch.ErrProcessFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, dispatch.ErrProcessEncoding), errors.Is(err, dispatch.ErrProcessParsing):
		h.logger.Error("unusable command output", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
