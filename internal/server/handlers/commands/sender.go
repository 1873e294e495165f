package commands

import (
	"context"
	"fmt"

	"github.com/gitstate/gitstate/internal/dispatch"
	"github.com/gofiber/fiber/v2"
)

// responseSender writes the dispatched message as the HTTP response body.
type responseSender struct {
	c *fiber.Ctx
}

func newResponseSender(c *fiber.Ctx) dispatch.Sender {
	return &responseSender{c: c}
}

// Send implements dispatch.Sender.
func (s *responseSender) Send(_ context.Context, _ dispatch.Connection, msg dispatch.OutboundMessage) error {
	if err := s.c.Status(fiber.StatusOK).JSON(msg); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msg.Type(), err)
	}
	return nil
}
