// Package mailloghttp exposes the mail dispatch and log query services
// over HTTP.
package mailloghttp

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/maillog"
	"github.com/maildeck/maildeck/pkg/maillog/maillogsrv"
)

// DispatchService is the slice of the service the handlers need.
type DispatchService interface {
	Send(ctx context.Context, req maillog.SendRequest) (*maillog.DispatchResult, error)
	Queue(ctx context.Context, req maillog.SendRequest) (*maillog.DispatchResult, error)
	ListLogs(ctx context.Context, q maillog.LogQuery) *maillogsrv.LogsResponse
}

// Handlers binds the email routes.
type Handlers struct {
	service DispatchService
}

// NewHandlers creates the handler set.
func NewHandlers(service DispatchService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the email endpoints on router.
func (h *Handlers) RegisterRoutes(router fiber.Router) {
	email := router.Group("/email")
	email.Post("/", h.sendMail)
	email.Post("/queue", h.queueMail)
	email.Get("/", h.getEmailLogs)
}

// sendMail handles POST /email: synchronous dispatch. The response carries
// the transport message ID; failures surface through the global error
// handler as the registered dispatch errors.
func (h *Handlers) sendMail(c *fiber.Ctx) error {
	var req maillog.SendRequest
	if err := c.BodyParser(&req); err != nil {
		return maillog.ErrInvalidRequestf("malformed request body")
	}

	logx.Infof("mailloghttp: send request for %s", req.To)
	result, err := h.service.Send(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// queueMail handles POST /email/queue: asynchronous dispatch. The caller
// gets the log ID immediately and polls GET /email for the outcome.
func (h *Handlers) queueMail(c *fiber.Ctx) error {
	var req maillog.SendRequest
	if err := c.BodyParser(&req); err != nil {
		return maillog.ErrInvalidRequestf("malformed request body")
	}

	logx.Infof("mailloghttp: queue request for %s", req.To)
	result, err := h.service.Queue(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(result)
}

// getEmailLogs handles GET /email. The read path always answers 200; the
// envelope's success flag tells failures apart.
func (h *Handlers) getEmailLogs(c *fiber.Ctx) error {
	var q maillog.LogQuery
	if err := c.QueryParser(&q); err != nil {
		return maillog.ErrInvalidRequestf("malformed query parameters")
	}
	return c.JSON(h.service.ListLogs(c.Context(), q))
}
