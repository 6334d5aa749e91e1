package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/session"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// PrintHandler serves batch printing and the session print cart.
type PrintHandler struct {
	batches service.PrintBatchService
	cart    service.PrintCartService
	logger  zerolog.Logger
}

// NewPrintHandler constructs the handler.
func NewPrintHandler(batches service.PrintBatchService, cart service.PrintCartService, logger zerolog.Logger) *PrintHandler {
	return &PrintHandler{
		batches: batches,
		cart:    cart,
		logger:  logger.With().Str("component", "print_handler").Logger(),
	}
}

// Register attaches print routes to the /superadmin/print group. Static paths come before /:schoolId.
func (h *PrintHandler) Register(router fiber.Router) {
	router.Get("/", h.schools)
	router.Get("/cart", h.listCart)
	router.Post("/cart/toggle", h.toggle)
	router.Post("/cart/clear", h.clear)
	router.Get("/preview", h.preview)
	router.Post("/complete", h.complete)
	router.Get("/class/:classId", h.classListing)
	router.Get("/:schoolId", h.classes)
}

func (h *PrintHandler) schools(c *fiber.Ctx) error {
	response, err := h.batches.SchoolSummaries(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to load schools")
	}
	return utils.SendSuccess(c, "schools retrieved", response)
}

func (h *PrintHandler) classes(c *fiber.Ctx) error {
	response, err := h.batches.ClassSummaries(c.UserContext(), c.Params("schoolId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load classes")
	}
	return utils.SendSuccess(c, "classes retrieved", response)
}

func (h *PrintHandler) classListing(c *fiber.Ctx) error {
	response, err := h.batches.ClassListing(c.UserContext(), session.ID(c), c.Params("classId"), c.Query("schoolId"), c.Query("section"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load students")
	}
	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *PrintHandler) listCart(c *fiber.Ctx) error {
	response, err := h.cart.List(c.UserContext(), session.ID(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load cart")
	}
	return utils.SendSuccess(c, "cart retrieved", response)
}

func (h *PrintHandler) toggle(c *fiber.Ctx) error {
	var req dto.CartToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.cart.Toggle(c.UserContext(), session.ID(c), req.StudentID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStudentID) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return respondError(c, h.logger, err, "failed to update cart")
	}
	return utils.SendSuccess(c, "cart updated", response)
}

func (h *PrintHandler) clear(c *fiber.Ctx) error {
	if err := h.cart.Clear(c.UserContext(), session.ID(c)); err != nil {
		return respondError(c, h.logger, err, "failed to clear cart")
	}
	return utils.SendSuccess(c, "cart cleared", dto.CartResponse{Items: []string{}})
}

func (h *PrintHandler) preview(c *fiber.Ctx) error {
	response, err := h.cart.Preview(c.UserContext(), session.ID(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to prepare print preview")
	}
	return utils.SendSuccess(c, "print preview", response)
}

func (h *PrintHandler) complete(c *fiber.Ctx) error {
	response, err := h.cart.Complete(c.UserContext(), actorFromContext(c), session.ID(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to complete print batch")
	}

	requestLogger(h.logger, c).Info().
		Str("batch_id", response.BatchID).
		Int64("printed", response.Printed).
		Msg("print batch completed")
	return utils.SendSuccess(c, "students marked as printed", response)
}
