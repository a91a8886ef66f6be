package handlers

import (
	"errors"
	"strconv"

	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/middleware"
	"github.com/Sylvain-Z/signalcampus-backend/internal/policy"
	"github.com/Sylvain-Z/signalcampus-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SignalementHandler struct {
	signalementService *services.SignalementService
}

func NewSignalementHandler(signalementService *services.SignalementService) *SignalementHandler {
	return &SignalementHandler{signalementService: signalementService}
}

func (h *SignalementHandler) Create(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateSignalementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	signalement, err := h.signalementService.Create(principal.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create signalement",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(signalement)
}

// CreateUrgent is the unauthenticated panic-button path. The record is
// attributed to the reserved system identity.
func (h *SignalementHandler) CreateUrgent(c *fiber.Ctx) error {
	var req dto.CreateUrgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	signalement, err := h.signalementService.CreateUrgent(&req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create urgent signalement",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(signalement)
}

func (h *SignalementHandler) List(c *fiber.Ctx) error {
	var filter dto.SignalementFilter
	if raw := c.Query("category"); raw != "" {
		category, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid category filter",
			})
		}
		filter.Category = &category
	}
	if raw := c.Query("isProcessed"); raw != "" {
		processed := raw == "true"
		filter.IsProcessed = &processed
	}

	signalements, err := h.signalementService.List(&filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch signalements",
		})
	}
	return c.JSON(signalements)
}

func (h *SignalementHandler) Get(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signalement ID",
		})
	}

	signalement, err := h.signalementService.Get(id)
	if err != nil {
		return signalementError(c, err)
	}

	if !policy.CanViewSignalement(principal, signalement.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You are not the creator of this signalement nor a staff member",
		})
	}

	return c.JSON(signalement)
}

func (h *SignalementHandler) ListByUser(c *fiber.Ctx) error {
	principal, err := middleware.GetPrincipal(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if !policy.CanListUserSignalements(principal, userID) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You can only view your own signalements",
		})
	}

	signalements, err := h.signalementService.ListByOwner(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch signalements",
		})
	}
	return c.JSON(signalements)
}

func (h *SignalementHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signalement ID",
		})
	}

	var req dto.UpdateSignalementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.signalementService.Update(id, &req); err != nil {
		return signalementError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Signalement updated successfully"})
}

func (h *SignalementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signalement ID",
		})
	}

	if err := h.signalementService.Delete(id); err != nil {
		return signalementError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Signalement deleted successfully"})
}

func (h *SignalementHandler) MarkProcessed(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signalement ID",
		})
	}

	if err := h.signalementService.MarkProcessed(id); err != nil {
		return signalementError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Signalement marked as processed"})
}

func signalementError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrSignalementNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Signalement not found",
		})
	}
	if errors.Is(err, services.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
