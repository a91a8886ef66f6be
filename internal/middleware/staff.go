package middleware

import (
	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
)

// StaffRequired gates staff-only routes. Must run after CurrentUser.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := GetPrincipal(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !policy.CanModerateSignalements(principal) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
