package middleware

import (
	"errors"

	"github.com/Sylvain-Z/signalcampus-backend/internal/config"
	"github.com/Sylvain-Z/signalcampus-backend/internal/dto"
	"github.com/Sylvain-Z/signalcampus-backend/internal/models"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const principalKey = "principal"

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// CurrentUser resolves the token subject against the users table and
// stores the principal in context. A token whose subject no longer exists
// is rejected: the payload carries only an identifier, so the user record
// is the source of truth for role and login.
func CurrentUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid token subject",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown token subject",
			})
		}

		c.Locals(principalKey, &user)
		return c.Next()
	}
}

// GetPrincipal returns the authenticated user resolved by CurrentUser.
func GetPrincipal(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(principalKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no principal in context")
	}
	return user, nil
}
