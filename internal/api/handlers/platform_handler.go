package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/service"
)

type PlatformHandler struct {
	s service.PlatformService
}

func NewPlatformHandler(service service.PlatformService) *PlatformHandler {
	return &PlatformHandler{s: service}
}

func (h *PlatformHandler) ConnectTwitter(c *fiber.Ctx) error {
	userID := GetUserID(c)

	authURL, err := h.s.GetAuthURL(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not start authorization",
		})
	}

	return c.Redirect(authURL)
}

func (h *PlatformHandler) TwitterCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")

	accountID, err := h.s.HandleCallback(c.Context(), state, code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidState):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "state missing, expired, or already used",
			})
		case errors.Is(err, apperrors.ErrTokenExchange):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "authorization code exchange rejected",
			})
		case apperrors.IsAuthFailure(err):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization failed",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "authorization failed",
			})
		}
	}

	return c.JSON(fiber.Map{
		"account_id": accountID,
		"connected":  true,
	})
}

func (h *PlatformHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accounts, err := h.s.ListAccounts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(accounts)
}

func (h *PlatformHandler) DisconnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	if err := h.s.DisconnectAccount(c.Context(), userID, accountID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"disconnected": true})
}
