package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nikhilm23/moodlens/internal/apperrors"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/service"
)

type IngestionHandler struct {
	s  service.IngestionService
	sa repository.SocialAccountRepository
}

func NewIngestionHandler(service service.IngestionService, sa repository.SocialAccountRepository) *IngestionHandler {
	return &IngestionHandler{s: service, sa: sa}
}

// TriggerIngest runs one ingestion pass synchronously. A run already in
// flight for the account answers 409.
func (h *IngestionHandler) TriggerIngest(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	owned, err := h.sa.CheckByUserID(c.Context(), accountID, userID)
	if err != nil || !owned {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "account not found",
		})
	}

	maxItems := c.QueryInt("max_items", 0)

	result, err := h.s.Run(c.Context(), accountID, maxItems)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "ingestion already running for this account",
			})
		}
		if result != nil {
			// A failed run still reports how far it got.
			return c.Status(fiber.StatusBadGateway).JSON(result)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

func (h *IngestionHandler) GetRun(c *fiber.Ctx) error {
	runID := c.Params("run_id")

	run, err := h.s.GetRun(c.Context(), runID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "run not found",
		})
	}

	return c.JSON(run)
}

func (h *IngestionHandler) ListRuns(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	owned, err := h.sa.CheckByUserID(c.Context(), accountID, userID)
	if err != nil || !owned {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "account not found",
		})
	}

	runs, err := h.s.ListRuns(c.Context(), accountID, c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(runs)
}
