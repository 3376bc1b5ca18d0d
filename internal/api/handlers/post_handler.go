package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nikhilm23/moodlens/internal/service"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	posts, err := h.s.ListPosts(c.Context(), userID, accountID,
		c.QueryInt("limit", 25), c.QueryInt("offset", 0))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	postID, err := strconv.ParseInt(c.Params("post_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid post id",
		})
	}

	post, comments, err := h.s.GetPostWithComments(c.Context(), userID, postID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

func (h *PostHandler) GetAccountStats(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid account id",
		})
	}

	stats, err := h.s.GetAccountStats(c.Context(), userID, accountID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}
