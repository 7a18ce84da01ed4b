package api

import (
	"strings"

	"wakeup/internal/models"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func CreateSentenceHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		var req models.CreateSentenceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		text := strings.TrimSpace(req.Text)
		if text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Sentence text is required")
		}

		sentence, err := st.AppendCustomSentence(userID, text)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(sentence)
	}
}

func ListSentencesHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		sentences, err := st.ListCustomSentences(userID)
		if err != nil {
			return err
		}
		return c.JSON(sentences)
	}
}

func ClearSentencesHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		if err := st.ClearCustomSentences(userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
