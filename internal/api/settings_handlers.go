package api

import (
	"wakeup/internal/models"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func GetSettingsHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		settings, err := st.GetSettings(userID)
		if err != nil {
			return err
		}
		return c.JSON(settings)
	}
}

func UpdateSettingsHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		var req models.UpdateSettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if req.Difficulty != nil {
			if err := st.SetDifficulty(userID, models.ParseDifficulty(*req.Difficulty)); err != nil {
				return err
			}
		}
		if req.SleepGoalHours != nil {
			if err := st.SetSleepGoal(userID, *req.SleepGoalHours); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		settings, err := st.GetSettings(userID)
		if err != nil {
			return err
		}
		return c.JSON(settings)
	}
}
