package api

import (
	"wakeup/internal/analysis"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func ListHistoryHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		records, err := st.ListHistory(userID)
		if err != nil {
			return err
		}
		return c.JSON(records)
	}
}

func ClearHistoryHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		if err := st.ClearHistory(userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// AnalysisHandler runs the sleep analyzer over the user's full history and
// includes the sleep goal so the client can plot the gap.
func AnalysisHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		records, err := st.ListHistory(userID)
		if err != nil {
			return err
		}
		settings, err := st.GetSettings(userID)
		if err != nil {
			return err
		}

		result := analysis.Analyze(records)
		return c.JSON(fiber.Map{
			"mean_hours":        result.MeanHours,
			"comment":           result.Comment,
			"per_weekday_hours": result.PerWeekdayHours,
			"sleep_goal_hours":  settings.SleepGoalHours,
		})
	}
}
