package api

import (
	"wakeup/internal/mission"
	"wakeup/internal/models"
	"wakeup/internal/ring"

	"github.com/gofiber/fiber/v2"
)

// requireEpisode rejects ring events from users whose alarm is not the one
// ringing; the wake surface is a single-episode resource.
func requireEpisode(c *fiber.Ctx, mgr *ring.Manager) error {
	userID := c.Locals("userID").(int)
	owner := mgr.OwnerID()
	if owner == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
	}
	if owner != userID {
		return fiber.NewError(fiber.StatusForbidden, "Not your alarm")
	}
	return nil
}

func RingStatusHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		status := mgr.Status()
		if status.Active && mgr.OwnerID() != userID {
			return c.JSON(ring.Status{Active: false})
		}
		return c.JSON(status)
	}
}

func RingAnswerHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}

		var req models.AnswerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		result, status, err := mgr.SubmitAnswer(req.Answer)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}

		resp := fiber.Map{"status": status}
		switch result {
		case mission.AnswerCorrect:
			resp["correct"] = true
		case mission.AnswerWrong:
			// The client clears the input and shows a transient notice.
			resp["correct"] = false
			resp["notice"] = "Wrong answer"
		}
		return c.JSON(resp)
	}
}

func RingTapHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}
		status, err := mgr.Tap()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(status)
	}
}

func RingMotionHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}

		var req models.MotionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		status, err := mgr.Motion(req.X, req.Y, req.Z)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(status)
	}
}

func RingTypingHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}

		var req models.TypingRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		status, err := mgr.Typing(req.Input)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(status)
	}
}

func RingDismissHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}
		status, err := mgr.Dismiss()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(status)
	}
}

func RingSnoozeHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}
		replacement, err := mgr.Snooze()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(fiber.Map{
			"snoozed_until": fiber.Map{
				"hour":   replacement.Hour,
				"minute": replacement.Minute,
			},
			"alarm": replacement,
		})
	}
}

func RingVisibilityHandler(mgr *ring.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := requireEpisode(c, mgr); err != nil {
			return err
		}

		var req models.VisibilityRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := mgr.SetVisibility(req.Visible); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No alarm is ringing")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
