package api

import (
	"os"

	"wakeup/internal/models"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func VapidPublicKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"publicKey": os.Getenv("VAPID_PUBLIC_KEY"),
		})
	}
}

func SubscribePushHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		var req models.SubscribePushRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Missing subscription fields")
		}

		err := st.AddPushSubscription(models.PushSubscription{
			UserID:   userID,
			Endpoint: req.Endpoint,
			P256dh:   req.P256dh,
			Auth:     req.Auth,
		})
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true})
	}
}

func UnsubscribePushHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		var body struct {
			Endpoint string `json:"endpoint"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := st.RemovePushSubscription(userID, body.Endpoint); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
