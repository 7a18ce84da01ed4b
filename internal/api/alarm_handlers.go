package api

import (
	"database/sql"
	"strconv"

	"wakeup/internal/models"
	"wakeup/internal/schedule"
	"wakeup/internal/store"

	"github.com/gofiber/fiber/v2"
)

func validateAlarmRequest(req models.AlarmRequest) error {
	if req.Hour < 0 || req.Hour > 23 {
		return fiber.NewError(fiber.StatusBadRequest, "Hour must be between 0 and 23")
	}
	if req.Minute < 0 || req.Minute > 59 {
		return fiber.NewError(fiber.StatusBadRequest, "Minute must be between 0 and 59")
	}
	return nil
}

func CreateAlarmHandler(st *store.Store, reg *schedule.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		var req models.AlarmRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validateAlarmRequest(req); err != nil {
			return err
		}

		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}

		alarm := models.Alarm{
			UserID:            userID,
			Hour:              req.Hour,
			Minute:            req.Minute,
			Label:             req.Label,
			Weekdays:          req.Weekdays,
			Mission:           req.Mission,
			Enabled:           enabled,
			SoundRef:          req.SoundRef,
			UseCustomSentence: req.UseCustomSentence,
		}
		if err := st.UpsertAlarm(&alarm); err != nil {
			return err
		}

		if alarm.Enabled {
			settings, err := st.GetSettings(userID)
			if err != nil {
				return err
			}
			reg.Register(alarm, settings.Difficulty)
		}

		return c.Status(fiber.StatusCreated).JSON(alarm)
	}
}

func ListAlarmsHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)

		alarms, err := st.ListAlarms(userID)
		if err != nil {
			return err
		}
		return c.JSON(alarms)
	}
}

func GetAlarmHandler(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		alarmID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid alarm ID")
		}

		alarm, err := st.GetAlarm(alarmID, userID)
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Alarm not found")
		}
		if err != nil {
			return err
		}
		return c.JSON(alarm)
	}
}

// UpdateAlarmHandler edits an alarm in place. The old registrations are
// cancelled before the new ones are issued, so a changed weekday set never
// leaves stale timers behind.
func UpdateAlarmHandler(st *store.Store, reg *schedule.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		alarmID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid alarm ID")
		}

		var req models.AlarmRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validateAlarmRequest(req); err != nil {
			return err
		}

		alarm, err := st.GetAlarm(alarmID, userID)
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Alarm not found")
		}
		if err != nil {
			return err
		}

		// Cancel against the stored weekday set, not the incoming one.
		reg.Cancel(alarm)

		alarm.Hour = req.Hour
		alarm.Minute = req.Minute
		alarm.Label = req.Label
		alarm.Weekdays = req.Weekdays
		alarm.Mission = req.Mission
		alarm.SoundRef = req.SoundRef
		alarm.UseCustomSentence = req.UseCustomSentence
		if req.Enabled != nil {
			alarm.Enabled = *req.Enabled
		}

		if err := st.UpsertAlarm(&alarm); err != nil {
			return err
		}

		if alarm.Enabled {
			settings, err := st.GetSettings(userID)
			if err != nil {
				return err
			}
			reg.Register(alarm, settings.Difficulty)
		}

		return c.JSON(alarm)
	}
}

func ToggleAlarmHandler(st *store.Store, reg *schedule.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		alarmID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid alarm ID")
		}

		alarm, err := st.GetAlarm(alarmID, userID)
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Alarm not found")
		}
		if err != nil {
			return err
		}

		alarm.Enabled = !alarm.Enabled
		if err := st.UpsertAlarm(&alarm); err != nil {
			return err
		}

		if alarm.Enabled {
			settings, err := st.GetSettings(userID)
			if err != nil {
				return err
			}
			reg.Register(alarm, settings.Difficulty)
		} else {
			reg.Cancel(alarm)
		}

		return c.JSON(alarm)
	}
}

func DeleteAlarmHandler(st *store.Store, reg *schedule.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(int)
		alarmID, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid alarm ID")
		}

		alarm, err := st.GetAlarm(alarmID, userID)
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Alarm not found")
		}
		if err != nil {
			return err
		}

		reg.Cancel(alarm)

		if err := st.DeleteAlarm(alarmID, userID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
