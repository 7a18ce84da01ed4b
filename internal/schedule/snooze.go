package schedule

import (
	"math/rand"
	"time"

	"wakeup/internal/models"
)

// SnoozeDelay is how far a deferred wake-up is pushed out.
const SnoozeDelay = 5 * time.Minute

// Snooze alarm ids live in a high range disjoint from AUTOINCREMENT ids of
// user-created alarms, so their timer handles can never collide.
const (
	snoozeIDMin = 100000
	snoozeIDMax = 999999
)

// Snooze derives a replacement one-shot alarm five minutes from now,
// carrying the fired alarm's mission, sound and sentence source. The alarm
// is ephemeral: it gets registered but never persisted.
func Snooze(p models.TriggerPayload, now time.Time, rnd *rand.Rand) models.Alarm {
	at := now.Add(SnoozeDelay)
	return models.Alarm{
		ID:                snoozeIDMin + rnd.Intn(snoozeIDMax-snoozeIDMin+1),
		UserID:            p.UserID,
		Hour:              at.Hour(),
		Minute:            at.Minute(),
		Label:             "Snoozed alarm",
		Weekdays:          nil,
		Mission:           p.Mission,
		Enabled:           true,
		SoundRef:          p.SoundRef,
		UseCustomSentence: p.UseCustomSentence,
	}
}
