package schedule

import (
	"log"
	"time"

	"wakeup/internal/models"
)

// handleBase spreads alarm ids so that weekday slots (1..7) and the one-shot
// slot (0) of one alarm never collide with another alarm's handles.
const handleBase = 10

// Handle derives the timer handle for one registration of an alarm. A nil
// weekday means the alarm's single one-shot registration.
func Handle(alarmID int, weekday *models.Weekday) int {
	if weekday == nil {
		return alarmID * handleBase
	}
	return alarmID*handleBase + 1 + int(*weekday)
}

// Timer is the external timer primitive: fire the payload at the given
// instant, waking the device if needed. Cancel of an unknown handle is a
// no-op.
type Timer interface {
	ScheduleAt(handle int, at time.Time, payload models.TriggerPayload) error
	Cancel(handle int)
}

// Registry issues timer registrations for alarms. One-shot alarms hold a
// single registration; a recurring alarm holds one per weekday, all of which
// are cancelled together.
type Registry struct {
	timer Timer
	now   func() time.Time
}

func NewRegistry(timer Timer) *Registry {
	return &Registry{timer: timer, now: time.Now}
}

// NewRegistryAt is like NewRegistry but with an injected clock.
func NewRegistryAt(timer Timer, now func() time.Time) *Registry {
	return &Registry{timer: timer, now: now}
}

// Register schedules every registration the alarm needs and returns the
// handles it issued. A registration refused by the timer primitive is logged
// and skipped; the alarm's other weekdays still get registered.
func (r *Registry) Register(alarm models.Alarm, difficulty models.Difficulty) []int {
	now := r.now()

	if alarm.OneShot() {
		handle := Handle(alarm.ID, nil)
		at := NextOneShot(now, alarm.Hour, alarm.Minute)
		if err := r.timer.ScheduleAt(handle, at, payloadFor(alarm, difficulty, nil)); err != nil {
			log.Printf("Failed to register alarm %d: %v", alarm.ID, err)
			return nil
		}
		return []int{handle}
	}

	handles := make([]int, 0, len(alarm.Weekdays))
	for _, day := range alarm.Weekdays {
		day := day
		handle := Handle(alarm.ID, &day)
		at := NextWeekly(now, day, alarm.Hour, alarm.Minute)
		if err := r.timer.ScheduleAt(handle, at, payloadFor(alarm, difficulty, &day)); err != nil {
			log.Printf("Failed to register alarm %d (%s): %v", alarm.ID, day, err)
			continue
		}
		handles = append(handles, handle)
	}
	return handles
}

// Cancel recomputes the alarm's handle set and cancels each registration.
// Safe to call for alarms that were never, or only partially, registered.
func (r *Registry) Cancel(alarm models.Alarm) {
	if alarm.OneShot() {
		r.timer.Cancel(Handle(alarm.ID, nil))
		return
	}
	for _, day := range alarm.Weekdays {
		day := day
		r.timer.Cancel(Handle(alarm.ID, &day))
	}
}

// RegisterNext re-arms a single recurring registration after it fired.
func (r *Registry) RegisterNext(payload models.TriggerPayload) {
	if payload.Weekday == nil {
		return
	}
	day := *payload.Weekday
	handle := Handle(payload.AlarmID, &day)
	at := NextWeekly(r.now(), day, payload.Hour, payload.Minute)
	if err := r.timer.ScheduleAt(handle, at, payload); err != nil {
		log.Printf("Failed to re-register alarm %d (%s): %v", payload.AlarmID, day, err)
	}
}

func payloadFor(alarm models.Alarm, difficulty models.Difficulty, day *models.Weekday) models.TriggerPayload {
	return models.TriggerPayload{
		AlarmID:           alarm.ID,
		UserID:            alarm.UserID,
		Hour:              alarm.Hour,
		Minute:            alarm.Minute,
		Label:             alarm.Label,
		Mission:           alarm.Mission,
		SoundRef:          alarm.SoundRef,
		UseCustomSentence: alarm.UseCustomSentence,
		Difficulty:        difficulty,
		Weekday:           day,
	}
}
