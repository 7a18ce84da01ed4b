// Package ring owns the active wake-up episode: it receives fired trigger
// payloads, builds the mission session, funnels every inbound event through
// one serialized queue, and records the outcome.
package ring

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"wakeup/internal/mission"
	"wakeup/internal/models"
	"wakeup/internal/schedule"
	"wakeup/internal/store"
)

// ErrNoEpisode is returned for events arriving with no alarm ringing.
var ErrNoEpisode = errors.New("no active episode")

// Notifier delivers the wake event to the user's subscribed clients.
type Notifier interface {
	NotifyWake(payload models.TriggerPayload)
}

// Manager holds at most one active episode. Events may arrive on any
// goroutine (timer callbacks, HTTP handlers); each is processed to
// completion under one lock, the single logical event queue.
type Manager struct {
	store    *store.Store
	registry *schedule.Registry
	notifier Notifier
	rnd      *rand.Rand
	now      func() time.Time

	mu      sync.Mutex
	payload models.TriggerPayload
	session *mission.Session
}

func NewManager(st *store.Store, registry *schedule.Registry, notifier Notifier) *Manager {
	return &Manager{
		store:    st,
		registry: registry,
		notifier: notifier,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// WithClock injects a deterministic clock and random source for tests.
func (m *Manager) WithClock(now func() time.Time, rnd *rand.Rand) *Manager {
	m.now = now
	m.rnd = rnd
	return m
}

// OnFire is the wake delivery callback. A payload arriving while another
// episode is active replaces it; the old episode is abandoned without a
// record, mirroring a second alarm taking over the wake surface.
func (m *Manager) OnFire(payload models.TriggerPayload) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Teardown()
	}

	var custom []string
	if payload.Mission == models.MissionTyping && payload.UseCustomSentence {
		sentences, err := m.store.ListCustomSentences(payload.UserID)
		if err != nil {
			log.Printf("Failed to load custom sentences for user %d: %v", payload.UserID, err)
		}
		for _, cs := range sentences {
			custom = append(custom, cs.Text)
		}
	}

	now := m.now()
	m.payload = payload
	m.session = mission.NewSession(mission.Params{
		Kind:              payload.Mission,
		Difficulty:        payload.Difficulty,
		UseCustomSentence: payload.UseCustomSentence,
		CustomSentences:   custom,
	}, m.rnd, now)

	// Recurring registrations are one-shot at the timer layer; re-arm the
	// next weekly occurrence as soon as this one fires. A fired one-shot is
	// spent: disable it in storage so the resync sweep and restarts do not
	// re-register it for the next day.
	if payload.Weekday != nil {
		m.registry.RegisterNext(payload)
	} else if err := m.store.DisableAlarm(payload.AlarmID, payload.UserID); err != nil {
		log.Printf("Failed to disable fired alarm %d: %v", payload.AlarmID, err)
	}

	if m.notifier != nil {
		m.notifier.NotifyWake(payload)
	}
}

// Status describes the ringing alarm for the wake surface.
type Status struct {
	Active  bool              `json:"active"`
	AlarmID int               `json:"alarm_id,omitempty"`
	Label   string            `json:"label,omitempty"`
	Hour    int               `json:"hour,omitempty"`
	Minute  int               `json:"minute,omitempty"`
	Sound   string            `json:"sound_ref,omitempty"`
	Session *mission.Snapshot `json:"session,omitempty"`
}

// OwnerID is the user whose alarm is ringing, zero when idle.
func (m *Manager) OwnerID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return m.payload.UserID
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	if m.session == nil {
		return Status{Active: false}
	}
	snap := m.session.Snapshot()
	return Status{
		Active:  true,
		AlarmID: m.payload.AlarmID,
		Label:   m.payload.Label,
		Hour:    m.payload.Hour,
		Minute:  m.payload.Minute,
		Sound:   m.payload.SoundRef,
		Session: &snap,
	}
}

// SubmitAnswer forwards a math answer to the active session.
func (m *Manager) SubmitAnswer(input string) (mission.AnswerResult, Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return mission.AnswerIgnored, m.statusLocked(), ErrNoEpisode
	}
	res := m.session.SubmitAnswer(input)
	st := m.finishLocked()
	return res, st, nil
}

// Motion forwards one accelerometer sample, stamped on arrival.
func (m *Manager) Motion(x, y, z float64) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return m.statusLocked(), ErrNoEpisode
	}
	m.session.Motion(x, y, z, m.now())
	return m.finishLocked(), nil
}

// Tap forwards one tap event.
func (m *Manager) Tap() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return m.statusLocked(), ErrNoEpisode
	}
	m.session.Tap()
	return m.finishLocked(), nil
}

// Typing forwards the full current typing input.
func (m *Manager) Typing(input string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return m.statusLocked(), ErrNoEpisode
	}
	m.session.Typing(input)
	return m.finishLocked(), nil
}

// Dismiss ends a mission-less episode.
func (m *Manager) Dismiss() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return m.statusLocked(), ErrNoEpisode
	}
	m.session.Dismiss()
	return m.finishLocked(), nil
}

// Snooze abandons the episode and registers a replacement one-shot alarm
// five minutes out. No wake record is written for the abandoned session.
func (m *Manager) Snooze() (models.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return models.Alarm{}, ErrNoEpisode
	}
	if !m.session.Snooze() {
		return models.Alarm{}, ErrNoEpisode
	}
	replacement := schedule.Snooze(m.payload, m.now(), m.rnd)
	m.registry.Register(replacement, m.payload.Difficulty)
	m.clearLocked()
	return replacement, nil
}

// SetVisibility pauses motion intake when the wake surface is hidden and
// re-arms it, progress intact, when it returns.
func (m *Manager) SetVisibility(visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ErrNoEpisode
	}
	if visible {
		m.session.Resume()
	} else {
		m.session.Pause()
	}
	return nil
}

// Teardown abandons the episode without a record, e.g. at shutdown.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Teardown()
		m.clearLocked()
	}
}

// finishLocked captures the post-event status and, when the mission just
// passed, appends exactly one wake record and ends the episode.
func (m *Manager) finishLocked() Status {
	st := m.statusLocked()
	if m.session != nil && m.session.State() == mission.Passed {
		now := m.now()
		record := models.WakeRecord{
			UserID:          m.payload.UserID,
			TimestampMillis: now.UnixMilli(),
			Date:            now.Format("2006.01.02"),
			Time:            now.Format("15:04"),
			MissionLabel:    m.payload.Mission.Label(),
		}
		if err := m.store.AppendHistory(&record); err != nil {
			log.Printf("Failed to append wake record for alarm %d: %v", m.payload.AlarmID, err)
		}
		m.clearLocked()
	}
	return st
}

func (m *Manager) clearLocked() {
	m.session = nil
	m.payload = models.TriggerPayload{}
}
