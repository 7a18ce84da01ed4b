package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a closed enum, Monday-indexed (0=Monday .. 6=Sunday).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayCodes = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayCodes[w]
}

// Time maps to the stdlib weekday (time.Sunday = 0).
func (w Weekday) Time() time.Weekday {
	if w == Sunday {
		return time.Sunday
	}
	return time.Weekday(int(w) + 1)
}

// FromTime converts a stdlib weekday to the Monday-indexed enum.
func FromTime(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(int(d) - 1)
}

func ParseWeekday(s string) (Weekday, error) {
	for i, code := range weekdayCodes {
		if code == s {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return []byte(weekdayCodes[w]), nil
}

func (w *Weekday) UnmarshalText(b []byte) error {
	d, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*w = d
	return nil
}

// EncodeWeekdays serializes a weekday set for storage as a comma-joined
// string in canonical Monday-first order, duplicates removed. The in-memory
// model never carries this encoding; it exists at the storage boundary only.
func EncodeWeekdays(days []Weekday) string {
	var seen [7]bool
	for _, d := range days {
		if d.Valid() {
			seen[d] = true
		}
	}
	parts := make([]string, 0, 7)
	for i, ok := range seen {
		if ok {
			parts = append(parts, weekdayCodes[i])
		}
	}
	return strings.Join(parts, ",")
}

// DecodeWeekdays parses the storage encoding. Unknown tokens are dropped
// rather than failing the whole row.
func DecodeWeekdays(s string) []Weekday {
	if s == "" {
		return nil
	}
	var seen [7]bool
	for _, tok := range strings.Split(s, ",") {
		if d, err := ParseWeekday(strings.TrimSpace(tok)); err == nil {
			seen[d] = true
		}
	}
	days := make([]Weekday, 0, 7)
	for i, ok := range seen {
		if ok {
			days = append(days, Weekday(i))
		}
	}
	return days
}

// MissionKind selects the verification challenge gating alarm dismissal.
type MissionKind int

const (
	MissionNone MissionKind = iota
	MissionMath
	MissionShake
	MissionTap
	MissionTyping
)

var missionCodes = map[MissionKind]string{
	MissionNone:   "none",
	MissionMath:   "math",
	MissionShake:  "shake",
	MissionTap:    "tap",
	MissionTyping: "typing",
}

var missionLabels = map[MissionKind]string{
	MissionNone:   "Basic Alarm",
	MissionMath:   "Math Problem",
	MissionShake:  "Phone Shake",
	MissionTap:    "Rapid Tap",
	MissionTyping: "Typing",
}

func (m MissionKind) String() string { return missionCodes[m] }

// Label is the human-readable name recorded in wake history.
func (m MissionKind) Label() string { return missionLabels[m] }

func ParseMissionKind(s string) (MissionKind, error) {
	for k, code := range missionCodes {
		if code == s {
			return k, nil
		}
	}
	return MissionNone, fmt.Errorf("unknown mission kind %q", s)
}

func (m MissionKind) MarshalText() ([]byte, error) {
	code, ok := missionCodes[m]
	if !ok {
		return nil, fmt.Errorf("invalid mission kind %d", int(m))
	}
	return []byte(code), nil
}

func (m *MissionKind) UnmarshalText(b []byte) error {
	k, err := ParseMissionKind(string(b))
	if err != nil {
		return err
	}
	*m = k
	return nil
}

// Difficulty scales challenge generation.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
)

var difficultyCodes = map[Difficulty]string{
	Easy:   "easy",
	Normal: "normal",
	Hard:   "hard",
}

func (d Difficulty) String() string { return difficultyCodes[d] }

// Multiplier is the legacy scale factor exposed alongside the tier.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 0.5
	case Hard:
		return 2.0
	default:
		return 1.0
	}
}

// ParseDifficulty falls back to Normal on unknown input.
func ParseDifficulty(s string) Difficulty {
	for d, code := range difficultyCodes {
		if code == s {
			return d
		}
	}
	return Normal
}

func (d Difficulty) MarshalText() ([]byte, error) {
	code, ok := difficultyCodes[d]
	if !ok {
		return nil, fmt.Errorf("invalid difficulty %d", int(d))
	}
	return []byte(code), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	*d = ParseDifficulty(string(b))
	return nil
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Alarm struct {
	ID                int         `json:"id"`
	UserID            int         `json:"user_id"`
	Hour              int         `json:"hour"`
	Minute            int         `json:"minute"`
	Label             string      `json:"label"`
	Weekdays          []Weekday   `json:"weekdays"`
	Mission           MissionKind `json:"mission"`
	Enabled           bool        `json:"enabled"`
	SoundRef          string      `json:"sound_ref,omitempty"`
	UseCustomSentence bool        `json:"use_custom_sentence"`
	CreatedAt         time.Time   `json:"created_at"`
}

// OneShot reports whether the alarm fires once (empty weekday set).
func (a Alarm) OneShot() bool { return len(a.Weekdays) == 0 }

type WakeRecord struct {
	ID              int    `json:"id"`
	UserID          int    `json:"user_id"`
	TimestampMillis int64  `json:"timestamp_millis"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	MissionLabel    string `json:"mission_label"`
}

type CustomSentence struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Text   string `json:"text"`
}

type PushSubscription struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// Settings are the per-user preferences consulted when an alarm fires.
type Settings struct {
	Difficulty     Difficulty `json:"difficulty"`
	SleepGoalHours int        `json:"sleep_goal_hours"`
}

// TriggerPayload carries enough of an alarm through the timer primitive to
// reconstruct a mission session without re-reading storage. Weekday is set
// only for recurring registrations.
type TriggerPayload struct {
	AlarmID           int         `json:"alarm_id"`
	UserID            int         `json:"user_id"`
	Hour              int         `json:"hour"`
	Minute            int         `json:"minute"`
	Label             string      `json:"label"`
	Mission           MissionKind `json:"mission"`
	SoundRef          string      `json:"sound_ref,omitempty"`
	UseCustomSentence bool        `json:"use_custom_sentence"`
	Difficulty        Difficulty  `json:"difficulty"`
	Weekday           *Weekday    `json:"weekday,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type AlarmRequest struct {
	Hour              int         `json:"hour"`
	Minute            int         `json:"minute"`
	Label             string      `json:"label"`
	Weekdays          []Weekday   `json:"weekdays"`
	Mission           MissionKind `json:"mission"`
	Enabled           *bool       `json:"enabled,omitempty"`
	SoundRef          string      `json:"sound_ref,omitempty"`
	UseCustomSentence bool        `json:"use_custom_sentence"`
}

type CreateSentenceRequest struct {
	Text string `json:"text"`
}

type UpdateSettingsRequest struct {
	Difficulty     *string `json:"difficulty,omitempty"`
	SleepGoalHours *int    `json:"sleep_goal_hours,omitempty"`
}

type SubscribePushRequest struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type MotionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type TypingRequest struct {
	Input string `json:"input"`
}

type VisibilityRequest struct {
	Visible bool `json:"visible"`
}
