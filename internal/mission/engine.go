// Package mission drives the verification challenge gating alarm dismissal:
// a state machine per wake-up episode fed by user input events.
package mission

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"wakeup/internal/models"
)

// State of one wake-up episode.
type State int

const (
	Idle State = iota
	Active
	Passed
	Abandoned
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Passed:
		return "passed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

const (
	// ShakeThreshold is the acceleration magnitude, in multiples of
	// standard gravity, a motion sample must exceed to count as a shake.
	ShakeThreshold = 1.3

	// ShakeDebounce is the minimum spacing between accepted samples.
	ShakeDebounce = 300 * time.Millisecond

	gravity = 9.80665
)

// AnswerResult is the outcome of submitting a math answer.
type AnswerResult int

const (
	AnswerIgnored AnswerResult = iota
	AnswerWrong
	AnswerCorrect
)

// Params configure a new session; the custom sentence pool is only consulted
// for typing missions that requested it.
type Params struct {
	Kind              models.MissionKind
	Difficulty        models.Difficulty
	UseCustomSentence bool
	CustomSentences   []string
}

// Session is the in-memory state of one active episode. It is not safe for
// concurrent use; the owner must serialize events onto it.
type Session struct {
	kind       models.MissionKind
	difficulty models.Difficulty
	state      State
	startedAt  time.Time
	paused     bool

	math MathChallenge

	target    int
	count     int
	lastShake time.Time

	sentence  string
	prefixLen int
	typedAll  bool
}

// NewSession generates the challenge for the mission kind and moves the
// episode to Active. A MissionNone session is Active with nothing to solve;
// dismissing it is always allowed.
func NewSession(p Params, rnd *rand.Rand, now time.Time) *Session {
	s := &Session{
		kind:       p.Kind,
		difficulty: p.Difficulty,
		startedAt:  now,
	}
	switch p.Kind {
	case models.MissionMath:
		s.math = GenerateMath(p.Difficulty, rnd)
	case models.MissionShake:
		s.target = GenerateShakeTarget(p.Difficulty, rnd)
	case models.MissionTap:
		s.target = GenerateTapTarget(p.Difficulty, rnd)
	case models.MissionTyping:
		s.sentence = GenerateSentence(p.UseCustomSentence, p.CustomSentences, rnd)
	}
	s.state = Active
	return s
}

func (s *Session) State() State                  { return s.state }
func (s *Session) Kind() models.MissionKind      { return s.kind }
func (s *Session) Difficulty() models.Difficulty { return s.difficulty }
func (s *Session) StartedAt() time.Time          { return s.startedAt }

// SubmitAnswer checks a math answer. Blank input is ignored; a wrong answer
// keeps the episode active and tells the caller to clear the input and show
// a notice. Input that does not parse as an integer is deliberately treated
// as a wrong answer, not ignored, so the client still clears it. There is no
// failure state: wrong answers are retries.
func (s *Session) SubmitAnswer(input string) AnswerResult {
	if s.state != Active || s.kind != models.MissionMath {
		return AnswerIgnored
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return AnswerIgnored
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return AnswerWrong
	}
	if n != s.math.Answer {
		return AnswerWrong
	}
	s.state = Passed
	return AnswerCorrect
}

// Motion feeds one 3-axis accelerometer sample. A sample counts when its
// gravity-normalized magnitude exceeds the threshold and it arrives at least
// the debounce interval after the previously accepted sample. Returns true
// when the sample was accepted.
func (s *Session) Motion(x, y, z float64, at time.Time) bool {
	if s.state != Active || s.kind != models.MissionShake || s.paused {
		return false
	}
	if !s.lastShake.IsZero() && at.Sub(s.lastShake) < ShakeDebounce {
		return false
	}
	force := math.Sqrt(x*x+y*y+z*z) / gravity
	if force <= ShakeThreshold {
		return false
	}
	s.lastShake = at
	s.count++
	if s.count >= s.target {
		s.state = Passed
	}
	return true
}

// Tap records one tap event.
func (s *Session) Tap() {
	if s.state != Active || s.kind != models.MissionTap {
		return
	}
	s.count++
	if s.count >= s.target {
		s.state = Passed
	}
}

// Typing recomputes progress from the full current input. Progress is the
// longest common prefix with the target; a mismatch at position k caps
// progress at k no matter what follows. Exact equality passes.
func (s *Session) Typing(input string) {
	if s.state != Active || s.kind != models.MissionTyping {
		return
	}
	target := []rune(s.sentence)
	typed := []rune(input)
	match := 0
	for i := 0; i < len(typed) && i < len(target); i++ {
		if typed[i] != target[i] {
			break
		}
		match++
	}
	s.prefixLen = match
	s.typedAll = input == s.sentence
	if s.typedAll {
		s.state = Passed
	}
}

// Dismiss ends a MissionNone episode; missions with a challenge cannot be
// dismissed without solving it.
func (s *Session) Dismiss() bool {
	if s.state != Active || s.kind != models.MissionNone {
		return false
	}
	s.state = Passed
	return true
}

// Snooze abandons the episode so a replacement alarm can be scheduled.
func (s *Session) Snooze() bool {
	if s.state != Active {
		return false
	}
	s.state = Abandoned
	return true
}

// Teardown abandons the episode without recording anything; used when the
// wake surface goes away before completion.
func (s *Session) Teardown() {
	if s.state == Active {
		s.state = Abandoned
	}
}

// Pause stops motion intake while the surface is not visible. Progress and
// the debounce clock are preserved.
func (s *Session) Pause() { s.paused = true }

// Resume re-arms motion intake unless the mission already passed.
func (s *Session) Resume() {
	if s.state == Active {
		s.paused = false
	}
}

// Snapshot is the state exposed to the wake surface. The math answer and
// any hidden internals stay out of it.
type Snapshot struct {
	Mission         models.MissionKind `json:"mission"`
	State           string             `json:"state"`
	Question        string             `json:"question,omitempty"`
	Target          int                `json:"target,omitempty"`
	Count           int                `json:"count,omitempty"`
	Remaining       int                `json:"remaining,omitempty"`
	Sentence        string             `json:"sentence,omitempty"`
	ProgressPercent int                `json:"progress_percent"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Mission: s.kind,
		State:   s.state.String(),
	}
	switch s.kind {
	case models.MissionMath:
		snap.Question = s.math.Question
	case models.MissionShake, models.MissionTap:
		snap.Target = s.target
		snap.Count = s.count
		snap.Remaining = s.target - s.count
		if snap.Remaining < 0 {
			snap.Remaining = 0
		}
		if s.target > 0 {
			snap.ProgressPercent = s.count * 100 / s.target
		}
	case models.MissionTyping:
		snap.Sentence = s.sentence
		if n := len([]rune(s.sentence)); n > 0 {
			snap.ProgressPercent = s.prefixLen * 100 / n
		}
	}
	if s.state == Passed {
		snap.ProgressPercent = 100
	}
	return snap
}
