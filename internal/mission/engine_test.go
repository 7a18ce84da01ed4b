package mission

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"wakeup/internal/models"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func start() time.Time {
	return time.Date(2026, time.March, 2, 7, 0, 0, 0, time.Local)
}

func TestGenerateMathEasy(t *testing.T) {
	rnd := seeded(1)
	for i := 0; i < 100; i++ {
		ch := GenerateMath(models.Easy, rnd)
		if ch.Answer < 4 || ch.Answer > 18 {
			t.Fatalf("Easy answer %d outside [4,18] for %q", ch.Answer, ch.Question)
		}
		if !strings.Contains(ch.Question, "+") {
			t.Fatalf("Easy question should be addition, got %q", ch.Question)
		}
	}
}

func TestGenerateMathHard(t *testing.T) {
	rnd := seeded(2)
	for i := 0; i < 100; i++ {
		ch := GenerateMath(models.Hard, rnd)
		// a*b+c with a in [10,19], b in [2,9], c in [1,9]
		if ch.Answer < 10*2+1 || ch.Answer > 19*9+9 {
			t.Fatalf("Hard answer %d out of range for %q", ch.Answer, ch.Question)
		}
		if !strings.Contains(ch.Question, "×") || !strings.Contains(ch.Question, "+") {
			t.Fatalf("Hard question should be a compound expression, got %q", ch.Question)
		}
	}
}

func TestGenerateMathNormalNeverNegative(t *testing.T) {
	rnd := seeded(3)
	for i := 0; i < 500; i++ {
		ch := GenerateMath(models.Normal, rnd)
		if ch.Answer < 0 {
			t.Fatalf("Normal answer %d negative for %q", ch.Answer, ch.Question)
		}
	}
}

func TestTargetRanges(t *testing.T) {
	tests := []struct {
		name       string
		generate   func(models.Difficulty, *rand.Rand) int
		difficulty models.Difficulty
		min, max   int
	}{
		{"shake easy", GenerateShakeTarget, models.Easy, 20, 40},
		{"shake normal", GenerateShakeTarget, models.Normal, 50, 70},
		{"shake hard", GenerateShakeTarget, models.Hard, 100, 140},
		{"tap easy", GenerateTapTarget, models.Easy, 40, 60},
		{"tap normal", GenerateTapTarget, models.Normal, 80, 120},
		{"tap hard", GenerateTapTarget, models.Hard, 160, 240},
	}

	for _, tt := range tests {
		rnd := seeded(4)
		for i := 0; i < 200; i++ {
			got := tt.generate(tt.difficulty, rnd)
			if got < tt.min || got > tt.max {
				t.Fatalf("%s: target %d outside [%d,%d]", tt.name, got, tt.min, tt.max)
			}
		}
	}
}

func TestGenerateSentenceCustomPool(t *testing.T) {
	rnd := seeded(5)
	custom := []string{"my own sentence"}

	if got := GenerateSentence(true, custom, rnd); got != "my own sentence" {
		t.Fatalf("Expected custom sentence, got %q", got)
	}
	if got := GenerateSentence(true, nil, rnd); got != PlaceholderSentence {
		t.Fatalf("Expected placeholder for empty custom pool, got %q", got)
	}
	builtin := GenerateSentence(false, custom, rnd)
	if builtin == "my own sentence" {
		t.Fatal("Built-in pick must ignore the custom pool")
	}
	if builtin == "" {
		t.Fatal("Built-in pool returned empty sentence")
	}
}

func TestMathMissionPassAndRetry(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionMath, Difficulty: models.Easy}, seeded(6), start())
	if s.State() != Active {
		t.Fatalf("Expected Active after construction, got %s", s.State())
	}

	if res := s.SubmitAnswer(""); res != AnswerIgnored {
		t.Fatalf("Blank input should be ignored, got %v", res)
	}
	if res := s.SubmitAnswer("not a number"); res != AnswerWrong {
		t.Fatalf("Unparseable input should count as wrong, got %v", res)
	}
	if res := s.SubmitAnswer("-99999"); res != AnswerWrong {
		t.Fatalf("Wrong answer should be wrong, got %v", res)
	}
	if s.State() != Active {
		t.Fatalf("Wrong answers must keep the session active, got %s", s.State())
	}

	answer := strconv.Itoa(s.math.Answer)
	if res := s.SubmitAnswer(answer); res != AnswerCorrect {
		t.Fatalf("Exact answer should pass, got %v", res)
	}
	if s.State() != Passed {
		t.Fatalf("Expected Passed, got %s", s.State())
	}
}

func TestShakeMissionThresholdAndDebounce(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionShake, Difficulty: models.Easy}, seeded(7), start())
	target := s.target
	if target < 20 || target > 40 {
		t.Fatalf("Easy shake target %d outside range", target)
	}

	at := start()

	// Below the 1.3 g threshold: 1 g is just gravity at rest.
	if s.Motion(0, 0, gravity, at) {
		t.Fatal("Resting sample must not count")
	}

	strong := 2.0 * gravity
	for i := 0; i < target; i++ {
		at = at.Add(ShakeDebounce)
		if !s.Motion(0, 0, strong, at) {
			t.Fatalf("Qualifying sample %d rejected", i)
		}
		// A second sample inside the debounce window never counts.
		if s.Motion(0, 0, strong, at.Add(50*time.Millisecond)) {
			t.Fatal("Sample inside debounce window must not count")
		}
	}

	if s.State() != Passed {
		t.Fatalf("Expected Passed after %d qualifying shakes, got %s", target, s.State())
	}
}

func TestShakeMissionPauseResume(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionShake, Difficulty: models.Easy}, seeded(8), start())

	at := start()
	strong := 2.0 * gravity
	at = at.Add(ShakeDebounce)
	if !s.Motion(0, 0, strong, at) {
		t.Fatal("Expected first sample accepted")
	}

	s.Pause()
	if s.Motion(0, 0, strong, at.Add(time.Second)) {
		t.Fatal("Paused session must ignore motion")
	}

	s.Resume()
	if s.count != 1 {
		t.Fatalf("Progress must survive pause, got %d", s.count)
	}
	if !s.Motion(0, 0, strong, at.Add(2*time.Second)) {
		t.Fatal("Resumed session must accept motion again")
	}
}

func TestTapMissionCountsToTarget(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionTap, Difficulty: models.Normal}, seeded(9), start())
	target := s.target

	for i := 0; i < target-1; i++ {
		s.Tap()
	}
	if s.State() != Active {
		t.Fatalf("One tap short must stay Active, got %s", s.State())
	}
	if snap := s.Snapshot(); snap.Remaining != 1 {
		t.Fatalf("Expected remaining=1, got %d", snap.Remaining)
	}

	s.Tap()
	if s.State() != Passed {
		t.Fatalf("Expected Passed at target, got %s", s.State())
	}
}

func TestTypingMissionPrefixProgress(t *testing.T) {
	s := NewSession(Params{
		Kind:              models.MissionTyping,
		UseCustomSentence: true,
		CustomSentences:   []string{"wake up now"},
	}, seeded(10), start())

	s.Typing("wake")
	if s.prefixLen != 4 {
		t.Fatalf("Expected prefix 4, got %d", s.prefixLen)
	}

	// Mismatch at position 4 caps progress there, despite matching suffix.
	s.Typing("wakeXup now")
	if s.prefixLen != 4 {
		t.Fatalf("Mismatch must cap prefix at 4, got %d", s.prefixLen)
	}
	if s.State() != Active {
		t.Fatalf("Partial match must stay Active, got %s", s.State())
	}

	s.Typing("wake up now")
	if s.State() != Passed {
		t.Fatalf("Exact match must pass, got %s", s.State())
	}
	if snap := s.Snapshot(); snap.ProgressPercent != 100 {
		t.Fatalf("Expected 100%%, got %d%%", snap.ProgressPercent)
	}
}

func TestTypingPlaceholderWhenCustomPoolEmpty(t *testing.T) {
	s := NewSession(Params{
		Kind:              models.MissionTyping,
		UseCustomSentence: true,
	}, seeded(11), start())

	if s.sentence != PlaceholderSentence {
		t.Fatalf("Expected placeholder sentence, got %q", s.sentence)
	}
}

func TestSnoozeAbandons(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionTap, Difficulty: models.Easy}, seeded(12), start())

	if !s.Snooze() {
		t.Fatal("Snooze from Active must succeed")
	}
	if s.State() != Abandoned {
		t.Fatalf("Expected Abandoned, got %s", s.State())
	}
	if s.Snooze() {
		t.Fatal("Snooze is terminal; second snooze must fail")
	}
}

func TestDismissOnlyForMissionless(t *testing.T) {
	plain := NewSession(Params{Kind: models.MissionNone}, seeded(13), start())
	if !plain.Dismiss() {
		t.Fatal("Missionless episode must be dismissible")
	}
	if plain.State() != Passed {
		t.Fatalf("Expected Passed, got %s", plain.State())
	}

	math := NewSession(Params{Kind: models.MissionMath, Difficulty: models.Easy}, seeded(14), start())
	if math.Dismiss() {
		t.Fatal("Math episode must not be dismissible without solving")
	}
}

func TestEventsForWrongKindIgnored(t *testing.T) {
	s := NewSession(Params{Kind: models.MissionTap, Difficulty: models.Easy}, seeded(15), start())

	if s.Motion(0, 0, 3*gravity, start()) {
		t.Fatal("Motion must be ignored by a tap mission")
	}
	if res := s.SubmitAnswer("5"); res != AnswerIgnored {
		t.Fatalf("Answer must be ignored by a tap mission, got %v", res)
	}
	s.Typing("hello")
	if s.State() != Active {
		t.Fatalf("Typing must be ignored by a tap mission, got %s", s.State())
	}
}
