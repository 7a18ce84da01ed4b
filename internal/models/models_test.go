package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWeekdayTimeRoundTrip(t *testing.T) {
	for w := Monday; w <= Sunday; w++ {
		if got := FromTime(w.Time()); got != w {
			t.Fatalf("Round trip through time.Weekday failed for %s: got %s", w, got)
		}
	}
	if FromTime(time.Sunday) != Sunday {
		t.Fatal("time.Sunday must map to the last index")
	}
	if FromTime(time.Monday) != Monday {
		t.Fatal("time.Monday must map to index zero")
	}
}

func TestParseWeekday(t *testing.T) {
	for w := Monday; w <= Sunday; w++ {
		got, err := ParseWeekday(w.String())
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", w.String(), err)
		}
		if got != w {
			t.Fatalf("ParseWeekday(%q) = %s", w.String(), got)
		}
	}
	if _, err := ParseWeekday("monday"); err == nil {
		t.Fatal("Long-form name must be rejected")
	}
}

func TestEncodeWeekdaysCanonical(t *testing.T) {
	// Out of order with a duplicate: encoding is Monday-first and deduped.
	got := EncodeWeekdays([]Weekday{Friday, Monday, Friday, Wednesday})
	if got != "mon,wed,fri" {
		t.Fatalf("Expected canonical encoding, got %q", got)
	}
	if EncodeWeekdays(nil) != "" {
		t.Fatal("Empty set must encode to the empty string")
	}
}

func TestDecodeWeekdaysDropsUnknownTokens(t *testing.T) {
	got := DecodeWeekdays("mon, bogus ,fri")
	if len(got) != 2 || got[0] != Monday || got[1] != Friday {
		t.Fatalf("Expected [mon fri], got %v", got)
	}
	if DecodeWeekdays("") != nil {
		t.Fatal("Empty string must decode to nil")
	}
}

func TestWeekdayJSON(t *testing.T) {
	b, err := json.Marshal(Saturday)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"sat"` {
		t.Fatalf("Expected \"sat\", got %s", b)
	}

	var w Weekday
	if err := json.Unmarshal([]byte(`"tue"`), &w); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if w != Tuesday {
		t.Fatalf("Expected Tuesday, got %s", w)
	}
	if err := json.Unmarshal([]byte(`"xyz"`), &w); err == nil {
		t.Fatal("Unknown code must fail to unmarshal")
	}
}

func TestMissionKindCodesAndLabels(t *testing.T) {
	tests := []struct {
		kind  MissionKind
		code  string
		label string
	}{
		{MissionNone, "none", "Basic Alarm"},
		{MissionMath, "math", "Math Problem"},
		{MissionShake, "shake", "Phone Shake"},
		{MissionTap, "tap", "Rapid Tap"},
		{MissionTyping, "typing", "Typing"},
	}
	for _, tt := range tests {
		if tt.kind.String() != tt.code {
			t.Fatalf("Code for %v: got %q want %q", tt.kind, tt.kind.String(), tt.code)
		}
		if tt.kind.Label() != tt.label {
			t.Fatalf("Label for %v: got %q want %q", tt.kind, tt.kind.Label(), tt.label)
		}
		parsed, err := ParseMissionKind(tt.code)
		if err != nil || parsed != tt.kind {
			t.Fatalf("ParseMissionKind(%q) = %v, %v", tt.code, parsed, err)
		}
	}
	if _, err := ParseMissionKind("puzzle"); err == nil {
		t.Fatal("Unknown mission code must be rejected")
	}
}

func TestDifficultyMultiplier(t *testing.T) {
	if Easy.Multiplier() != 0.5 || Normal.Multiplier() != 1.0 || Hard.Multiplier() != 2.0 {
		t.Fatalf("Multipliers: %v %v %v", Easy.Multiplier(), Normal.Multiplier(), Hard.Multiplier())
	}
}

func TestParseDifficultyFallsBackToNormal(t *testing.T) {
	if ParseDifficulty("hard") != Hard {
		t.Fatal("Expected Hard")
	}
	if ParseDifficulty("nightmare") != Normal {
		t.Fatal("Unknown tier must fall back to Normal")
	}
	if ParseDifficulty("") != Normal {
		t.Fatal("Empty tier must fall back to Normal")
	}
}

func TestAlarmOneShot(t *testing.T) {
	if !(Alarm{}).OneShot() {
		t.Fatal("Alarm without weekdays is one-shot")
	}
	if (Alarm{Weekdays: []Weekday{Monday}}).OneShot() {
		t.Fatal("Alarm with weekdays is recurring")
	}
}
