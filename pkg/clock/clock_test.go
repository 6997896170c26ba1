package clock

import (
	"testing"
	"time"
)

func TestSystemClock(t *testing.T) {
	before := time.Now()
	got := System().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("System().Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	if !fake.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", fake.Now(), start)
	}

	got := fake.Advance(90 * time.Second)
	want := start.Add(90 * time.Second)
	if !got.Equal(want) {
		t.Errorf("Advance returned %v, want %v", got, want)
	}
	if !fake.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", fake.Now(), want)
	}

	later := start.Add(time.Hour)
	fake.Set(later)
	if !fake.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", fake.Now(), later)
	}
}
