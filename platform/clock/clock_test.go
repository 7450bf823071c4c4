package clock

import (
	"testing"
	"time"
)

func TestTodayUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 20:00 UTC on June 9 is already June 10 in Kolkata.
	now := time.Date(2024, 6, 9, 20, 0, 0, 0, time.UTC)

	if got := Today(now, time.UTC); !got.Equal(Date(2024, 6, 9)) {
		t.Fatalf("UTC today = %v", got)
	}
	if got := Today(now, kolkata); !got.Equal(Date(2024, 6, 10)) {
		t.Fatalf("Kolkata today = %v", got)
	}
}

func TestFixedAdvance(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	c.Advance(time.Hour)
	if got := c.Now(); !got.Equal(start.Add(time.Hour)) {
		t.Fatalf("Now() = %v", got)
	}
	if !AsDate(c.Now()).Equal(Date(2024, 6, 10)) {
		t.Fatal("AsDate mismatch")
	}
}
