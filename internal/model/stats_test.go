package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// fixedClock returns a clock that yields the given times in order and then
// keeps returning the last one.
func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

// TestSessionStatsTimestamps tests StartSession and FinishSession.
func TestSessionStatsTimestamps(t *testing.T) {
	t.Parallel()

	t.Run("start session records start time", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		before := time.Now()
		stats.StartSession()

		if !stats.Started() {
			t.Fatal("expected session to be started")
		}
		if stats.StartedAt.Before(before) {
			t.Errorf("start time %v is before %v", stats.StartedAt, before)
		}
		if stats.Finished() {
			t.Error("expected session not to be finished")
		}
	})

	t.Run("finish session records finish time", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		stats.FinishSession()

		if !stats.Finished() {
			t.Fatal("expected session to be finished")
		}
		if stats.FinishedAt.After(time.Now()) {
			t.Errorf("finish time %v is in the future", stats.FinishedAt)
		}
	})

	t.Run("setting a timestamp twice overwrites it", func(t *testing.T) {
		t.Parallel()

		first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		second := first.Add(time.Hour)
		stats := NewSessionStatsWithClock(fixedClock(first, second))
		stats.StartSession()
		stats.StartSession()

		if !stats.StartedAt.Equal(second) {
			t.Errorf("expected %v, got %v", second, stats.StartedAt)
		}
	})
}

// TestSessionStatsCounters tests the visit, failure and round counters.
func TestSessionStatsCounters(t *testing.T) {
	t.Parallel()

	t.Run("add single visit", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		stats.AddVisit()
		if stats.TotalVisited != 1 {
			t.Errorf("expected 1, got %d", stats.TotalVisited)
		}
	})

	t.Run("add visit count", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		stats.AddVisits(5)
		if stats.TotalVisited != 5 {
			t.Errorf("expected 5, got %d", stats.TotalVisited)
		}
	})

	t.Run("failures and rounds accumulate", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		stats.AddFailure()
		stats.AddFailure()
		stats.AddRound()
		if stats.TotalFailed != 2 {
			t.Errorf("expected 2 failures, got %d", stats.TotalFailed)
		}
		if stats.Rounds != 1 {
			t.Errorf("expected 1 round, got %d", stats.Rounds)
		}
	})
}

// TestSessionStatsElapsedTime tests ElapsedTime in each state.
func TestSessionStatsElapsedTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("both timestamps set", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStatsWithClock(fixedClock(start, start.Add(10*time.Millisecond)))
		stats.StartSession()
		stats.FinishSession()

		elapsed, err := stats.ElapsedTime()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed != 10*time.Millisecond {
			t.Errorf("expected 10ms, got %v", elapsed)
		}
	})

	t.Run("wall clock elapsed time is non-negative", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		stats.StartSession()
		stats.FinishSession()

		elapsed, err := stats.ElapsedTime()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed < 0 {
			t.Errorf("expected non-negative elapsed time, got %v", elapsed)
		}
	})

	t.Run("only start set uses current time", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStatsWithClock(fixedClock(start, start.Add(time.Second)))
		stats.StartSession()

		elapsed, err := stats.ElapsedTime()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed != time.Second {
			t.Errorf("expected 1s, got %v", elapsed)
		}
	})

	t.Run("not started returns ErrInvalidState", func(t *testing.T) {
		t.Parallel()

		stats := NewSessionStats()
		if _, err := stats.ElapsedTime(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("expected ErrInvalidState, got %v", err)
		}

		stats.FinishSession()
		if _, err := stats.ElapsedTime(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("expected ErrInvalidState with only finish set, got %v", err)
		}
	})
}

// TestSessionStatsJSON tests the serialized form of the stats.
func TestSessionStatsJSON(t *testing.T) {
	t.Parallel()

	t.Run("dates are encoded as YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()

		start := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
		stats := NewSessionStatsWithClock(fixedClock(start, start.Add(2*time.Hour)))
		stats.StartSession()
		stats.AddVisits(3)
		stats.FinishSession()

		data, err := json.Marshal(stats)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"total_visited":3,"total_failed":0,"rounds":0,"started_at":"2024-03-01","finished_at":"2024-03-02"}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})

	t.Run("unset dates are null", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(NewSessionStats())
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		want := `{"total_visited":0,"total_failed":0,"rounds":0,"started_at":null,"finished_at":null}`
		if string(data) != want {
			t.Errorf("got %s, expected %s", data, want)
		}
	})

	t.Run("decodes at day precision", func(t *testing.T) {
		t.Parallel()

		var stats SessionStats
		input := `{"total_visited":7,"total_failed":1,"rounds":2,"started_at":"2024-03-01","finished_at":null}`
		if err := json.Unmarshal([]byte(input), &stats); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		if stats.TotalVisited != 7 || stats.TotalFailed != 1 || stats.Rounds != 2 {
			t.Errorf("unexpected counters: %+v", stats)
		}
		if !stats.StartedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start date %v", stats.StartedAt)
		}
		if stats.Finished() {
			t.Error("expected finish date to be unset")
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		t.Parallel()

		var stats SessionStats
		if err := json.Unmarshal([]byte(`{"started_at":"03/01/2024"}`), &stats); err == nil {
			t.Error("expected error for malformed date")
		}
	})
}
