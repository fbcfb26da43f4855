package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout used for timestamps in serialized stats.
const DateLayout = "2006-01-02"

// ErrInvalidState is returned when stats are queried before the
// timestamps they depend on have been recorded.
var ErrInvalidState = errors.New("invalid state: session has not been started")

// SessionStats tracks visit counts and timestamps across one crawl run.
// The crawl engine is the only writer; callers receive value copies.
//
// A zero StartedAt or FinishedAt means the timestamp has not been set.
// Setting a timestamp twice overwrites it.
type SessionStats struct {
	// TotalVisited is the number of URLs fetched (successfully or not).
	TotalVisited uint64

	// TotalFailed is the number of fetches that returned an error.
	TotalFailed uint64

	// Rounds is the number of completed breadth-first rounds.
	Rounds uint64

	// StartedAt is when the session started.
	StartedAt time.Time

	// FinishedAt is when the session finished.
	FinishedAt time.Time

	// now returns the current time; nil means time.Now.
	now func() time.Time
}

// NewSessionStats creates empty stats using the wall clock.
func NewSessionStats() SessionStats {
	return SessionStats{now: time.Now}
}

// NewSessionStatsWithClock creates empty stats that read time from now.
func NewSessionStatsWithClock(now func() time.Time) SessionStats {
	return SessionStats{now: now}
}

func (s *SessionStats) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// StartSession records the start timestamp.
func (s *SessionStats) StartSession() {
	s.StartedAt = s.clock()
}

// FinishSession records the finish timestamp.
func (s *SessionStats) FinishSession() {
	s.FinishedAt = s.clock()
}

// AddVisit increments TotalVisited by one.
func (s *SessionStats) AddVisit() {
	s.AddVisits(1)
}

// AddVisits increments TotalVisited by n.
func (s *SessionStats) AddVisits(n uint64) {
	s.TotalVisited += n
}

// AddFailure increments TotalFailed by one.
func (s *SessionStats) AddFailure() {
	s.AddFailures(1)
}

// AddFailures increments TotalFailed by n.
func (s *SessionStats) AddFailures(n uint64) {
	s.TotalFailed += n
}

// AddRound increments Rounds by one.
func (s *SessionStats) AddRound() {
	s.Rounds++
}

// Started reports whether StartSession has been called.
func (s SessionStats) Started() bool {
	return !s.StartedAt.IsZero()
}

// Finished reports whether FinishSession has been called.
func (s SessionStats) Finished() bool {
	return !s.FinishedAt.IsZero()
}

// ElapsedTime returns the duration of the session.
//
// If both timestamps are set it returns FinishedAt - StartedAt. If only
// StartedAt is set it returns the time elapsed since the start. Otherwise it
// returns ErrInvalidState.
func (s SessionStats) ElapsedTime() (time.Duration, error) {
	switch {
	case s.Started() && s.Finished():
		return s.FinishedAt.Sub(s.StartedAt), nil
	case s.Started():
		return s.clock().Sub(s.StartedAt), nil
	default:
		return 0, ErrInvalidState
	}
}

// statsPayload is the serialized form of SessionStats.
type statsPayload struct {
	TotalVisited uint64  `json:"total_visited" yaml:"total_visited"`
	TotalFailed  uint64  `json:"total_failed" yaml:"total_failed"`
	Rounds       uint64  `json:"rounds" yaml:"rounds"`
	StartedAt    *string `json:"started_at" yaml:"started_at"`
	FinishedAt   *string `json:"finished_at" yaml:"finished_at"`
}

func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}

func parseDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", *s, err)
	}
	return t, nil
}

func (s SessionStats) payload() statsPayload {
	return statsPayload{
		TotalVisited: s.TotalVisited,
		TotalFailed:  s.TotalFailed,
		Rounds:       s.Rounds,
		StartedAt:    formatDate(s.StartedAt),
		FinishedAt:   formatDate(s.FinishedAt),
	}
}

// MarshalJSON encodes the stats with dates in YYYY-MM-DD form.
func (s SessionStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.payload())
}

// UnmarshalJSON decodes stats written by MarshalJSON.
// Timestamps are restored at day precision.
func (s *SessionStats) UnmarshalJSON(data []byte) error {
	var p statsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	started, err := parseDate(p.StartedAt)
	if err != nil {
		return err
	}
	finished, err := parseDate(p.FinishedAt)
	if err != nil {
		return err
	}
	s.TotalVisited = p.TotalVisited
	s.TotalFailed = p.TotalFailed
	s.Rounds = p.Rounds
	s.StartedAt = started
	s.FinishedAt = finished
	return nil
}

// MarshalYAML encodes the stats with dates in YYYY-MM-DD form.
func (s SessionStats) MarshalYAML() (interface{}, error) {
	return s.payload(), nil
}
