package mute

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/steamwatch/internal/common/clock"
)

// ClockTime is a time of day with minute precision
type ClockTime struct {
	Hour   int
	Minute int
}

// String formats the time as HH:MM
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses an HH:MM time of day with hours 00-23 and minutes 00-59
func ParseClock(value string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Action is a scheduled broadcast transition
type Action string

const (
	ActionOpen  Action = "open"
	ActionClose Action = "close"
)

// Schedule holds the daily open and close times of broadcasting
type Schedule struct {
	Open  ClockTime
	Close ClockTime
}

// ParseSchedule builds a schedule from two HH:MM values. Both empty disables
// the schedule and returns nil; only one set is an error.
func ParseSchedule(openTime, closeTime string) (*Schedule, error) {
	openTime, closeTime = strings.TrimSpace(openTime), strings.TrimSpace(closeTime)
	if openTime == "" && closeTime == "" {
		return nil, nil
	}

	openAt, err := ParseClock(openTime)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}

	closeAt, err := ParseClock(closeTime)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}

	return &Schedule{Open: openAt, Close: closeAt}, nil
}

// Next returns the first transition strictly after now, in now's location.
// When open and close coincide the close wins.
func (s *Schedule) Next(now time.Time) (time.Time, Action) {
	openAt := nextOccurrence(now, s.Open)
	closeAt := nextOccurrence(now, s.Close)

	if openAt.Before(closeAt) {
		return openAt, ActionOpen
	}
	return closeAt, ActionClose
}

func nextOccurrence(now time.Time, at ClockTime) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// GroupLister lists every group that currently has tracked players
type GroupLister interface {
	Groups() []string
}

// SchedulerConfig holds configuration for the schedule runner
type SchedulerConfig struct {
	Schedule *Schedule
	State    *State
	Groups   GroupLister
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Scheduler mutes every tracked group at close time and unmutes them at open
// time. Manual changes in between stand until the next transition.
type Scheduler struct {
	schedule *Schedule
	state    *State
	groups   GroupLister
	clock    clock.Clock
	logger   *slog.Logger
}

// NewScheduler creates a schedule runner
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	if cfg == nil || cfg.Schedule == nil {
		return nil, ErrNilConfig
	}

	if cfg.State == nil {
		return nil, ErrNilState
	}

	if cfg.Groups == nil {
		return nil, ErrNilGroups
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		schedule: cfg.Schedule,
		state:    cfg.State,
		groups:   cfg.Groups,
		clock:    cfg.Clock,
		logger:   logger,
	}, nil
}

// Apply performs one transition on every tracked group and persists the result
func (s *Scheduler) Apply(ctx context.Context, action Action) error {
	groupIDs := s.groups.Groups()
	for _, groupID := range groupIDs {
		switch action {
		case ActionClose:
			s.state.Mute(groupID)
		case ActionOpen:
			s.state.Unmute(groupID)
		}
	}

	s.logger.Info("applied broadcast schedule", "action", action, "groups", len(groupIDs))
	return s.state.Save(ctx)
}

// Run sleeps until each transition and applies it, until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	for {
		at, action := s.schedule.Next(s.clock.Now())
		s.logger.Debug("next broadcast transition", "action", action, "at", at)

		timer := time.NewTimer(at.Sub(s.clock.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.Apply(ctx, action); err != nil {
			s.logger.Error("failed to apply broadcast schedule", "action", action, "err", err)
		}
	}
}
