// Package calendar holds the pure time arithmetic of the booking schedule:
// the slot grid, duration rounding and working-hours clipping.
//
// It is the only package that references the deployment time zone. Every
// instant handed out by a Calendar is expressed in that zone, and "now" is
// always truncated to the minute.
//
// Usage:
//
//	cal := calendar.New(config.Get())
//	day, err := cal.ParseDate("2025-01-10")
//	tod, err := cal.ParseTime("09:30")
//	start := cal.Combine(day, tod)
//	grid := cal.SlotGrid(day) // 07:00, 07:30, ... 21:30
package calendar

import (
	"fmt"
	"time"

	"wsb/config"
	"wsb/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// TimeOfDay is a wall-clock time without a date, in minutes since midnight.
type TimeOfDay int

func (t TimeOfDay) Hour() int   { return int(t) / minutesPerHour }
func (t TimeOfDay) Minute() int { return int(t) % minutesPerHour }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Options configures a Calendar. Zero values fall back to the defaults.
type Options struct {
	StepMinutes        int
	DayOpen            string
	DayClose           string
	MaxDurationMinutes int
	Location           *time.Location
	Now                func() time.Time
}

type Calendar struct {
	stepMinutes int
	open        TimeOfDay
	close       TimeOfDay
	maxDuration time.Duration
	loc         *time.Location
	now         func() time.Time
}

// New builds the calendar from the service configuration. An invalid schedule is fatal.
func New(cfg *config.Config) *Calendar {
	cal, err := NewWithOptions(Options{
		StepMinutes:        cfg.Schedule.StepMinutes,
		DayOpen:            cfg.Schedule.DayOpen,
		DayClose:           cfg.Schedule.DayClose,
		MaxDurationMinutes: cfg.Schedule.MaxDurationMinutes,
		Location:           LoadLocation(cfg.App.Timezone),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid schedule configuration")
	}

	log.Info().
		Int("stepMinutes", cal.stepMinutes).
		Str("dayOpen", cal.open.String()).
		Str("dayClose", cal.close.String()).
		Dur("maxDuration", cal.maxDuration).
		Str("location", cal.loc.String()).
		Msg("Schedule calendar initialized")

	return cal
}

func NewWithOptions(opts Options) (*Calendar, error) {
	if opts.StepMinutes == 0 {
		opts.StepMinutes = 30
	}

	if opts.DayOpen == "" {
		opts.DayOpen = "07:00"
	}

	if opts.DayClose == "" {
		opts.DayClose = "22:00"
	}

	if opts.MaxDurationMinutes == 0 {
		opts.MaxDurationMinutes = 8 * minutesPerHour
	}

	if opts.Location == nil {
		opts.Location = time.UTC
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.StepMinutes < 0 || minutesPerHour%opts.StepMinutes != 0 {
		return nil, fmt.Errorf("step minutes must divide an hour, got %d", opts.StepMinutes)
	}

	open, err := parseClock(opts.DayOpen)
	if err != nil {
		return nil, fmt.Errorf("invalid day open %q: %w", opts.DayOpen, err)
	}

	closing, err := parseClock(opts.DayClose)
	if err != nil {
		return nil, fmt.Errorf("invalid day close %q: %w", opts.DayClose, err)
	}

	if closing <= open {
		return nil, fmt.Errorf("day close %s must be after day open %s", closing, open)
	}

	if int(open)%opts.StepMinutes != 0 || int(closing)%opts.StepMinutes != 0 {
		return nil, fmt.Errorf("day open and close must be aligned to %d minutes", opts.StepMinutes)
	}

	if int(closing)+opts.StepMinutes > minutesPerDay {
		return nil, fmt.Errorf("day close %s leaves no room for the closing step", closing)
	}

	if opts.MaxDurationMinutes < opts.StepMinutes || opts.MaxDurationMinutes%opts.StepMinutes != 0 {
		return nil, fmt.Errorf("max duration must be a positive multiple of %d minutes", opts.StepMinutes)
	}

	return &Calendar{
		stepMinutes: opts.StepMinutes,
		open:        open,
		close:       closing,
		maxDuration: time.Duration(opts.MaxDurationMinutes) * time.Minute,
		loc:         opts.Location,
		now:         opts.Now,
	}, nil
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Europe/Moscow', 'UTC'")

		return time.UTC
	}

	return loc
}

func (c *Calendar) Location() *time.Location { return c.loc }
func (c *Calendar) StepMinutes() int         { return c.stepMinutes }
func (c *Calendar) Step() time.Duration      { return time.Duration(c.stepMinutes) * time.Minute }
func (c *Calendar) MaxDuration() time.Duration {
	return c.maxDuration
}

// Now returns the current instant in the calendar zone, truncated to the minute.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc).Truncate(time.Minute)
}

// In converts an instant to the calendar zone.
func (c *Calendar) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// StartOfDay returns local midnight of the day t falls on.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	local := t.In(c.loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calendar) Today() time.Time {
	return c.StartOfDay(c.Now())
}

func (c *Calendar) IsToday(date time.Time) bool {
	return c.StartOfDay(date).Equal(c.Today())
}

func (c *Calendar) ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, s, c.loc)
	if err != nil {
		return time.Time{}, failure.New(failure.ReasonBadTimeFormat, fmt.Sprintf("date %q must be YYYY-MM-DD", s)) //nolint:wrapcheck
	}

	return date, nil
}

func (c *Calendar) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

func (c *Calendar) FormatTime(t time.Time) string {
	return t.In(c.loc).Format(TimeLayout)
}

// ParseTime accepts strict HH:MM and rejects minutes off the slot grid.
func (c *Calendar) ParseTime(s string) (TimeOfDay, error) {
	tod, err := parseClock(s)
	if err != nil {
		return 0, failure.New(failure.ReasonBadTimeFormat, fmt.Sprintf("time %q must be HH:MM", s)) //nolint:wrapcheck
	}

	if int(tod)%c.stepMinutes != 0 {
		return 0, failure.New(failure.ReasonUnaligned, fmt.Sprintf("time %s is not aligned to %d minutes", tod, c.stepMinutes)) //nolint:wrapcheck
	}

	return tod, nil
}

// Combine places a time of day on the given date in the calendar zone.
func (c *Calendar) Combine(date time.Time, tod TimeOfDay) time.Time {
	day := c.StartOfDay(date)

	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, c.loc)
}

func (c *Calendar) DayOpen(date time.Time) time.Time {
	return c.Combine(date, c.open)
}

func (c *Calendar) DayClose(date time.Time) time.Time {
	return c.Combine(date, c.close)
}

// DayLimit is the latest admissible end on the given date: closing plus one step.
func (c *Calendar) DayLimit(date time.Time) time.Time {
	return c.DayClose(date).Add(c.Step())
}

// SlotGrid returns the candidate start instants from opening up to closing
// minus one step, inclusive.
func (c *Calendar) SlotGrid(date time.Time) []time.Time {
	first := c.DayOpen(date)
	last := c.DayClose(date).Add(-c.Step())
	grid := make([]time.Time, 0, int(last.Sub(first)/c.Step())+1)

	for t := first; !t.After(last); t = t.Add(c.Step()) {
		grid = append(grid, t)
	}

	return grid
}

// ClipToDay caps a proposed end at the day limit of start's date.
func (c *Calendar) ClipToDay(start, proposedEnd time.Time) time.Time {
	limit := c.DayLimit(start)
	if proposedEnd.After(limit) {
		return limit
	}

	return proposedEnd
}

func (c *Calendar) RoundDownToStep(minutes int) int {
	if minutes <= 0 {
		return 0
	}

	return minutes - minutes%c.stepMinutes
}

// IsAligned reports whether t sits exactly on the slot grid of its day.
func (c *Calendar) IsAligned(t time.Time) bool {
	local := t.In(c.loc)
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}

	return (local.Hour()*minutesPerHour+local.Minute())%c.stepMinutes == 0
}

// Minutes converts a duration to whole minutes.
func Minutes(d time.Duration) int {
	return int(d / time.Minute)
}

// ValidateDuration checks a requested duration against the step and the maximum.
func (c *Calendar) ValidateDuration(minutes int) error {
	if minutes <= 0 || time.Duration(minutes)*time.Minute > c.maxDuration {
		return failure.New(failure.ReasonDurationOutOfRange, //nolint:wrapcheck
			fmt.Sprintf("duration must be between %d and %d minutes", c.stepMinutes, Minutes(c.maxDuration)))
	}

	if minutes%c.stepMinutes != 0 {
		return failure.New(failure.ReasonUnaligned, fmt.Sprintf("duration must be a multiple of %d minutes", c.stepMinutes)) //nolint:wrapcheck
	}

	return nil
}

// ValidateInterval checks alignment, working hours and bounded duration of [start, end).
func (c *Calendar) ValidateInterval(start, end time.Time) error {
	if !c.IsAligned(start) || !c.IsAligned(end) {
		return failure.New(failure.ReasonUnaligned, fmt.Sprintf("interval must be aligned to %d minutes", c.stepMinutes)) //nolint:wrapcheck
	}

	if !end.After(start) || end.Sub(start) > c.maxDuration {
		return failure.New(failure.ReasonDurationOutOfRange, //nolint:wrapcheck
			fmt.Sprintf("duration must be between %d and %d minutes", c.stepMinutes, Minutes(c.maxDuration)))
	}

	lastStart := c.DayClose(start).Add(-c.Step())
	if start.Before(c.DayOpen(start)) || start.After(lastStart) {
		return failure.New(failure.ReasonOutOfHours, //nolint:wrapcheck
			fmt.Sprintf("start must be between %s and %s", c.open, c.FormatTime(lastStart)))
	}

	if end.After(c.DayLimit(start)) {
		return failure.New(failure.ReasonOutOfHours, //nolint:wrapcheck
			fmt.Sprintf("end must not be later than %s", c.FormatTime(c.DayLimit(start))))
	}

	return nil
}

// ValidateNotPast rejects starts earlier than the current minute.
func (c *Calendar) ValidateNotPast(start time.Time) error {
	if start.Before(c.Now()) {
		return failure.New(failure.ReasonPastTime, "cannot reserve time in the past") //nolint:wrapcheck
	}

	return nil
}

// ValidateExtension returns the new end of [start, end) extended by addedMinutes.
func (c *Calendar) ValidateExtension(start, end time.Time, addedMinutes int) (time.Time, error) {
	if addedMinutes <= 0 {
		return time.Time{}, failure.New(failure.ReasonDurationOutOfRange, "extension must be positive") //nolint:wrapcheck
	}

	if addedMinutes%c.stepMinutes != 0 {
		return time.Time{}, failure.New(failure.ReasonUnaligned, //nolint:wrapcheck
			fmt.Sprintf("extension must be a multiple of %d minutes", c.stepMinutes))
	}

	newEnd := end.Add(time.Duration(addedMinutes) * time.Minute)
	if newEnd.Sub(start) > c.maxDuration {
		return time.Time{}, failure.New(failure.ReasonDurationOutOfRange, //nolint:wrapcheck
			fmt.Sprintf("total duration must not exceed %d minutes", Minutes(c.maxDuration)))
	}

	if newEnd.After(c.DayLimit(start)) {
		return time.Time{}, failure.New(failure.ReasonOutOfHours, //nolint:wrapcheck
			fmt.Sprintf("extension must end by %s", c.FormatTime(c.DayLimit(start))))
	}

	return newEnd, nil
}

func parseClock(s string) (TimeOfDay, error) {
	if len(s) != len(TimeLayout) || s[2] != ':' {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}

	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}

	return TimeOfDay(t.Hour()*minutesPerHour + t.Minute()), nil
}
