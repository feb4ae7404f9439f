package services

import (
	"time"

	"noskip/internal/core"
)

// Clock gives services "now" and "today" in the configured location.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: time.Now, loc: loc}
}

// FixedClock always reports t. Used by tests and the CLI's --date flag.
func FixedClock(t time.Time) Clock {
	return Clock{now: func() time.Time { return t }, loc: t.Location()}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.location())
	}
	return c.now().In(c.location())
}

func (c Clock) Today() core.Date {
	return core.DateOf(c.Now())
}

func (c Clock) Location() *time.Location {
	return c.location()
}

func (c Clock) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}
