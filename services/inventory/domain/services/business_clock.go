package services

import (
	"fmt"
	"time"
)

// DefaultBusinessUTCOffsetHours anchors expiration dates to UTC+8 midnight.
const DefaultBusinessUTCOffsetHours = 8

const day = 24 * time.Hour

// BusinessClock performs all expiration date arithmetic in one fixed zone so
// that client time zones never shift an expiration date.
type BusinessClock struct {
	loc *time.Location
}

// NewBusinessClock returns a clock for the zone UTC+offsetHours.
func NewBusinessClock(offsetHours int) BusinessClock {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return BusinessClock{loc: time.FixedZone(name, offsetHours*int(time.Hour/time.Second))}
}

// Location returns the fixed business zone.
func (c BusinessClock) Location() *time.Location {
	if c.loc == nil {
		return NewBusinessClock(DefaultBusinessUTCOffsetHours).loc
	}
	return c.loc
}

// NormalizeExpiration returns midnight, in the business zone, of the calendar
// date t falls on in that zone.
func (c BusinessClock) NormalizeExpiration(t time.Time) time.Time {
	loc := c.Location()
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DaysLeft is ceil((expiration - now) / 24h). It is negative once the
// expiration lies more than a full day in the past.
func (c BusinessClock) DaysLeft(expiration, now time.Time) int {
	d := c.NormalizeExpiration(expiration).Sub(now)
	days := int(d / day)
	if d%day > 0 {
		days++
	}
	return days
}
