// Package clock supplies the current calendar day so that "today" checks can be
// driven deterministically in tests.
package clock

import (
	"time"

	"github.com/limbo/discipline/pkg/entity"
)

type Clock interface {
	Now() time.Time
}

type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

func Today(c Clock) string {
	return c.Now().Format(entity.DateLayout)
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func Weekday(c Clock) int {
	return int(c.Now().Weekday())
}
