package services

import (
	"time"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

var _ domain.Clock = SystemClock{}

// SystemClock reads wall time in a fixed zone.
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(tz string) (SystemClock, error) {
	if tz == "" {
		return SystemClock{Location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return SystemClock{}, err
	}
	return SystemClock{Location: loc}, nil
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

func (c SystemClock) Today() time.Time {
	return domain.DateOnly(c.Now())
}

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time   { return c.At }
func (c FixedClock) Today() time.Time { return domain.DateOnly(c.At) }
