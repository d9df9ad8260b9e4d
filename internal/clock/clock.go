package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies "now" for numbering years, document dates and timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today formats the calendar date of now in the clock's local zone.
func Today(c Clock) string {
	return c.Now().Format(time.DateOnly)
}

// DaysFromNow formats the calendar date n days after now.
func DaysFromNow(c Clock, n int) string {
	return c.Now().AddDate(0, 0, n).Format(time.DateOnly)
}

var Module = fx.Module("clock",
	fx.Provide(
		fx.Annotate(
			func() SystemClock { return SystemClock{} },
			fx.As(new(Clock)),
		),
	),
)
