package timedataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var ErrUnknownCalendar = errors.New("unknown business calendar")

const (
	CalendarNone     = ""
	CalendarWeekdays = "weekdays"
	CalendarUS       = "us"
)

// NewCalendar returns a business calendar by name. An empty name returns nil so every
// point of the horizon is kept. weekdays skips Saturdays and Sundays and us additionally
// skips the observed US federal holidays.
func NewCalendar(name string) (*cal.BusinessCalendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CalendarNone, "none":
		return nil, nil
	case CalendarWeekdays:
		return cal.NewBusinessCalendar(), nil
	case CalendarUS:
		bc := cal.NewBusinessCalendar()
		bc.AddHoliday(us.Holidays...)
		return bc, nil
	}
	return nil, fmt.Errorf("%q, %w", name, ErrUnknownCalendar)
}
