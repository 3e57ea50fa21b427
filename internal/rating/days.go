package rating

import (
	"time"

	"github.com/lox/flamingo/internal/models"
)

// Day is the daytime and overnight periods that start on one calendar date.
// Either may be nil: forecasts issued in the evening open with "Tonight".
type Day struct {
	Date  time.Time
	Label string
	Day   *models.Period
	Night *models.Period
}

// Periods returns the non-nil periods in day, night order.
func (d Day) Periods() []*models.Period {
	var out []*models.Period
	if d.Day != nil {
		out = append(out, d.Day)
	}
	if d.Night != nil {
		out = append(out, d.Night)
	}
	return out
}

// GroupDays groups periods by the calendar date of their start time, in the
// period's own UTC offset, preserving upstream order. A period without a start
// time gets a day of its own labelled with the period name.
func GroupDays(periods []models.Period) []Day {
	var days []Day
	for i := range periods {
		p := &periods[i]

		if p.StartTime.IsZero() {
			d := Day{Label: p.Name}
			place(&d, p)
			days = append(days, d)
			continue
		}

		date := time.Date(p.StartTime.Year(), p.StartTime.Month(), p.StartTime.Day(), 0, 0, 0, 0, time.UTC)
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) && !days[n-1].has(p) {
			place(&days[n-1], p)
			continue
		}

		d := Day{Date: date, Label: date.Format("Monday, January 02")}
		place(&d, p)
		days = append(days, d)
	}
	return days
}

func place(d *Day, p *models.Period) {
	if p.IsDaytime {
		d.Day = p
	} else {
		d.Night = p
	}
}

// has reports whether the slot p would fill is already taken.
func (d Day) has(p *models.Period) bool {
	if p.IsDaytime {
		return d.Day != nil
	}
	return d.Night != nil
}
