// Package recur expands recurring key dates into concrete calendar
// occurrences for a bounded display window.
//
// Expansion is a total, side-effect-free function: the same inputs always
// yield the same occurrence list, so it is recomputed on every calendar
// navigation without caching.
package recur

import (
	"sort"
	"time"

	"cadence-cli/internal/model"
)

const dateLayout = "2006-01-02"

// Occurrence is one derived calendar instance of a key date. Occurrences are
// never persisted.
type Occurrence struct {
	KeyDate model.KeyDate
	Date    string // YYYY-MM-DD
}

// Expand materializes the occurrences of keyDates falling inside
// [windowStart, windowEnd], both bounds inclusive (ISO dates).
//
// One-off key dates are included verbatim when in the window. Recurring
// templates walk from their anchor in rule steps; the anchor may sit before
// (or after) the window and still produce in-window occurrences. Key dates
// with unparseable dates are skipped rather than failing the whole expansion.
func Expand(keyDates []model.KeyDate, windowStart, windowEnd string) []Occurrence {
	start, err := time.Parse(dateLayout, windowStart)
	if err != nil {
		return nil
	}
	end, err := time.Parse(dateLayout, windowEnd)
	if err != nil || end.Before(start) {
		return nil
	}

	var out []Occurrence
	for _, kd := range keyDates {
		anchor, err := time.Parse(dateLayout, kd.Date)
		if err != nil {
			continue
		}
		if kd.Recurrence == nil {
			if !anchor.Before(start) && !anchor.After(end) {
				out = append(out, Occurrence{KeyDate: kd, Date: kd.Date})
			}
			continue
		}

		until := end
		if kd.Recurrence.Until != "" {
			if u, err := time.Parse(dateLayout, kd.Recurrence.Until); err == nil && u.Before(end) {
				until = u
			}
		}

		switch kd.Recurrence.Freq {
		case model.RecurWeekly:
			out = append(out, expandWeekly(kd, anchor, start, end, until)...)
		case model.RecurMonthly:
			out = append(out, expandMonthly(kd, anchor, start, end, until)...)
		default:
			// Unknown frequency degrades to the one-off behavior.
			if !anchor.Before(start) && !anchor.After(end) {
				out = append(out, Occurrence{KeyDate: kd, Date: kd.Date})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].KeyDate.Title < out[j].KeyDate.Title
	})
	return out
}

// expandWeekly steps every 7 days from the anchor. Rather than walking one
// week at a time from a possibly distant anchor, it jumps straight to the
// first aligned date at or after max(anchor, windowStart).
func expandWeekly(kd model.KeyDate, anchor, start, end, until time.Time) []Occurrence {
	first := anchor
	if anchor.Before(start) {
		days := int(start.Sub(anchor).Hours() / 24)
		steps := days / 7
		if days%7 != 0 {
			steps++
		}
		first = anchor.AddDate(0, 0, steps*7)
	}

	var out []Occurrence
	for d := first; !d.After(end) && !d.After(until); d = d.AddDate(0, 0, 7) {
		out = append(out, Occurrence{KeyDate: kd, Date: d.Format(dateLayout)})
	}
	return out
}

// expandMonthly repeats the anchor's day-of-month each month. When a month is
// too short (e.g. anchored on the 31st), the occurrence degrades to that
// month's last day instead of skipping or overflowing.
func expandMonthly(kd model.KeyDate, anchor, start, end, until time.Time) []Occurrence {
	day := anchor.Day()

	// Walk month-by-month from the later of anchor month and window month.
	y, m := anchor.Year(), anchor.Month()
	if anchor.Before(start) {
		y, m = start.Year(), start.Month()
	}

	var out []Occurrence
	for {
		d := time.Date(y, m, clampDay(y, m, day), 0, 0, 0, 0, time.UTC)
		if d.After(end) || d.After(until) {
			break
		}
		if !d.Before(anchor) && !d.Before(start) {
			out = append(out, Occurrence{KeyDate: kd, Date: d.Format(dateLayout)})
		}
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return out
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(y int, m time.Month, d int) int {
	if d < 1 {
		return 1
	}
	if max := daysInMonth(y, m); d > max {
		return max
	}
	return d
}
