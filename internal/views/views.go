// Package views derives the dashboard's read-only projections from the
// entity store. Everything here is pure and recomputed on every read; no
// projection is cached or stored back.
package views

import (
	"sort"
	"time"

	"cadence-cli/internal/model"
)

const dateLayout = "2006-01-02"

// Midnight truncates t to local midnight, the anchor for all deadline math.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns the end of the week containing today: the upcoming
// Sunday (today itself when today is Sunday).
func EndOfWeek(today time.Time) time.Time {
	days := (7 - int(today.Weekday())) % 7
	return today.AddDate(0, 0, days)
}

// SplitActiveResolved partitions initiatives on the combined completion
// signal: resolved priority OR archived. Input order is preserved.
func SplitActiveResolved(initiatives []model.Initiative) (active, resolved []model.Initiative) {
	for _, in := range initiatives {
		if IsResolved(in) {
			resolved = append(resolved, in)
		} else {
			active = append(active, in)
		}
	}
	return active, resolved
}

func IsResolved(in model.Initiative) bool {
	return in.Priority == model.PriorityResolved || in.IsArchived
}

// CompletionDivergence returns initiatives whose two completion signals
// disagree (resolved-priority XOR archived). Divergence is a data-quality
// signal to surface, not a state to repair: neither flag is canonical.
func CompletionDivergence(initiatives []model.Initiative) []model.Initiative {
	var out []model.Initiative
	for _, in := range initiatives {
		if (in.Priority == model.PriorityResolved) != in.IsArchived {
			out = append(out, in)
		}
	}
	return out
}

// PartitionAttention triages active initiatives. An initiative needs
// attention iff its priority is critical or it owns at least one action item
// that is past its deadline and not done; everything else active is
// in progress.
func PartitionAttention(active []model.Initiative, actions map[string][]model.ActionItem, today time.Time) (needsAttention, inProgress []model.Initiative) {
	today = Midnight(today)
	for _, in := range active {
		if in.Priority == model.PriorityCritical || HasOverdueUndone(actions[in.ID], today) {
			needsAttention = append(needsAttention, in)
		} else {
			inProgress = append(inProgress, in)
		}
	}
	return needsAttention, inProgress
}

// HasOverdueUndone reports whether any item has a deadline strictly in the
// past and is not done. Items without a parseable deadline never count.
func HasOverdueUndone(items []model.ActionItem, today time.Time) bool {
	today = Midnight(today)
	for _, it := range items {
		if it.Done() {
			continue
		}
		d, ok := parseDeadline(it.Deadline, today.Location())
		if !ok {
			continue
		}
		if d.Before(today) {
			return true
		}
	}
	return false
}

// DeadlineBuckets is the planning view's three-way classification. Each
// bucket is sorted ascending by deadline. Undone items with deadlines past
// the next-week horizon appear in none of the buckets.
type DeadlineBuckets struct {
	Overdue  []model.ActionItem
	ThisWeek []model.ActionItem
	NextWeek []model.ActionItem
}

// BucketDeadlines classifies every undone action item with a deadline:
// overdue (< today), this week (today .. end of this week, inclusive),
// next week (end of this week exclusive .. +7 days inclusive).
func BucketDeadlines(actions map[string][]model.ActionItem, today time.Time) DeadlineBuckets {
	today = Midnight(today)
	endOfThisWeek := EndOfWeek(today)
	endOfNextWeek := endOfThisWeek.AddDate(0, 0, 7)

	var b DeadlineBuckets
	for _, items := range actions {
		for _, it := range items {
			if it.Done() {
				continue
			}
			d, ok := parseDeadline(it.Deadline, today.Location())
			if !ok {
				continue
			}
			switch {
			case d.Before(today):
				b.Overdue = append(b.Overdue, it)
			case !d.After(endOfThisWeek):
				b.ThisWeek = append(b.ThisWeek, it)
			case !d.After(endOfNextWeek):
				b.NextWeek = append(b.NextWeek, it)
			}
		}
	}
	sortByDeadline(b.Overdue)
	sortByDeadline(b.ThisWeek)
	sortByDeadline(b.NextWeek)
	return b
}

func sortByDeadline(items []model.ActionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Deadline != items[j].Deadline {
			return items[i].Deadline < items[j].Deadline
		}
		return items[i].Title < items[j].Title
	})
}

func parseDeadline(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
