package pass

import "time"

// ComputeValidity decides whether a pass grants entry at the given instant.
// It never mutates the pass; expiry is always recomputed, never stored.
//
// The three "not valid" triggers are checked in a fixed order: an active
// suspension wins over an exhausted entry counter, which wins over an
// expired date window. Only the first true condition determines what the
// result reports.
func ComputeValidity(p Pass, now time.Time) Validity {
	today := dateOnly(now)

	v := Validity{
		EndDate:        p.EndDate,
		SuspendedUntil: p.SuspendedUntil,
	}
	if p.Kind == KindEntries {
		entries := p.EntriesRemaining
		if entries < 0 {
			entries = 0
		}
		v.EntriesRemaining = &entries
	}

	switch {
	case p.SuspendedUntil != nil && !dateOnly(*p.SuspendedUntil).Before(today):
		// Active suspension. A lapsed one (strictly before today) no longer
		// blocks: the pass becomes valid again without an explicit un-suspend.
		v.Valid = false
	case p.Kind == KindEntries && p.EntriesRemaining <= 0:
		v.Valid = false
	case dateOnly(p.EndDate).Before(today):
		// The window is inclusive: end date equal to today is still valid.
		v.Valid = false
	default:
		v.Valid = true
	}

	return v
}
