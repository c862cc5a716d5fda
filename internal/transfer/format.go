// Package transfer moves applications in and out of the tracker as JSON or
// CSV documents.
package transfer

import "time"

// FormatDate renders t relative to now: "Today at 03:04 PM",
// "Yesterday at 03:04 PM", or "Jan 2, 2006" for anything older or newer.
// t is shown in now's location.
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())

	switch {
	case sameDay(t, now):
		return "Today at " + t.Format("03:04 PM")
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday at " + t.Format("03:04 PM")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
