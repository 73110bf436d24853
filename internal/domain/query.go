package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	// PageSize is the number of events per listing page.
	PageSize = 10
	// DefaultNextCount is how many upcoming events Next returns by default.
	DefaultNextCount = 2
)

// ReadySet returns the regular events that are ready at now, in sheet order.
func ReadySet(events []Event, now time.Time, loc *time.Location) []Entry {
	var out []Entry
	for _, ev := range events {
		if ev.Kind == KindFixed {
			continue
		}
		if st := Resolve(ev, now, loc); st.Category == CategoryReady {
			out = append(out, Entry{Event: ev, Status: st})
		}
	}
	return out
}

// NextUpcoming returns up to n regular events with a known countdown that
// are not ready yet, soonest first. Events with equal time keep sheet order.
// A non-positive n selects DefaultNextCount.
func NextUpcoming(events []Event, n int, now time.Time, loc *time.Location) []Entry {
	if n <= 0 {
		n = DefaultNextCount
	}
	var upcoming []Entry
	for _, ev := range events {
		if ev.Kind == KindFixed {
			continue
		}
		st := Resolve(ev, now, loc)
		if st.Category == CategoryReady || st.Category == CategoryFixed || !st.Known {
			continue
		}
		upcoming = append(upcoming, Entry{Event: ev, Status: st})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Status.Remaining < upcoming[j].Status.Remaining
	})
	if len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// FindByName returns the first event whose name contains query, ignoring
// case. An empty query never matches.
func FindByName(events []Event, query string) (Event, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Event{}, false
	}
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Name), q) {
			return ev, true
		}
	}
	return Event{}, false
}

// Page is one slice of the full event listing.
type Page struct {
	Number  int // 1-based, after clamping
	Pages   int // at least 1
	Total   int
	Start   int // 1-based index of the first entry, 0 when empty
	End     int // 1-based index of the last entry, 0 when empty
	Entries []Entry
}

// ListPage returns page number of the listing with a status per entry.
// Out-of-range page numbers are clamped to the first or last page.
func ListPage(events []Event, number int, now time.Time, loc *time.Location) Page {
	total := len(events)
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	number = min(max(number, 1), pages)

	start := (number - 1) * PageSize
	end := min(start+PageSize, total)

	p := Page{Number: number, Pages: pages, Total: total}
	if start >= end {
		return p
	}
	p.Start, p.End = start+1, end
	p.Entries = make([]Entry, 0, end-start)
	for _, ev := range events[start:end] {
		p.Entries = append(p.Entries, Entry{Event: ev, Status: Resolve(ev, now, loc)})
	}
	return p
}
