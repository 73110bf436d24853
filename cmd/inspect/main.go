// Command inspect resolves a local copy of the respawn sheet at a chosen
// instant and prints the ready, next, and listing views. It is meant for
// checking an export against a column schema before pointing the service
// at it.
//
// Usage:
//
//	go run ./cmd/inspect -file sheet.csv -now 2024-06-05T12:00:00Z -tz Asia/Bangkok
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

type options struct {
	file   string
	now    time.Time
	loc    *time.Location
	schema domain.Schema
	next   int
	page   int
}

func main() {
	file := flag.String("file", "", "path to a CSV export of the sheet")
	nowFlag := flag.String("now", "", "instant to resolve at, RFC3339 (default: current time)")
	tz := flag.String("tz", "Local", "IANA zone the sheet's timestamps are written in")
	schemaVersion := flag.String("schema", domain.DefaultSchema.Version, "built-in column layout (v1 or v2)")
	next := flag.Int("n", domain.DefaultNextCount, "number of upcoming bosses to show")
	page := flag.Int("page", 1, "listing page to show")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	opts, err := parseOptions(*file, *nowFlag, *tz, *schemaVersion, *next, *page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	if err := run(os.Stdout, raw, opts); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(file, nowFlag, tz, schemaVersion string, next, page int) (options, error) {
	if next < 1 {
		return options{}, fmt.Errorf("invalid -n %d: must be at least 1", next)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return options{}, fmt.Errorf("invalid -tz: %w", err)
	}
	now := time.Now()
	if nowFlag != "" {
		now, err = time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return options{}, fmt.Errorf("invalid -now: %w", err)
		}
	}
	schema, err := domain.SchemaByVersion(schemaVersion)
	if err != nil {
		return options{}, fmt.Errorf("invalid -schema: %w", err)
	}
	return options{file: file, now: now, loc: loc, schema: schema, next: next, page: page}, nil
}

// run loads raw into a tracker frozen at opts.now and writes the report to w.
func run(w io.Writer, raw []byte, opts options) error {
	tr := tracker.New(opts.schema, slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracker.WithClock(clockwork.NewFakeClockAt(opts.now)),
		tracker.WithLocation(opts.loc),
		tracker.WithNextCount(opts.next),
	)
	res := tr.Refresh(raw)

	fmt.Fprintf(w, "=== %d bosses loaded (%d of %d rows dropped, schema %s) ===\n",
		res.Stats.Kept, res.Stats.Dropped, res.Stats.Rows, opts.schema.Version)
	fmt.Fprintf(w, "Resolved at %s\n\n", opts.now.In(opts.loc).Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	ready, _ := tr.Ready()
	fmt.Fprintf(tw, "Ready now (%d):\n", len(ready))
	for _, e := range ready {
		writeEntry(tw, e)
	}
	if len(ready) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}

	upcoming, _ := tr.Next(0)
	fmt.Fprintf(tw, "\nNext %d:\n", opts.next)
	for _, e := range upcoming {
		writeEntry(tw, e)
	}
	if len(upcoming) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}

	p, _ := tr.ListPage(opts.page)
	fmt.Fprintf(tw, "\nPage %d/%d (%d-%d of %d):\n", p.Number, p.Pages, p.Start, p.End, p.Total)
	for _, e := range p.Entries {
		writeEntry(tw, e)
	}

	return tw.Flush()
}

func writeEntry(w io.Writer, e domain.Entry) {
	fmt.Fprintf(w, "  %s\tLv %d\t%s\t%s\t[%s]\n",
		e.Event.Name, e.Event.Level, e.Event.Location, e.Status.Label, e.Status.Category)
}
