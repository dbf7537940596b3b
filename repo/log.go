package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/svnstage/backend"
)

// LogRecord is one revision prepared for display.
type LogRecord struct {
	Revision int
	Author   string
	Date     time.Time
	Message  string
	Diff     string
}

// Summary is the first line of the message.
func (l LogRecord) Summary() string {
	if i := strings.IndexByte(l.Message, '\n'); i >= 0 {
		return l.Message[:i]
	}
	return l.Message
}

// Text renders the record as a self-contained block. Message lines are
// indented by one space so they cannot be mistaken for diff lines.
func (l LogRecord) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "r%d\n", l.Revision)
	fmt.Fprintf(&b, "Author: %s\n", l.Author)
	fmt.Fprintf(&b, "Date:   %s\n", l.Date.Format(time.RFC1123Z))
	b.WriteString("\n")
	for _, line := range strings.Split(l.Message, "\n") {
		b.WriteString(" " + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(l.Diff)
	return b.String()
}

// HistoryQuery selects the revisions returned by History.
type HistoryQuery struct {
	Path         string // "" means the working copy root
	Limit        int
	IncludeDiff  bool
	RevisionFrom string
	RevisionTo   string
	Search       string
}

// History fetches log entries for a path. With IncludeDiff each record
// carries the diff between revision-1 and revision; a failing diff is
// rendered inline rather than failing the call.
func (r *Repo) History(ctx context.Context, q HistoryQuery) ([]LogRecord, error) {
	target := r.root
	if q.Path != "" {
		p, err := r.normalize(q.Path)
		if err != nil {
			return nil, err
		}
		target = p
	}

	entries, err := r.gateway.Log(ctx, backend.LogQuery{
		Path:         target,
		Limit:        q.Limit,
		RevisionFrom: q.RevisionFrom,
		RevisionTo:   q.RevisionTo,
		Search:       q.Search,
	})
	if err != nil {
		return nil, err
	}

	records := make([]LogRecord, 0, len(entries))
	for _, e := range entries {
		rec := LogRecord{
			Revision: e.Revision,
			Author:   e.Author,
			Date:     e.Date,
			Message:  e.Message,
		}
		if q.IncludeDiff {
			rec.Diff = r.diffs.Diff(ctx, target, strconv.Itoa(e.Revision-1), strconv.Itoa(e.Revision))
		}
		records = append(records, rec)
	}
	return records, nil
}
