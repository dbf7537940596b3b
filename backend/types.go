package backend

import (
	"context"
	"time"
)

// StatusType is the raw working-copy state svn reports for a path
// (wc-status/@item in `svn status --xml`).
type StatusType int

const (
	StatusNone StatusType = iota
	StatusAdded
	StatusConflicted
	StatusDeleted
	StatusExternal
	StatusIgnored
	StatusIncomplete
	StatusMerged
	StatusMissing
	StatusModified
	StatusNormal
	StatusObstructed
	StatusReplaced
	StatusUnversioned
)

var statusNames = [...]string{
	StatusNone:        "none",
	StatusAdded:       "added",
	StatusConflicted:  "conflicted",
	StatusDeleted:     "deleted",
	StatusExternal:    "external",
	StatusIgnored:     "ignored",
	StatusIncomplete:  "incomplete",
	StatusMerged:      "merged",
	StatusMissing:     "missing",
	StatusModified:    "modified",
	StatusNormal:      "normal",
	StatusObstructed:  "obstructed",
	StatusReplaced:    "replaced",
	StatusUnversioned: "unversioned",
}

// String returns the svn name of the status, e.g. "modified".
func (s StatusType) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "none"
	}
	return statusNames[s]
}

// ParseStatusType maps an svn item name to a StatusType.
func ParseStatusType(name string) (StatusType, bool) {
	for i, n := range statusNames {
		if n == name {
			return StatusType(i), true
		}
	}
	return StatusNone, false
}

// StatusEntry is one path reported by `svn status`.
type StatusEntry struct {
	Path       string // absolute
	Type       StatusType
	Changelist string // empty when the path is in no changelist
}

// Info is the subset of `svn info` the tool uses.
type Info struct {
	Path           string
	Kind           string // file or dir
	URL            string
	RelativeURL    string
	RepositoryRoot string
	UUID           string
	Revision       int
	WCRoot         string
	LastChangedRev int
	LastAuthor     string
}

// LogEntry is one revision from `svn log`.
type LogEntry struct {
	Revision int
	Author   string
	Date     time.Time
	Message  string
}

// LogQuery selects the revisions returned by Gateway.Log.
type LogQuery struct {
	Path         string // "" means the working copy root
	Limit        int    // <= 0 means no limit
	RevisionFrom string
	RevisionTo   string
	Search       string
}

// Gateway is everything the staging workflow needs from a Subversion client.
//
// Implementations are synchronous: each call returns once the underlying
// client has finished.
type Gateway interface {
	Status(ctx context.Context, path string) ([]StatusEntry, error)
	Info(ctx context.Context, path, revision string) (Info, error)

	Add(ctx context.Context, path string) error
	Remove(ctx context.Context, path string) error
	Revert(ctx context.Context, path string) error

	// Diff returns `svn diff --git` output between target@oldRev and
	// target@newRev. An empty revision means the working copy.
	Diff(ctx context.Context, target, oldRev, newRev string) (string, error)
	Cat(ctx context.Context, path, revision string) ([]byte, error)
	Log(ctx context.Context, q LogQuery) ([]LogEntry, error)

	// Commit does not report the new revision; callers look it up with Log.
	Commit(ctx context.Context, message string, paths []string) error
	Update(ctx context.Context, paths []string, revision string) error
}
