package repo

import "github.com/penwyp/svnstage/backend"

// symbols is the fixed status-view symbol for every raw svn status.
var symbols = map[backend.StatusType]string{
	backend.StatusAdded:       "A",
	backend.StatusConflicted:  "C",
	backend.StatusDeleted:     "D",
	backend.StatusExternal:    "x",
	backend.StatusIgnored:     "!",
	backend.StatusIncomplete:  "incomplete",
	backend.StatusMerged:      "merged",
	backend.StatusMissing:     "d",
	backend.StatusModified:    "M",
	backend.StatusNone:        "none",
	backend.StatusNormal:      "normal",
	backend.StatusObstructed:  "obstructed",
	backend.StatusReplaced:    "replaced",
	backend.StatusUnversioned: "?",
}

// Symbol returns the status-view symbol for t.
func Symbol(t backend.StatusType) string {
	if s, ok := symbols[t]; ok {
		return s
	}
	return t.String()
}
