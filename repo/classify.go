package repo

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/penwyp/svnstage/backend"
)

// SectionKind identifies a status group.
type SectionKind int

const (
	SectionUntracked SectionKind = iota
	SectionUnstaged
	SectionStaged
	SectionChangelist
)

// Section is one non-empty group of a classified status, in display order.
type Section struct {
	Kind    SectionKind
	Name    string // changelist name, empty for the other kinds
	Entries []backend.StatusEntry
}

// Title is the label used in the status document, e.g. "Unstaged" or
// "Changelist[review]".
func (s Section) Title() string {
	switch s.Kind {
	case SectionUntracked:
		return "Untracked"
	case SectionUnstaged:
		return "Unstaged"
	case SectionStaged:
		return "Staged"
	default:
		return "Changelist[" + s.Name + "]"
	}
}

// ChangelistGroup holds the entries of one changelist in backend order.
type ChangelistGroup struct {
	Name    string
	Entries []backend.StatusEntry
}

// Classified is a status snapshot partitioned against the staging set. Every
// input entry lands in exactly one of the groups or in Dropped.
type Classified struct {
	Staged      []backend.StatusEntry
	Unstaged    []backend.StatusEntry
	Untracked   []backend.StatusEntry
	Changelists []ChangelistGroup // sorted by name
	Dropped     []backend.StatusEntry
}

// Sections returns the non-empty groups in display order: untracked,
// unstaged, staged, then changelists by name.
func (c Classified) Sections() []Section {
	var sections []Section
	add := func(kind SectionKind, name string, entries []backend.StatusEntry) {
		if len(entries) > 0 {
			sections = append(sections, Section{Kind: kind, Name: name, Entries: entries})
		}
	}
	add(SectionUntracked, "", c.Untracked)
	add(SectionUnstaged, "", c.Unstaged)
	add(SectionStaged, "", c.Staged)
	for _, g := range c.Changelists {
		add(SectionChangelist, g.Name, g.Entries)
	}
	return sections
}

// Len returns the number of entries shown in any section.
func (c Classified) Len() int {
	n := len(c.Staged) + len(c.Unstaged) + len(c.Untracked)
	for _, g := range c.Changelists {
		n += len(g.Entries)
	}
	return n
}

// Classify partitions entries. In order of precedence an entry is:
//  1. staged, when its path is staged and svn still reports a change;
//  2. dropped, when it is unchanged and parked in ignoreChangelist;
//  3. untracked, when it is unversioned;
//  4. grouped under its changelist;
//  5. unstaged otherwise.
func Classify(entries []backend.StatusEntry, staged map[string]struct{}, ignoreChangelist string) Classified {
	var c Classified
	groups := make(map[string]int)

	for _, e := range entries {
		_, isStaged := staged[e.Path]
		switch {
		case isStaged && e.Type != backend.StatusNormal:
			c.Staged = append(c.Staged, e)
		case e.Type == backend.StatusNormal && e.Changelist != "" && e.Changelist == ignoreChangelist:
			c.Dropped = append(c.Dropped, e)
		case e.Type == backend.StatusUnversioned:
			c.Untracked = append(c.Untracked, e)
		case e.Changelist != "":
			i, ok := groups[e.Changelist]
			if !ok {
				i = len(c.Changelists)
				groups[e.Changelist] = i
				c.Changelists = append(c.Changelists, ChangelistGroup{Name: e.Changelist})
			}
			c.Changelists[i].Entries = append(c.Changelists[i].Entries, e)
		default:
			c.Unstaged = append(c.Unstaged, e)
		}
	}

	sort.SliceStable(c.Changelists, func(i, j int) bool {
		return c.Changelists[i].Name < c.Changelists[j].Name
	})
	return c
}

// Classify queries the whole working copy and partitions it against the
// staging set. With pruning enabled, staged paths that svn reports as normal
// or no longer reports at all are dropped from the staging set first.
func (r *Repo) Classify(ctx context.Context) (Classified, error) {
	entries, err := r.gateway.Status(ctx, "")
	if err != nil {
		return Classified{}, err
	}
	if r.pruneStale {
		r.prune(entries)
	}
	return Classify(entries, r.staged, r.ignoreChangelist), nil
}

func (r *Repo) prune(entries []backend.StatusEntry) {
	if len(r.staged) == 0 {
		return
	}
	current := make(map[string]backend.StatusType, len(entries))
	for _, e := range entries {
		current[e.Path] = e.Type
	}
	for p := range r.staged {
		if typ, ok := current[p]; !ok || typ == backend.StatusNormal {
			r.logger.Debug("Pruning stale staged path", zap.String("path", p))
			delete(r.staged, p)
		}
	}
}
