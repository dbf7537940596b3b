package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/penwyp/svnstage/backend"
)

// Sentinel separates the commit message from the informational tail of the
// commit document. It is rendered behind a comment prefix.
const Sentinel = "------------------------ >8 ------------------------"

// StatusDocument renders the short status view:
//
//	Head: trunk
//
//	Untracked (1)
//	? notes.txt
//
//	Staged (1)
//	M main.go
func (r *Repo) StatusDocument(ctx context.Context) (string, error) {
	c, err := r.Classify(ctx)
	if err != nil {
		return "", err
	}
	branch, err := r.Branch(ctx)
	if err != nil {
		return "", err
	}
	return RenderStatus(branch, c, r.relative), nil
}

// RenderStatus formats a classified snapshot. rel maps absolute paths to
// the form shown to the user.
func RenderStatus(branch string, c Classified, rel func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Head: %s\n", branch)
	for _, s := range c.Sections() {
		fmt.Fprintf(&b, "\n%s (%d)\n", s.Title(), len(s.Entries))
		for _, e := range s.Entries {
			fmt.Fprintf(&b, "%s %s\n", Symbol(e.Type), rel(e.Path))
		}
	}
	return b.String()
}

// CommitDocument renders the commit template: a commented summary of the
// working copy, the commented sentinel, and the diff of every staged path.
func (r *Repo) CommitDocument(ctx context.Context) (string, error) {
	c, err := r.Classify(ctx)
	if err != nil {
		return "", err
	}
	branch, err := r.Branch(ctx)
	if err != nil {
		return "", err
	}
	diffs := make([]string, 0, len(r.staged))
	for _, p := range r.StagedPaths() {
		diffs = append(diffs, r.diffs.Diff(ctx, p, "HEAD", ""))
	}
	return RenderCommit(branch, c, r.relative, strings.Join(diffs, "\n")), nil
}

// RenderCommit formats the commit template around an already computed diff.
func RenderCommit(branch string, c Classified, rel func(string) string, diff string) string {
	block := func(header string, entries []backend.StatusEntry) string {
		if len(entries) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString("#\n# " + header + "\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "# \t%s:\t%s\n", e.Type, rel(e.Path))
		}
		return b.String()
	}

	var listed strings.Builder
	for _, g := range c.Changelists {
		listed.WriteString(block(fmt.Sprintf("Changelist[%s] not staged for commit:", g.Name), g.Entries))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("# Please enter the commit message for your changes. Lines starting\n")
	b.WriteString("# with '#' will be ignored, and an empty message aborts the commit.\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# On branch %s\n", branch)
	b.WriteString(block("Changes to be committed:", c.Staged))
	b.WriteString(block("Changes not staged for commit:", c.Unstaged))
	b.WriteString(block("Untracked files:", c.Untracked))
	b.WriteString(listed.String())
	b.WriteString("#\n")
	b.WriteString("# " + Sentinel + "\n")
	b.WriteString("# Do not modify or remove the line above.\n")
	b.WriteString("# Everything below it will be ignored.\n")
	b.WriteString(diff)
	return b.String()
}
