package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/svnstage/backend"
)

func TestHistory(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2020, 2, 9, 6, 32, 54, 0, time.UTC)

	var query backend.LogQuery
	gw := &fakeGateway{
		logFn: func(q backend.LogQuery) ([]backend.LogEntry, error) {
			query = q
			return []backend.LogEntry{
				{Revision: 5, Author: "alice", Date: date, Message: "fix parser\n\ndetails"},
				{Revision: 1, Author: "bob", Date: date, Message: "initial"},
			}, nil
		},
		diffFn: func(target, oldRev, newRev string) (string, error) {
			if oldRev == "0" {
				return "", errors.New("svn: E160013: path not found in revision 0")
			}
			return "Index: x\n===\n+change " + oldRev + ":" + newRev + "\n", nil
		},
	}
	r, root := newTestRepo(t, gw)

	records, err := r.History(ctx, HistoryQuery{
		Path:         "src/main.go",
		Limit:        2,
		IncludeDiff:  true,
		RevisionFrom: "5",
		Search:       "fix",
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	p := filepath.Join(root, "src", "main.go")
	assert.Equal(t, backend.LogQuery{Path: p, Limit: 2, RevisionFrom: "5", Search: "fix"}, query)

	assert.Equal(t, "fix parser", records[0].Summary())
	assert.Equal(t, "+change 4:5\n", records[0].Diff)
	assert.Equal(t, "r5\n"+
		"Author: alice\n"+
		"Date:   Sun, 09 Feb 2020 06:32:54 +0000\n"+
		"\n"+
		" fix parser\n"+
		" \n"+
		" details\n"+
		"\n"+
		"+change 4:5\n", records[0].Text())

	assert.Equal(t, "New file: "+p+"\nsvn: E160013: path not found in revision 0", records[1].Diff,
		"a failing diff is rendered inline")
}

func TestHistory_WithoutDiff(t *testing.T) {
	gw := &fakeGateway{logs: []backend.LogEntry{{Revision: 3, Message: "m"}}}
	r, root := newTestRepo(t, gw)

	records, err := r.History(context.Background(), HistoryQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Diff)
	assert.Equal(t, []string{"log " + root}, gw.calls)
}

func TestHistory_LogFailure(t *testing.T) {
	gw := &fakeGateway{logFn: func(backend.LogQuery) ([]backend.LogEntry, error) {
		return nil, errors.New("E170013: Unable to connect")
	}}
	r, _ := newTestRepo(t, gw)

	_, err := r.History(context.Background(), HistoryQuery{})
	require.Error(t, err)
}
