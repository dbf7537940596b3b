package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/svnstage/backend"
	svnerrors "github.com/penwyp/svnstage/internal/errors"
)

func TestRegistry(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	wcA := filepath.Join(base, "a")
	wcB := filepath.Join(base, "b")
	for _, wc := range []string{wcA, wcB} {
		require.NoError(t, os.MkdirAll(filepath.Join(wc, ".svn"), 0755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(wcA, "x", "y", "z"), 0755))

	created := 0
	reg := NewRegistry(".svn", func(root string) backend.Gateway {
		created++
		return &fakeGateway{}
	}, WithPruneStale(false))

	r1, err := reg.Get(filepath.Join(wcA, "x", "y", "z"))
	require.NoError(t, err)
	assert.Equal(t, wcA, r1.Root())
	assert.False(t, r1.pruneStale)

	r2, err := reg.Get(filepath.Join(wcA, "x", "file.txt"))
	require.NoError(t, err)
	assert.Same(t, r1, r2, "same root shares one repo")

	r3, err := reg.Get(wcB)
	require.NoError(t, err)
	assert.NotSame(t, r1, r3)
	assert.Equal(t, 2, created)

	repos := reg.Repos()
	require.Len(t, repos, 2)
	assert.Equal(t, wcA, repos[0].Root())
	assert.Equal(t, wcB, repos[1].Root())

	_, err = reg.Get(base)
	require.Error(t, err)
	assert.True(t, svnerrors.Is(err, svnerrors.ErrRepoNotFound))
}
