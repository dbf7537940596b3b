package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://host/repo/branches/feature-x/sub", "feature-x"},
		{"https://host/repo/branches/feature-x", "feature-x"},
		{"https://host/repo/trunk", "trunk"},
		{"https://host/repo/trunk/src/main.go", "trunk"},
		{"https://host/repo/tags/v1", "?"},
		{"https://host/repo/trunkated", "?"},
		{"https://host/repo/branches/", "?"},
		{"svn://host/proj/branches/a/branches/b/x", "b"},
		{"", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, BranchOf(tt.url))
		})
	}
}

func TestRepo_Branch(t *testing.T) {
	gw := &fakeGateway{url: "https://host/repo/branches/release-2.0/lib"}
	r, _ := newTestRepo(t, gw)

	branch, err := r.Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "release-2.0", branch)
}
