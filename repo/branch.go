package repo

import (
	"context"
	"strings"
)

// BranchOf derives a branch label from a repository URL using the standard
// layout: the component after the last "/branches/", "trunk", or "?" when
// the URL follows neither convention.
func BranchOf(url string) string {
	const marker = "/branches/"
	if i := strings.LastIndex(url, marker); i >= 0 {
		name := url[i+len(marker):]
		if j := strings.IndexByte(name, '/'); j >= 0 {
			name = name[:j]
		}
		if name != "" {
			return name
		}
	}
	if strings.HasSuffix(url, "/trunk") || strings.Contains(url, "/trunk/") {
		return "trunk"
	}
	return "?"
}

// Branch resolves the branch label of the working copy root.
func (r *Repo) Branch(ctx context.Context) (string, error) {
	info, err := r.gateway.Info(ctx, "", "")
	if err != nil {
		return "", err
	}
	return BranchOf(info.URL), nil
}
