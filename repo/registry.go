package repo

import (
	"sort"

	"github.com/penwyp/svnstage/backend"
	"github.com/penwyp/svnstage/internal/workspace"
)

// GatewayFactory builds the backend for a working copy root.
type GatewayFactory func(root string) backend.Gateway

// Registry hands out one Repo per working copy root so repeated lookups
// share staging state. Like Repo it is not safe for concurrent use.
type Registry struct {
	marker  string
	factory GatewayFactory
	opts    []Option
	repos   map[string]*Repo
}

// NewRegistry creates an empty registry. marker is the metadata directory
// used to find roots; opts apply to every Repo it creates.
func NewRegistry(marker string, factory GatewayFactory, opts ...Option) *Registry {
	return &Registry{
		marker:  marker,
		factory: factory,
		opts:    opts,
		repos:   make(map[string]*Repo),
	}
}

// Get returns the Repo owning path, creating it on first use.
func (g *Registry) Get(path string) (*Repo, error) {
	root, err := workspace.FindRoot(path, g.marker)
	if err != nil {
		return nil, err
	}
	if r, ok := g.repos[root]; ok {
		return r, nil
	}
	r := New(root, g.factory(root), g.opts...)
	g.repos[root] = r
	return r, nil
}

// Repos lists the known repos ordered by root.
func (g *Registry) Repos() []*Repo {
	repos := make([]*Repo, 0, len(g.repos))
	for _, r := range g.repos {
		repos = append(repos, r)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].root < repos[j].root })
	return repos
}
