package ioviews

import (
	"cmp"
	"context"
	"slices"

	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
)

// Resolver turns the dependency levels the introspector computes into
// concrete recreation and refresh orders.
type Resolver struct {
	intro db.Introspector
}

// NewResolver creates a Resolver on top of an introspector.
func NewResolver(intro db.Introspector) *Resolver {
	return &Resolver{intro: intro}
}

// OrderFor sorts the given view names ascending by dependency level, so
// creating them in the returned order guarantees every view's
// dependencies already exist at creation time. Names without a tracked
// level sort as level 0. The sort is stable: ties keep the caller's
// discovery order. An empty result is valid.
func (r *Resolver) OrderFor(
	ctx context.Context,
	names []string,
) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	levels, err := r.intro.ViewLevels(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(levels))
	for _, l := range levels {
		byName[l.Name] = l.Level
	}

	ordered := make([]string, len(names))
	copy(ordered, names)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return cmp.Compare(byName[a], byName[b])
	})
	return ordered, nil
}

// DependentsOf returns the materialized views transitively dependent on
// name, ascending by dependency level, so each one is refreshed only
// after everything it reads from.
func (r *Resolver) DependentsOf(
	ctx context.Context,
	name string,
) ([]string, error) {
	deps, err := r.intro.MaterializedDependents(ctx, name)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(deps, func(a, b catalog.DependencyLevel) int {
		return cmp.Compare(a.Level, b.Level)
	})
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	return names, nil
}
