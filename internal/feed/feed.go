// Package feed turns a user's GitHub repositories into the cards shown in
// the projects section of the portfolio.
//
// A feed is rebuilt from scratch on every call: the Builder keeps no state
// between invocations beyond its construction-time configuration.
package feed

import (
	"context"
	"errors"
	"slices"

	"github.com/samber/lo"

	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

// Source lists the public repositories of a user, in API order.
type Source interface {
	ListUserRepos(ctx context.Context, user string) ([]models.Repo, error)
}

// Options is the selection and formatting policy applied to a listing.
type Options struct {
	MaxResults         int
	RequireDescription bool
	ExcludeArchived    bool
	DescriptionCharCap int
	TechLabelCap       int
}

func (o Options) Validate() error {
	var errs []error
	if o.MaxResults <= 0 {
		errs = append(errs, errors.New("max results must be positive"))
	}
	if o.DescriptionCharCap <= 0 {
		errs = append(errs, errors.New("description char cap must be positive"))
	}
	if o.TechLabelCap <= 0 {
		errs = append(errs, errors.New("tech label cap must be positive"))
	}
	return errors.Join(errs...)
}

// Builder fetches and shapes the feed for one deployment.
type Builder struct {
	src    Source
	opts   Options
	images ImageTable
}

func NewBuilder(src Source, opts Options, images ImageTable) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{src: src, opts: opts, images: images}, nil
}

// FetchFeed lists user's repositories and returns at most MaxResults cards,
// most recently updated first. Every error is a *github.FetchError.
func (b *Builder) FetchFeed(ctx context.Context, user string) ([]models.Card, error) {
	repos, err := b.src.ListUserRepos(ctx, user)
	if err != nil {
		return nil, github.AsFetchError(err)
	}
	return b.Build(repos), nil
}

// Build applies selection, ordering, limiting and card mapping to an
// already fetched listing. repos is not modified.
func (b *Builder) Build(repos []models.Repo) []models.Card {
	selected := Select(repos, b.opts)
	SortByRecency(selected)
	if len(selected) > b.opts.MaxResults {
		selected = selected[:b.opts.MaxResults]
	}
	return lo.Map(selected, func(r models.Repo, _ int) models.Card {
		return b.Card(r)
	})
}

// Select returns the repositories that pass the policy, in their original
// order. Forks are always dropped.
func Select(repos []models.Repo, opts Options) []models.Repo {
	return lo.Filter(repos, func(r models.Repo, _ int) bool {
		switch {
		case r.Fork:
			return false
		case opts.ExcludeArchived && r.Archived:
			return false
		case opts.RequireDescription && !hasDescription(r):
			return false
		}
		return true
	})
}

// SortByRecency orders repos by UpdatedAt, newest first. Ties keep their
// relative order.
func SortByRecency(repos []models.Repo) {
	slices.SortStableFunc(repos, func(a, b models.Repo) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}
