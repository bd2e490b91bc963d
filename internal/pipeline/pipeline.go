package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

// Phase is where one invocation is in Idle -> Loading -> {Rendered | Fallback}.
type Phase string

const (
	Idle     Phase = "idle"
	Loading  Phase = "loading"
	Rendered Phase = "rendered"
	Fallback Phase = "fallback"
)

func (p Phase) Terminal() bool {
	return p == Rendered || p == Fallback
}

// Feeder is satisfied by *feed.Builder.
type Feeder interface {
	FetchFeed(ctx context.Context, user string) ([]models.Card, error)
}

type Options struct {
	// Timeout bounds the fetch. Zero means the caller's context is the
	// only bound.
	Timeout time.Duration
	// Observer, if set, is called with Loading when the run starts and
	// once more with the terminal phase.
	Observer func(Phase)
}

// Result is always renderable. Err keeps the failure kind for logging and
// tests; callers render Cards, Title and Notice.
type Result struct {
	Phase  Phase              `json:"state"`
	Title  string             `json:"title"`
	Cards  []models.Card      `json:"cards"`
	Notice string             `json:"notice,omitempty"`
	Err    *github.FetchError `json:"-"`
}

// Run builds the feed for user once. It never returns an error: every
// failure ends in the Fallback phase with the hand-authored cards.
func Run(ctx context.Context, f Feeder, user string, opts Options) Result {
	notify := func(p Phase) {
		if opts.Observer != nil {
			opts.Observer(p)
		}
	}

	logger := log.WithFields(log.Fields{
		"fetch_id": uuid.NewString(),
		"user":     user,
	})

	notify(Loading)
	logger.Debug("Fetching projects")

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	cards, err := f.FetchFeed(ctx, user)
	if err != nil {
		res := fallback(user, github.AsFetchError(err))
		logger.WithFields(log.Fields{
			"kind":     res.Err.Kind.String(),
			"status":   res.Err.StatusCode,
			"duration": time.Since(start),
		}).WithError(res.Err).Warn("Fetching projects failed, showing fallback")
		notify(res.Phase)
		return res
	}

	logger.WithFields(log.Fields{
		"cards":    len(cards),
		"duration": time.Since(start),
	}).Info("Fetched projects")

	res := Result{Phase: Rendered, Title: feed.LiveTitle, Cards: cards}
	notify(res.Phase)
	return res
}

func fallback(user string, err *github.FetchError) Result {
	return Result{
		Phase:  Fallback,
		Title:  feed.FallbackTitle,
		Cards:  feed.FallbackCards(user),
		Notice: feed.FallbackNotice,
		Err:    err,
	}
}
