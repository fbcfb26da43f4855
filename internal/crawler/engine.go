package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bfscrawl/internal/model"
)

// State is the lifecycle state of an Engine.
type State int

const (
	// StateIdle is the initial state; Crawl may be called.
	StateIdle State = iota

	// StateRunning means a crawl is in progress.
	StateRunning

	// StateFinished is terminal; the engine cannot be reused.
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Engine drives a round-based breadth-first crawl.
//
// Each round fetches the whole frontier, then adds the frontier to the
// visited set, then computes the next frontier as the links discovered in
// the round minus the visited set. The crawl ends when a computed frontier
// is empty.
//
// An Engine owns its visited set and stats and runs a single crawl.
type Engine struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// extractor pulls raw hrefs out of page bodies.
	extractor LinkExtractor

	// sameDomain restricts links to the domain of the page they appear on.
	sameDomain bool

	// concurrency is the number of fetches in flight within a round.
	concurrency int

	// maxRounds stops the crawl after this many rounds. 0 means unlimited.
	maxRounds int

	// logger receives crawl progress and fetch failures.
	logger *slog.Logger

	// state is the lifecycle state.
	state State

	// visited holds every URL fetched so far.
	visited model.URLSet

	// stats tracks visit counts and timestamps.
	stats model.SessionStats
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSameDomain restricts traversal to links on the current page's domain.
func WithSameDomain(sameDomain bool) EngineOption {
	return func(e *Engine) {
		e.sameDomain = sameDomain
	}
}

// WithConcurrency sets the number of fetches in flight within one round.
// Values below 1 keep the default of 1.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithMaxRounds stops the crawl after n rounds. 0 means no limit.
func WithMaxRounds(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRounds = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithExtractor replaces the HTML link extractor.
func WithExtractor(x LinkExtractor) EngineOption {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithClock sets the clock used for session timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.stats = model.NewSessionStatsWithClock(now)
	}
}

// NewEngine creates an idle Engine that fetches pages with fetcher.
func NewEngine(fetcher Fetcher, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:     fetcher,
		extractor:   NewHTMLExtractor(),
		concurrency: 1,
		state:       StateIdle,
		visited:     model.NewURLSet(),
		stats:       model.NewSessionStats(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Result is the outcome of a crawl.
type Result struct {
	// Visited is every URL fetched during the crawl. Ownership passes to
	// the caller.
	Visited model.URLSet

	// Stats is a snapshot of the session stats.
	Stats model.SessionStats
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Stats returns a snapshot of the session stats.
func (e *Engine) Stats() model.SessionStats {
	return e.stats
}

// Crawl runs the crawl starting from seeds and returns the visited set and
// stats. Fetch failures never abort the crawl: the failed URL counts as
// visited, contributes no links and increments TotalFailed.
//
// If ctx is cancelled the crawl stops between fetches; the partial result
// is returned together with ctx.Err(). Calling Crawl on an engine that is
// not idle returns an error of kind KindInvalidState.
func (e *Engine) Crawl(ctx context.Context, seeds []string) (*Result, error) {
	if e.state != StateIdle {
		return nil, &Error{
			Kind: KindInvalidState,
			Err:  fmt.Errorf("crawl called on %s engine", e.state),
		}
	}

	e.state = StateRunning
	e.stats.StartSession()
	e.logger.Info("started crawl",
		"seeds", seeds,
		"same_domain", e.sameDomain,
		"concurrency", e.concurrency,
	)

	frontier := model.NewURLSet(seeds...)

	var err error
	for frontier.Len() > 0 {
		if e.maxRounds > 0 && e.stats.Rounds >= uint64(e.maxRounds) {
			e.logger.Info("round limit reached",
				"max_rounds", e.maxRounds,
				"unvisited", frontier.Len(),
			)
			break
		}

		round := e.fetchRound(ctx, frontier)

		// The whole round joins the visited set before the next frontier
		// is computed.
		e.visited.Union(round.attempted)
		e.stats.AddVisits(uint64(round.attempted.Len()))
		e.stats.AddFailures(round.failed)

		if round.err != nil {
			err = round.err
			e.logger.Warn("crawl interrupted", "error", err)
			break
		}
		e.stats.AddRound()

		frontier = round.candidates.Difference(e.visited)
		e.logger.Debug("round complete",
			"round", e.stats.Rounds,
			"visited", e.visited.Len(),
			"next_frontier", frontier.Len(),
		)
	}

	e.stats.FinishSession()
	e.state = StateFinished

	elapsed, _ := e.stats.ElapsedTime() //nolint:errcheck // started above
	e.logger.Info("finished crawl",
		"visited", e.visited.Len(),
		"failed", e.stats.TotalFailed,
		"rounds", e.stats.Rounds,
		"elapsed", elapsed,
	)

	return &Result{
		Visited: e.visited,
		Stats:   e.stats,
	}, err
}

// roundResult collects what one round produced.
type roundResult struct {
	// candidates are the accepted links discovered in the round.
	candidates model.URLSet

	// attempted are the frontier URLs that were fetched.
	attempted model.URLSet

	// failed is the number of fetches that returned an error.
	failed uint64

	// err is set when the context was cancelled during the round.
	err error
}

// fetchRound fetches every URL in frontier and merges their links.
// It returns once every started fetch has completed.
func (e *Engine) fetchRound(ctx context.Context, frontier model.URLSet) roundResult {
	result := roundResult{
		candidates: model.NewURLSet(),
		attempted:  model.NewURLSet(),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(e.concurrency)

	for _, u := range frontier.Sorted() {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			links, err := e.visit(ctx, u)

			mu.Lock()
			defer mu.Unlock()
			result.attempted.Add(u)
			if err != nil {
				result.failed++
				return nil
			}
			result.candidates.Union(links)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return errors

	result.err = ctx.Err()
	return result
}

// visit fetches u and returns the accepted links found on it.
func (e *Engine) visit(ctx context.Context, u string) (model.URLSet, error) {
	page, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		e.logger.Warn("fetch failed", "url", u, "error", err)
		return nil, err
	}

	links := model.NewURLSet()
	hrefs, err := e.extractor.ExtractHrefs(page.Body)
	if err != nil {
		e.logger.Warn("link extraction failed", "url", u, "error", err)
		return links, nil
	}

	for _, href := range hrefs {
		if link, ok := Accept(u, href, e.sameDomain); ok {
			links.Add(link)
		}
	}

	e.logger.Info("visited", "url", u, "links", links.Len())
	return links, nil
}
