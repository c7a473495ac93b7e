package app

import (
	"sync"
	"time"

	"github.com/UCgr8/needsites-public-sub000/internal/catalog"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/config"
	"github.com/UCgr8/needsites-public-sub000/internal/pkg/debounce"
)

// PageFetcher is one remote catalog page. CatalogService implements it.
type PageFetcher interface {
	FetchPage(state catalog.FilterState, page int) ([]domain.Listing, int64, error)
}

type BrowserPhase string

const (
	PhaseIdle    BrowserPhase = "idle"
	PhaseLoading BrowserPhase = "loading"
	PhaseError   BrowserPhase = "error"
)

// Browser is the remote-pipeline pagination controller: it owns the
// current filter state, the accumulated result list, and the has-more
// signal. Filter changes restart from page zero; "load more" appends the
// next page. Every fetch is stamped with the generation of the state that
// produced it, and responses for a superseded generation are discarded,
// so an out-of-order network reply can never overwrite newer results.
type Browser struct {
	mu       sync.Mutex
	fetcher  PageFetcher
	state    catalog.FilterState
	pending  catalog.FilterState
	phase    BrowserPhase
	listings []domain.Listing
	total    int64
	page     int
	gen      uint64
	lastErr  error

	searchDebounce *debounce.Debouncer
	rangeDebounce  *debounce.Debouncer
}

// BrowserOptions carry the form tuning for the debounce windows; the
// Timer is swappable so tests can advance a virtual clock.
type BrowserOptions struct {
	Forms config.FormsConfig
	Timer debounce.Timer
}

func NewBrowser(fetcher PageFetcher, opts BrowserOptions) *Browser {
	searchDelay := opts.Forms.SearchDebounce
	if searchDelay == 0 {
		searchDelay = 300 * time.Millisecond
	}
	rangeDelay := opts.Forms.RangeDebounce
	if rangeDelay == 0 {
		rangeDelay = 500 * time.Millisecond
	}

	b := &Browser{
		fetcher: fetcher,
		state:   catalog.DefaultFilterState(),
		pending: catalog.DefaultFilterState(),
		phase:   PhaseIdle,
	}

	applyPending := func() {
		b.mu.Lock()
		state := b.pending
		b.mu.Unlock()
		b.apply(state)
	}
	if opts.Timer != nil {
		b.searchDebounce = debounce.NewWithTimer(searchDelay, applyPending, opts.Timer)
		b.rangeDebounce = debounce.NewWithTimer(rangeDelay, applyPending, opts.Timer)
	} else {
		b.searchDebounce = debounce.New(searchDelay, applyPending)
		b.rangeDebounce = debounce.New(rangeDelay, applyPending)
	}
	return b
}

// SetFilter moves the browser to a new filter state. Free-text query
// changes and length-range drags are debounced so a request does not fire
// per keystroke; every other change applies immediately.
func (b *Browser) SetFilter(state catalog.FilterState) {
	b.mu.Lock()
	if state.Equal(b.pending) {
		b.mu.Unlock()
		return
	}
	previous := b.pending
	b.pending = state
	b.mu.Unlock()

	switch {
	case onlyQueryChanged(previous, state):
		b.searchDebounce.Call()
	case onlyRangeChanged(previous, state):
		b.rangeDebounce.Call()
	default:
		b.searchDebounce.Stop()
		b.rangeDebounce.Stop()
		b.apply(state)
	}
}

// LoadMore fetches the next page and appends it. It is a no-op while a
// fetch is in flight or when the result set is exhausted.
func (b *Browser) LoadMore() {
	b.mu.Lock()
	if b.phase == PhaseLoading || !b.hasMoreLocked() {
		b.mu.Unlock()
		return
	}
	gen := b.gen
	state := b.state
	page := b.page + 1
	b.phase = PhaseLoading
	b.mu.Unlock()

	b.run(gen, state, page)
}

// Retry re-runs the query that failed. It only acts in the error phase.
func (b *Browser) Retry() {
	b.mu.Lock()
	if b.phase != PhaseError {
		b.mu.Unlock()
		return
	}
	gen := b.gen
	state := b.state
	page := b.page + 1
	b.phase = PhaseLoading
	b.mu.Unlock()

	b.run(gen, state, page)
}

func (b *Browser) Listings() []domain.Listing {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Listing, len(b.listings))
	copy(out, b.listings)
	return out
}

func (b *Browser) Phase() BrowserPhase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}

func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Browser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasMoreLocked()
}

func (b *Browser) State() catalog.FilterState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// apply discards the accumulated list, bumps the generation so in-flight
// responses become stale, and fetches page one of the new state.
func (b *Browser) apply(state catalog.FilterState) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.state = state
	b.listings = nil
	b.total = 0
	b.page = 0
	b.lastErr = nil
	b.phase = PhaseLoading
	b.mu.Unlock()

	b.run(gen, state, 1)
}

// run executes one fetch and applies its result unless the browser has
// moved on to a newer generation in the meantime.
func (b *Browser) run(gen uint64, state catalog.FilterState, page int) {
	listings, total, err := b.fetcher.FetchPage(state, page)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		// Response to a superseded filter state; drop it.
		return
	}
	if err != nil {
		b.phase = PhaseError
		b.lastErr = err
		return
	}
	if page == 1 {
		b.listings = listings
	} else {
		b.listings = append(b.listings, listings...)
	}
	b.page = page
	b.total = total
	b.phase = PhaseIdle
	b.lastErr = nil
}

func (b *Browser) hasMoreLocked() bool {
	if b.page == 0 {
		return true
	}
	return int64(len(b.listings)) < b.total
}

func onlyQueryChanged(a, b catalog.FilterState) bool {
	a.Query = b.Query
	return a.Equal(b)
}

func onlyRangeChanged(a, b catalog.FilterState) bool {
	a.MinLength = b.MinLength
	a.MaxLength = b.MaxLength
	return a.Equal(b)
}
