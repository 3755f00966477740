// Package listctl implements the filtered list controller shared by every
// list surface: it owns the filter state, debounces free-text search,
// issues fetches, and tracks status, items and pagination.
//
// Responses are applied in request order. Each fetch is tagged with a
// sequence number and only the response to the newest request is applied;
// superseded requests have their context cancelled.
package listctl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/alfredjeanlab/hrms/internal/model"
)

// DefaultDebounce is the quiet period after the last search keystroke.
const DefaultDebounce = 500 * time.Millisecond

// FetchFunc loads one page of records for the given filters.
type FetchFunc[T any] func(ctx context.Context, f model.Filters) (*model.Page[T], error)

// State is a snapshot of the controller.
type State[T any] struct {
	Filters      model.Filters
	Items        []T
	Pagination   *model.Pagination
	Status       Status
	ErrorMessage string
	// Loaded is true once any fetch has succeeded.
	Loaded bool
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce sets the search debounce delay. Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger for issued, applied and discarded fetches.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Controller is a filtered, paginated list backed by a FetchFunc.
// All methods are safe for concurrent use.
type Controller[T any] struct {
	fetch    FetchFunc[T]
	initial  model.Filters
	debounce time.Duration
	logger   *slog.Logger
	updates  chan struct{}

	mu         sync.Mutex
	base       context.Context
	started    bool
	closed     bool
	filters    model.Filters // raw values as set, including the raw search text
	searchTerm string        // debounced search term used in requests
	items      []T
	pagination *model.Pagination
	status     Status
	errMsg     string
	loaded     bool

	seq      uint64 // sequence number of the newest issued fetch
	lastReq  model.Filters
	cancel   context.CancelFunc
	timer    *time.Timer
	timerGen uint64
	inflight sync.WaitGroup
}

// New returns a controller for initial filters. A nil initial uses
// model.DefaultFilters. No fetch is issued until Start.
func New[T any](initial model.Filters, fetch FetchFunc[T], opts ...Option) *Controller[T] {
	o := options{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if initial == nil {
		initial = model.DefaultFilters()
	}
	c := &Controller[T]{
		fetch:    fetch,
		initial:  initial.Clone(),
		debounce: o.debounce,
		logger:   o.logger,
		updates:  make(chan struct{}, 1),
		filters:  initial.Clone(),
		status:   Idle,
	}
	c.searchTerm = c.filters.Get(model.FilterSearch)
	return c
}

// Start issues the initial fetch with the initial filters. Fetch contexts
// derive from ctx. Calling Start more than once has no effect.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	c.base = ctx
	c.issueLocked(c.filters.Clone(), InitialLoading)
}

// SetFilter updates one filter. Changing any key other than page resets
// page to 1. Search changes are debounced; every other change fetches
// immediately with the last debounced search term.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters[key] = value
	if key != model.FilterPage {
		c.filters[model.FilterPage] = "1"
	}
	if key == model.FilterSearch && c.debounce > 0 {
		c.scheduleSearchLocked()
		return
	}
	if key == model.FilterSearch {
		c.searchTerm = value
	}
	c.issueLocked(c.effectiveLocked(), Searching)
}

// SetPage moves to page n (minimum 1) and fetches immediately.
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.SetFilter(model.FilterPage, strconv.Itoa(n))
}

// NextPage advances one page when the last response reported hasNext.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	ok := c.pagination != nil && c.pagination.HasNext
	page := c.filters.Page()
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.SetPage(page + 1)
	return true
}

// PrevPage goes back one page when there is one.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	page := c.filters.Page()
	c.mu.Unlock()
	if page <= 1 {
		return false
	}
	c.SetPage(page - 1)
	return true
}

// Clear restores the initial filters, drops any pending search and fetches.
func (c *Controller[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.filters = c.initial.Clone()
	c.searchTerm = c.filters.Get(model.FilterSearch)
	c.issueLocked(c.effectiveLocked(), Searching)
}

// Refresh re-issues the fetch with the current filters. A pending search
// is applied at once instead of waiting for the debounce.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.searchTerm = c.filters.Get(model.FilterSearch)
	c.issueLocked(c.effectiveLocked(), Searching)
}

// State returns a snapshot. Filters is a copy; Items must not be modified.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{
		Filters:      c.filters.Clone(),
		Items:        c.items,
		Pagination:   c.pagination,
		Status:       c.status,
		ErrorMessage: c.errMsg,
		Loaded:       c.loaded,
	}
}

// Updates returns a channel that receives a value whenever the state
// changes. Signals coalesce: a slow reader sees one pending signal, not
// one per change. The channel is closed by Close.
func (c *Controller[T]) Updates() <-chan struct{} { return c.updates }

// Close cancels the in-flight fetch and any pending search. Responses that
// arrive afterwards are discarded. Close waits for in-flight fetch
// goroutines to return.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	close(c.updates)
	c.mu.Unlock()
	c.inflight.Wait()
}

func (c *Controller[T]) effectiveLocked() model.Filters {
	req := c.filters.Clone()
	req[model.FilterSearch] = c.searchTerm
	return req
}

func (c *Controller[T]) scheduleSearchLocked() {
	c.stopTimerLocked()
	gen := c.timerGen
	c.timer = time.AfterFunc(c.debounce, func() { c.flushSearch(gen) })
}

func (c *Controller[T]) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// flushSearch runs when the debounce expires. gen guards against a timer
// that fired after being replaced or stopped.
func (c *Controller[T]) flushSearch(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.timerGen {
		return
	}
	c.timer = nil
	c.searchTerm = c.filters.Get(model.FilterSearch)
	req := c.effectiveLocked()
	if c.lastReq != nil && req.Equal(c.lastReq) {
		c.logger.Debug("list search unchanged, fetch skipped", "search", c.searchTerm)
		return
	}
	c.issueLocked(req, Searching)
}

// issueLocked starts a fetch for req, superseding any in-flight fetch.
// Before Start the filters are recorded but nothing is fetched.
func (c *Controller[T]) issueLocked(req model.Filters, status Status) {
	if !c.started {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.lastReq = req
	c.status = status
	c.errMsg = ""
	c.notifyLocked()
	c.logger.Debug("list fetch issued", "seq", seq, "query", req.Query().Encode())

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		page, err := c.fetch(ctx, req.Clone())
		c.apply(seq, page, err)
	}()
}

func (c *Controller[T]) apply(seq uint64, page *model.Page[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logger.Debug("list response after close discarded", "seq", seq)
		return
	}
	if seq != c.seq {
		c.logger.Debug("stale list response discarded", "seq", seq, "newest", c.seq)
		return
	}
	c.cancel = nil
	if err != nil {
		c.status = Error
		c.errMsg = ErrorMessage(err)
		c.logger.Debug("list fetch failed", "seq", seq, "err", err)
		c.notifyLocked()
		return
	}
	if page == nil {
		page = &model.Page[T]{}
	}
	c.items = page.Items
	if c.items == nil {
		c.items = []T{}
	}
	c.pagination = page.Pagination
	c.status = Idle
	c.loaded = true
	c.logger.Debug("list response applied", "seq", seq, "items", len(c.items))
	c.notifyLocked()
}

func (c *Controller[T]) notifyLocked() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
