package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"sync"
	"time"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// MaxLimit is the largest page size a list may request.
const MaxLimit = 100

// PageSizes are the page sizes an operator can choose from.
var PageSizes = []int{10, 20, 50, 100}

// ErrFetchPanic marks a query whose fetcher panicked.
var ErrFetchPanic = errors.New("listing: fetch panicked")

// ErrInvalidLimit is returned by SetLimit for a limit outside 1..MaxLimit.
var ErrInvalidLimit = errors.New("listing: limit must be between 1 and 100")

// Fetcher runs one list query. It must honour ctx cancellation; a cancelled
// request's result is discarded anyway.
type Fetcher[T any] func(ctx context.Context, req Request) (Page[T], error)

type options struct {
	delay   time.Duration
	limit   int
	sort    Sort
	fixed   map[string]string
	initial FilterForm
	logger  *slog.Logger
	name    string
	base    context.Context
}

// Option configures a Controller.
type Option func(*options)

// WithDelay sets the filter debounce delay.
func WithDelay(d time.Duration) Option { return func(o *options) { o.delay = d } }

// WithLimit sets the initial page size.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = min(n, MaxLimit)
		}
	}
}

// WithSort sets the initial sort state.
func WithSort(s Sort) Option { return func(o *options) { o.sort = s } }

// WithInitialFilters sets the filter values used at start and on reset.
func WithInitialFilters(f FilterForm) Option { return func(o *options) { o.initial = f.Clone() } }

// WithFixedFilters adds payload parameters that the operator cannot change,
// e.g. the CO account scope of a CO operator.
func WithFixedFilters(params map[string]string) Option {
	return func(o *options) { o.fixed = maps.Clone(params) }
}

// WithBaseContext sets the context queries derive from. Its values, such as
// the operator's scope, reach the Fetcher; its cancellation stops the controller.
func WithBaseContext(ctx context.Context) Option { return func(o *options) { o.base = ctx } }

// WithLogger sets the logger. name is added as the "list" attribute.
func WithLogger(logger *slog.Logger, name string) Option {
	return func(o *options) {
		o.logger = logger
		o.name = name
	}
}

// Snapshot is a consistent copy of the controller state.
type Snapshot[T any] struct {
	Filters    FilterForm
	Applied    FilterForm
	Pagination Pagination
	Sort       Sort
	Items      []T
	Status     Status
	Err        error
	Request    Request
}

// Empty reports whether the last query succeeded with no rows.
func (s Snapshot[T]) Empty() bool { return s.Status == StatusSuccess && len(s.Items) == 0 }

// Loading reports whether a query is in flight.
func (s Snapshot[T]) Loading() bool { return s.Status == StatusLoading }

// Controller owns the filter, pagination and sort state of one list and keeps
// its rows in sync with them. All methods are safe for concurrent use.
type Controller[T any] struct {
	fetch     Fetcher[T]
	opts      options
	logger    *slog.Logger
	debouncer *Debouncer

	ctx       context.Context
	cancelCtx context.CancelFunc

	mu         sync.Mutex
	filters    FilterForm
	applied    FilterForm
	pagination Pagination
	sort       Sort
	items      []T
	status     Status
	err        error
	last       Request

	seq        uint64
	inflight   bool
	cancel     context.CancelFunc
	debouncing bool
	settled    chan struct{}
	isSettled  bool
	closed     bool
}

// New returns a Controller that loads rows with fetch. No query is issued
// until Refetch or another state change.
func New[T any](fetch Fetcher[T], opts ...Option) *Controller[T] {
	o := options{
		delay:   DefaultDelay,
		limit:   DefaultLimit,
		sort:    Sort{Direction: Asc},
		initial: FilterForm{},
		logger:  slog.Default(),
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if o.name != "" {
		logger = logger.With("list", o.name)
	}

	ctx, cancel := context.WithCancel(o.base)
	settled := make(chan struct{})
	close(settled)

	return &Controller[T]{
		fetch:      fetch,
		opts:       o,
		logger:     logger,
		debouncer:  NewDebouncer(o.delay),
		ctx:        ctx,
		cancelCtx:  cancel,
		filters:    o.initial.Clone(),
		applied:    o.initial.Clone(),
		pagination: Pagination{Limit: o.limit},
		sort:       o.sort,
		settled:    settled,
		isSettled:  true,
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Pagination returns the current pagination state.
func (c *Controller[T]) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Filters returns a copy of the current (not yet debounced) filter values.
func (c *Controller[T]) Filters() FilterForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// SetFilter changes one filter value and resets the current page to 0 in the
// same update. The query follows once the debounce delay has elapsed.
func (c *Controller[T]) SetFilter(field string, v FilterValue) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filters[field] = v.clone()
	c.pagination.CurrentPage = 0
	c.debouncing = true
	c.unsettleLocked()
	c.mu.Unlock()

	c.debouncer.Trigger(c.applyFilters)
}

// SetFilters replaces all filter values, with the same semantics as SetFilter.
func (c *Controller[T]) SetFilters(f FilterForm) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filters = f.Clone()
	c.pagination.CurrentPage = 0
	c.debouncing = true
	c.unsettleLocked()
	c.mu.Unlock()

	c.debouncer.Trigger(c.applyFilters)
}

// ResetFilters restores the initial filter values and queries immediately.
func (c *Controller[T]) ResetFilters() {
	c.debouncer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.debouncing = false
	c.filters = c.opts.initial.Clone()
	c.applied = c.opts.initial.Clone()
	c.pagination.CurrentPage = 0
	c.issueLocked()
}

// FlushFilters applies pending filter edits without waiting for the delay.
func (c *Controller[T]) FlushFilters() {
	c.debouncer.Flush()
}

// SetPage moves to page p (0-based), clamped to the known page range.
func (c *Controller[T]) SetPage(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.pagination.TotalPages > 0 && p >= c.pagination.TotalPages {
		p = c.pagination.TotalPages - 1
	}
	if p < 0 {
		p = 0
	}
	c.pagination.CurrentPage = p
	c.issueLocked()
}

// SetLimit changes the page size and returns to the first page.
func (c *Controller[T]) SetLimit(n int) error {
	if n <= 0 || n > MaxLimit {
		return ErrInvalidLimit
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.pagination.Limit = n
	c.pagination.CurrentPage = 0
	c.issueLocked()
	return nil
}

// HandleSort sorts by column, flipping the direction, and queries again.
func (c *Controller[T]) HandleSort(column string) Sort {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = c.sort.Toggle(column)
	if !c.closed {
		c.issueLocked()
	}
	return c.sort
}

// Refetch re-issues the current payload.
func (c *Controller[T]) Refetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.issueLocked()
}

// Wait blocks until no debounce is pending and the latest query has resolved,
// then returns the state. On ctx expiry it returns the state as it is.
func (c *Controller[T]) Wait(ctx context.Context) (Snapshot[T], error) {
	c.mu.Lock()
	ch := c.settled
	c.mu.Unlock()

	select {
	case <-ch:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Close cancels the pending debounce and any in-flight query. Later calls that
// change state are ignored.
func (c *Controller[T]) Close() {
	c.debouncer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.debouncing = false
	c.inflight = false
	c.cancelCtx()
	c.settleLocked()
}

func (c *Controller[T]) applyFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.debouncing = false
	c.applied = c.filters.Clone()
	c.pagination.CurrentPage = 0
	c.issueLocked()
}

func (c *Controller[T]) requestLocked() Request {
	params := c.applied.Params()
	for k, v := range c.opts.fixed {
		params[k] = v
	}
	return Request{
		Page:    c.pagination.CurrentPage,
		Limit:   c.pagination.Limit,
		Sort:    c.sort.Param(),
		Filters: params,
	}
}

// issueLocked starts a query for the current payload and supersedes the
// previous one.
func (c *Controller[T]) issueLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	req := c.requestLocked()
	c.last = req
	c.status = StatusLoading
	c.inflight = true
	c.unsettleLocked()

	go c.run(ctx, seq, req)
}

func (c *Controller[T]) run(ctx context.Context, seq uint64, req Request) {
	page, err := c.safeFetch(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.seq {
		c.logger.Debug("discarding superseded list response", "seq", seq, "latest", c.seq)
		return
	}
	c.cancel()
	c.cancel = nil
	c.inflight = false

	if err != nil {
		c.logger.Warn("list query failed", "request", req.Key(), "error", err)
		c.pagination = c.pagination.reset()
		c.items = nil
		c.status = StatusError
		c.err = err
	} else {
		c.pagination = c.pagination.withTotal(page.TotalElements)
		c.items = slices.Clone(page.Items)
		c.status = StatusSuccess
		c.err = nil
	}
	c.settleLocked()
}

// safeFetch runs the fetcher, turning a panic into a failed query so the list
// still settles.
func (c *Controller[T]) safeFetch(ctx context.Context, req Request) (page Page[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("list query panicked", "request", req.Key(), "panic", r, "stack", string(debug.Stack()))
			page, err = Page[T]{}, fmt.Errorf("%w: %v", ErrFetchPanic, r)
		}
	}()
	return c.fetch(ctx, req)
}

func (c *Controller[T]) unsettleLocked() {
	if c.isSettled {
		c.settled = make(chan struct{})
		c.isSettled = false
	}
}

func (c *Controller[T]) settleLocked() {
	if c.isSettled || c.debouncing || c.inflight {
		return
	}
	close(c.settled)
	c.isSettled = true
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Filters:    c.filters.Clone(),
		Applied:    c.applied.Clone(),
		Pagination: c.pagination,
		Sort:       c.sort,
		Items:      slices.Clone(c.items),
		Status:     c.status,
		Err:        c.err,
		Request:    c.last,
	}
}
