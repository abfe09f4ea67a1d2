package upsert

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/option"
)

// Phase is the lifecycle state of a form.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseLoading
	PhaseReady
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	// ErrNotReady is returned when submitting a form that is not in PhaseReady.
	ErrNotReady = errors.New("upsert: form is not ready")
	// ErrSuperseded is returned by Open when another Open or Close won the race.
	ErrSuperseded = errors.New("upsert: form was reopened or closed")
)

// OptionLoad fetches one option list of the form, keyed by Key.
type OptionLoad struct {
	Key  string
	Load func(ctx context.Context) ([]option.Option, error)
}

// Messages are the operator-facing texts of a form.
type Messages struct {
	CreateConfirm *ConfirmOptions
	UpdateConfirm *ConfirmOptions
	Created       string
	Updated       string
	CreateFailed  string
	UpdateFailed  string
	LoadFailed    string
}

// DefaultMessages returns the standard texts for an entity such as "member".
func DefaultMessages(entity string) Messages {
	return Messages{
		CreateConfirm: &ConfirmOptions{
			Title:         "Create " + entity,
			Message:       fmt.Sprintf("Are you sure you want to create this %s?", entity),
			PrimaryText:   "Create",
			SecondaryText: "Cancel",
		},
		UpdateConfirm: &ConfirmOptions{
			Title:         "Update " + entity,
			Message:       fmt.Sprintf("Are you sure you want to save changes to this %s?", entity),
			PrimaryText:   "Save",
			SecondaryText: "Cancel",
		},
		Created:      "Data has been successfully created",
		Updated:      "Data has been successfully updated",
		CreateFailed: "Failed to create " + entity,
		UpdateFailed: "Failed to update " + entity,
		LoadFailed:   "Failed to load " + entity,
	}
}

// Config wires a form to its data source and collaborators.
type Config[D any] struct {
	Name string
	// Initial returns the draft of a new entity. nil means the zero value.
	Initial func() D
	// Load fetches the draft of an existing entity.
	Load func(ctx context.Context, id uint) fetch.Response[D]
	// Options returns the option lists a draft depends on, such as the
	// provinces of its country. They load in parallel.
	Options func(d D) []OptionLoad
	Schema  *Schema[D]
	Create  func(ctx context.Context, d D) Outcome
	Update  func(ctx context.Context, id uint, d D) Outcome
	// Messages defaults to DefaultMessages(Name).
	Messages *Messages
	Protocol Protocol
}

// State is a consistent copy of the form.
type State[D any] struct {
	Phase   Phase
	ID      uint
	Draft   D
	Errors  FieldErrors
	Options map[string][]option.Option
	Open    bool
}

// Editing reports whether the form edits an existing entity.
func (s State[D]) Editing() bool { return s.ID != 0 }

// Controller drives one create/edit form. All methods are safe for concurrent use.
type Controller[D any] struct {
	cfg   Config[D]
	msgs  Messages
	modal Modal

	mu      sync.Mutex
	gen     uint64
	phase   Phase
	id      uint
	draft   D
	errs    FieldErrors
	options map[string][]option.Option
}

// NewController returns a closed form.
func NewController[D any](cfg Config[D]) *Controller[D] {
	msgs := DefaultMessages(cfg.Name)
	if cfg.Messages != nil {
		msgs = *cfg.Messages
	}
	if cfg.Protocol.Logger != nil && cfg.Name != "" {
		cfg.Protocol.Logger = cfg.Protocol.Logger.With("form", cfg.Name)
	}
	return &Controller[D]{cfg: cfg, msgs: msgs}
}

// Modal returns the modal hosting the form.
func (c *Controller[D]) Modal() *Modal { return &c.modal }

// State returns the current form state.
func (c *Controller[D]) State() State[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := make(map[string][]option.Option, len(c.options))
	for k, v := range c.options {
		opts[k] = v
	}
	return State[D]{
		Phase:   c.phase,
		ID:      c.id,
		Draft:   c.draft,
		Errors:  c.errs,
		Options: opts,
		Open:    c.modal.IsActive(),
	}
}

// Open shows the form. id 0 starts a new entity from the initial draft;
// otherwise the entity is fetched first. A failed fetch notifies the operator
// and leaves the form closed.
func (c *Controller[D]) Open(ctx context.Context, id uint) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = PhaseLoading
	c.id = id
	c.errs = nil
	c.options = nil
	c.modal.Show()
	c.mu.Unlock()

	var draft D
	if id == 0 {
		if c.cfg.Initial != nil {
			draft = c.cfg.Initial()
		}
	} else {
		resp := c.cfg.Load(ctx, id)
		if !resp.Success() {
			msg := resp.Message(c.msgs.LoadFailed)
			c.cfg.Protocol.notify(ctx, msg, VariantError)
			c.mu.Lock()
			if gen == c.gen {
				c.closeLocked()
			}
			c.mu.Unlock()
			return errors.New(msg)
		}
		draft = *resp.Result
	}

	options := c.loadOptions(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	c.draft = draft
	c.options = options
	c.phase = PhaseReady
	return nil
}

// Close hides the form and drops the draft.
func (c *Controller[D]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.closeLocked()
}

// Edit applies fn to the draft of a ready form.
func (c *Controller[D]) Edit(fn func(d *D)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseReady {
		return ErrNotReady
	}
	fn(&c.draft)
	return nil
}

// ReloadOptions replaces the draft and re-resolves its option lists, e.g.
// after the operator picked another country.
func (c *Controller[D]) ReloadOptions(ctx context.Context, d D) error {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	gen := c.gen
	c.draft = d
	c.mu.Unlock()

	options := c.loadOptions(ctx, d)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ErrSuperseded
	}
	c.options = options
	return nil
}

// Submit validates d and, when valid, creates or updates the entity through
// the submission protocol. On success the form closes and the list refreshes
// once; on failure the form stays open with d as its draft.
func (c *Controller[D]) Submit(ctx context.Context, d D) (Result, error) {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return Failed, ErrNotReady
	}
	c.draft = d
	if c.cfg.Schema != nil {
		c.errs = c.cfg.Schema.Validate(d)
	}
	if len(c.errs) > 0 {
		c.mu.Unlock()
		return Invalid, nil
	}
	id, gen := c.id, c.gen
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	a := Action{Name: "create", Confirm: c.msgs.CreateConfirm, Success: c.msgs.Created, Fallback: c.msgs.CreateFailed,
		Call: func(ctx context.Context) Outcome { return c.cfg.Create(ctx, d) }}
	if id != 0 {
		a = Action{Name: "update", Confirm: c.msgs.UpdateConfirm, Success: c.msgs.Updated, Fallback: c.msgs.UpdateFailed,
			Call: func(ctx context.Context) Outcome { return c.cfg.Update(ctx, id, d) }}
	}

	res, err := c.cfg.Protocol.Run(ctx, a)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return res, err
	}
	if res == Submitted {
		c.closeLocked()
	} else {
		c.phase = PhaseReady
	}
	return res, err
}

// Run executes a row or form action, such as delete or lock, through the
// submission protocol. A successful action closes the form only when it is
// open on the record the action changed.
func (c *Controller[D]) Run(ctx context.Context, a Action) (Result, error) {
	res, err := c.cfg.Protocol.Run(ctx, a)
	if res == Submitted && a.ID != 0 {
		c.mu.Lock()
		if c.phase != PhaseClosed && c.id == a.ID {
			c.gen++
			c.closeLocked()
		}
		c.mu.Unlock()
	}
	return res, err
}

func (c *Controller[D]) closeLocked() {
	var zero D
	c.phase = PhaseClosed
	c.id = 0
	c.draft = zero
	c.errs = nil
	c.options = nil
	c.modal.Hide()
}

func (c *Controller[D]) loadOptions(ctx context.Context, d D) map[string][]option.Option {
	if c.cfg.Options == nil {
		return nil
	}
	loads := c.cfg.Options(d)
	lists := make([][]option.Option, len(loads))

	var g errgroup.Group
	for i, l := range loads {
		g.Go(func() error {
			opts, err := l.Load(ctx)
			if err != nil {
				// A missing list leaves its select empty; the form stays usable.
				c.cfg.Protocol.logger().Warn("failed to load form options", "options", l.Key, "error", err)
				return nil
			}
			lists[i] = opts
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]option.Option, len(loads))
	for i, l := range loads {
		out[l.Key] = lists[i]
	}
	return out
}
