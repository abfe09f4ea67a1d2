// Package screen mounts a management screen, a paginated list plus its
// create/edit form, on a gin router. Every entity screen of the console is an
// instance of Screen.
package screen

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/htmx"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/session"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Env is shared by every screen of the console.
type Env struct {
	Store  *session.Store
	Policy *access.Policy
	Logger *slog.Logger
	// Delay is the filter debounce delay.
	Delay time.Duration
	// Limit is the default page size.
	Limit int
	// SessionID identifies the console session of a request. Screens of one
	// session share state across requests.
	SessionID func(c *gin.Context) string
}

// Action is a named operation on one row, such as lock or approve.
type Action[T any] struct {
	Name      string
	Label     string
	Privilege string
	Confirm   *upsert.ConfirmOptions
	Success   string
	Fallback  string
	// Note asks for an operator note in the confirmation dialog.
	Note bool
	// Visible decides whether the action is offered for a row. nil shows it always.
	Visible func(row T) bool
	// Run performs the action. note is the optional operator note.
	Run func(ctx context.Context, id uint, note string) upsert.Outcome
}

// Shows reports whether the action is offered for row.
func (a Action[T]) Shows(row T) bool {
	return a.Visible == nil || a.Visible(row)
}

// Config describes one entity screen. T is the row type, D the form draft.
type Config[T any, D any] struct {
	// Name is the resource name; templates live under "<Name>/".
	Name  string
	Title string
	// Base is the URL prefix, e.g. "/members".
	Base string
	// Resource is the access resource guarding the screen.
	Resource string
	Source   fetch.Source[T, D]

	Filters  []FilterField
	Sortable []string
	Sort     listing.Sort
	// ScopeField is the filter pinned to the CO account of scoped operators.
	ScopeField string

	// ID returns the primary key of a row.
	ID func(row T) uint
	// Draft converts a loaded entity into a form draft.
	Draft   func(row T) D
	Initial func() D
	// Bind reads the scalar form fields into the draft.
	Bind     func(c *gin.Context, d *D) error
	Schema   *upsert.Schema[D]
	Options  func(d D) []upsert.OptionLoad
	Arrays   []FieldArray[D]
	Messages *upsert.Messages
	Actions  []Action[T]
	// NoCreate hides the create form.
	NoCreate bool
	// NoUpdate makes existing rows read-only.
	NoUpdate bool
	// NoDelete hides the built-in delete action.
	NoDelete bool
	// Extra adds entity-specific data, such as select options, to every view.
	Extra func(ctx context.Context) gin.H
}

// Screen serves one entity screen.
type Screen[T any, D any] struct {
	cfg     Config[T, D]
	env     Env
	actions []Action[T]
	logger  *slog.Logger
}

// New returns a Screen. A delete action is added unless cfg.NoDelete is set.
func New[T any, D any](env Env, cfg Config[T, D]) *Screen[T, D] {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	actions := append([]Action[T](nil), cfg.Actions...)
	if !cfg.NoDelete {
		actions = append(actions, Action[T]{
			Name:      "delete",
			Label:     "Delete",
			Privilege: access.Delete,
			Confirm: &upsert.ConfirmOptions{
				Title:         "Delete " + cfg.Title,
				Message:       "Are you sure you want to delete this data? This action cannot be undone.",
				PrimaryText:   "Delete",
				SecondaryText: "Cancel",
			},
			Success:  "Data has been successfully deleted",
			Fallback: "Failed to delete " + cfg.Title,
			Run: func(ctx context.Context, id uint, _ string) upsert.Outcome {
				return cfg.Source.Delete(ctx, id)
			},
		})
	}
	return &Screen[T, D]{cfg: cfg, env: env, actions: actions, logger: logger.With("screen", cfg.Name)}
}

// instance is the state of a screen within one console session.
type instance[T any, D any] struct {
	list *listing.Controller[T]
	form *upsert.Controller[D]
}

func (i *instance[T, D]) Close() {
	i.list.Close()
	i.form.Close()
}

// instance returns the session state of the request, creating it on first use.
func (s *Screen[T, D]) instance(c *gin.Context) *instance[T, D] {
	principal, _ := access.CurrentPrincipal(c)
	sid := "anonymous"
	if s.env.SessionID != nil {
		if id := s.env.SessionID(c); id != "" {
			sid = id
		}
	} else if principal.ID != 0 {
		sid = strconv.FormatUint(uint64(principal.ID), 10)
	}

	return session.Get(s.env.Store, session.Key(sid, s.cfg.Name), func() *instance[T, D] {
		return s.newInstance(principal)
	})
}

func (s *Screen[T, D]) newInstance(principal access.Principal) *instance[T, D] {
	base := access.WithPrincipal(context.Background(), principal)
	if principal.Scoped() {
		base = domain.WithScope(base, principal.COAccountID)
	}
	opts := []listing.Option{
		listing.WithBaseContext(base),
		listing.WithDelay(s.env.Delay),
		listing.WithLimit(s.env.Limit),
		listing.WithInitialFilters(initialFilters(s.cfg.Filters)),
		listing.WithLogger(s.logger, s.cfg.Name),
	}
	if s.cfg.Sort.By != "" {
		opts = append(opts, listing.WithSort(s.cfg.Sort))
	}
	if s.cfg.ScopeField != "" && principal.Scoped() {
		opts = append(opts, listing.WithFixedFilters(map[string]string{
			s.cfg.ScopeField: strconv.FormatUint(uint64(principal.COAccountID), 10),
		}))
	}
	list := listing.New(fetch.Lister(s.cfg.Source), opts...)

	src := s.cfg.Source
	form := upsert.NewController(upsert.Config[D]{
		Name:    s.cfg.Title,
		Initial: s.cfg.Initial,
		Load: func(ctx context.Context, id uint) fetch.Response[D] {
			resp := src.Get(ctx, id)
			if !resp.Success() {
				return fetch.Response[D]{Error: true, ErrorData: resp.ErrorData}
			}
			return fetch.OK(s.cfg.Draft(*resp.Result))
		},
		Options: s.cfg.Options,
		Schema:  s.cfg.Schema,
		Create: func(ctx context.Context, d D) upsert.Outcome {
			return src.Create(ctx, d)
		},
		Update: func(ctx context.Context, id uint, d D) upsert.Outcome {
			return src.Update(ctx, id, d)
		},
		Messages: s.cfg.Messages,
		Protocol: upsert.Protocol{
			Confirmer: htmx.Confirmer{},
			Notifier:  htmx.Notifier{},
			Refresh:   list.Refetch,
			Logger:    s.logger,
		},
	})
	return &instance[T, D]{list: list, form: form}
}
