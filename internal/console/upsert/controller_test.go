package upsert

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/option"
)

type draft struct {
	Name    string
	Country string
}

type toast struct {
	msg     string
	variant Variant
}

type recorder struct {
	mu        sync.Mutex
	toasts    []toast
	refreshes int
}

func (r *recorder) Notify(_ context.Context, msg string, v Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast{msg, v})
}

func (r *recorder) refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
}

func newForm(rec *recorder, confirm Confirmer, create func(context.Context, draft) Outcome) *Controller[draft] {
	return NewController(Config[draft]{
		Name:    "member",
		Initial: func() draft { return draft{Country: "ID"} },
		Load: func(_ context.Context, id uint) fetch.Response[draft] {
			if id == 404 {
				return fetch.Fail[draft]("member not found")
			}
			return fetch.OK(draft{Name: "Jane", Country: "ID"})
		},
		Schema: NewSchema[draft](nil).Field("name", "required", func(d draft) any { return d.Name }),
		Create: create,
		Update: func(context.Context, uint, draft) Outcome { return fetch.OK(struct{}{}) },
		Protocol: Protocol{
			Confirmer: confirm,
			Notifier:  rec,
			Refresh:   rec.refresh,
		},
	})
}

func okCreate(context.Context, draft) Outcome { return fetch.OK(struct{}{}) }

func TestController_OpenNew(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, nil, okCreate)

	require.NoError(t, c.Open(context.Background(), 0))
	st := c.State()

	assert.Equal(t, PhaseReady, st.Phase)
	assert.True(t, st.Open)
	assert.False(t, st.Editing())
	assert.Equal(t, draft{Country: "ID"}, st.Draft)
}

func TestController_OpenExisting(t *testing.T) {
	c := newForm(&recorder{}, nil, okCreate)

	require.NoError(t, c.Open(context.Background(), 7))
	st := c.State()

	assert.True(t, st.Editing())
	assert.Equal(t, "Jane", st.Draft.Name)
}

func TestController_OpenFailureNotifiesAndCloses(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, nil, okCreate)

	err := c.Open(context.Background(), 404)

	assert.EqualError(t, err, "member not found")
	assert.Equal(t, PhaseClosed, c.State().Phase)
	assert.False(t, c.Modal().IsActive())
	assert.Equal(t, []toast{{"member not found", VariantError}}, rec.toasts)
}

func TestController_SubmitInvalid(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{}
	c := newForm(rec, nil, func(context.Context, draft) Outcome {
		calls.Add(1)
		return fetch.OK(struct{}{})
	})
	require.NoError(t, c.Open(context.Background(), 0))

	res, err := c.Submit(context.Background(), draft{})

	require.NoError(t, err)
	assert.Equal(t, Invalid, res)
	assert.Equal(t, FieldErrors{"name": "This field is required"}, c.State().Errors)
	assert.Zero(t, calls.Load())
	assert.Empty(t, rec.toasts)
}

func TestController_SubmitSuccessClosesAndRefreshesOnce(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, answer(true, nil), okCreate)
	require.NoError(t, c.Open(context.Background(), 0))

	res, err := c.Submit(context.Background(), draft{Name: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, Submitted, res)
	assert.Equal(t, PhaseClosed, c.State().Phase)
	assert.False(t, c.Modal().IsActive())
	assert.Equal(t, 1, rec.refreshes)
	assert.Equal(t, []toast{{"Data has been successfully created", VariantSuccess}}, rec.toasts)
}

func TestController_SubmitFailureStaysOpen(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, answer(true, nil), func(context.Context, draft) Outcome {
		return fetch.Fail[struct{}]("Email already used")
	})
	require.NoError(t, c.Open(context.Background(), 0))

	res, err := c.Submit(context.Background(), draft{Name: "Jane"})

	assert.Error(t, err)
	assert.Equal(t, Failed, res)
	st := c.State()
	assert.Equal(t, PhaseReady, st.Phase)
	assert.True(t, st.Open)
	assert.Equal(t, "Jane", st.Draft.Name)
	assert.Zero(t, rec.refreshes)
	assert.Equal(t, []toast{{"Email already used", VariantError}}, rec.toasts)
}

func TestController_SubmitFailureFallback(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, nil, func(context.Context, draft) Outcome { return fetch.Fail[struct{}]() })
	require.NoError(t, c.Open(context.Background(), 0))

	_, _ = c.Submit(context.Background(), draft{Name: "Jane"})

	assert.Equal(t, []toast{{"Failed to create member", VariantError}}, rec.toasts)
}

func TestController_SubmitDeclined(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{}
	c := newForm(rec, answer(false, nil), func(context.Context, draft) Outcome {
		calls.Add(1)
		return fetch.OK(struct{}{})
	})
	require.NoError(t, c.Open(context.Background(), 0))

	res, err := c.Submit(context.Background(), draft{Name: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, Declined, res)
	assert.Zero(t, calls.Load())
	assert.Equal(t, PhaseReady, c.State().Phase)
}

func TestController_SubmitPending(t *testing.T) {
	c := newForm(&recorder{}, answer(false, ErrConfirmationPending), okCreate)
	require.NoError(t, c.Open(context.Background(), 0))

	res, err := c.Submit(context.Background(), draft{Name: "Jane"})

	require.NoError(t, err)
	assert.Equal(t, Pending, res)
	assert.Equal(t, PhaseReady, c.State().Phase)
}

func TestController_SubmitWhenClosed(t *testing.T) {
	c := newForm(&recorder{}, nil, okCreate)

	_, err := c.Submit(context.Background(), draft{Name: "Jane"})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestController_UpdateUsesID(t *testing.T) {
	var gotID uint
	c := NewController(Config[draft]{
		Name: "member",
		Load: func(context.Context, uint) fetch.Response[draft] { return fetch.OK(draft{Name: "Jane"}) },
		Update: func(_ context.Context, id uint, _ draft) Outcome {
			gotID = id
			return fetch.OK(struct{}{})
		},
	})
	require.NoError(t, c.Open(context.Background(), 9))

	res, err := c.Submit(context.Background(), draft{Name: "Janet"})

	require.NoError(t, err)
	assert.Equal(t, Submitted, res)
	assert.Equal(t, uint(9), gotID)
}

func TestController_DependentOptionsLoadInParallel(t *testing.T) {
	var inFlight, peak atomic.Int32
	load := func(label string) func(context.Context) ([]option.Option, error) {
		return func(context.Context) ([]option.Option, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			if label == "broken" {
				return nil, errors.New("down")
			}
			return option.Static(label), nil
		}
	}

	c := NewController(Config[draft]{
		Name: "co account",
		Load: func(context.Context, uint) fetch.Response[draft] { return fetch.OK(draft{Country: "ID"}) },
		Options: func(d draft) []OptionLoad {
			return []OptionLoad{
				{Key: "countries", Load: load("ID")},
				{Key: "provinces", Load: load("JK")},
				{Key: "cities", Load: load("broken")},
			}
		},
	})

	require.NoError(t, c.Open(context.Background(), 1))
	st := c.State()

	assert.Equal(t, int32(3), peak.Load())
	assert.Equal(t, option.Static("ID"), st.Options["countries"])
	assert.Equal(t, option.Static("JK"), st.Options["provinces"])
	assert.Empty(t, st.Options["cities"])
	assert.Equal(t, PhaseReady, st.Phase)
}

func TestController_EditAndReloadOptions(t *testing.T) {
	c := NewController(Config[draft]{
		Name: "co account",
		Options: func(d draft) []OptionLoad {
			return []OptionLoad{{Key: "provinces", Load: func(context.Context) ([]option.Option, error) {
				return option.Static(d.Country + "-1"), nil
			}}}
		},
	})
	ctx := context.Background()
	require.NoError(t, c.Open(ctx, 0))
	require.NoError(t, c.Edit(func(d *draft) { d.Name = "Acme" }))
	require.NoError(t, c.ReloadOptions(ctx, draft{Name: "Acme", Country: "SG"}))

	st := c.State()
	assert.Equal(t, option.Static("SG-1"), st.Options["provinces"])
	assert.Equal(t, "SG", st.Draft.Country)
}

func TestController_RunActionClosesForm(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, answer(true, nil), okCreate)
	require.NoError(t, c.Open(context.Background(), 3))

	res, err := c.Run(context.Background(), Action{
		Name:     "lock",
		ID:       3,
		Confirm:  &ConfirmOptions{Title: "Lock member"},
		Call:     func(context.Context) Outcome { return fetch.OK(struct{}{}) },
		Success:  "Member locked",
		Fallback: "Failed to lock member",
	})

	require.NoError(t, err)
	assert.Equal(t, Submitted, res)
	assert.False(t, c.Modal().IsActive())
	assert.Equal(t, 1, rec.refreshes)
}

func TestController_RunActionKeepsOtherForm(t *testing.T) {
	rec := &recorder{}
	c := newForm(rec, answer(true, nil), okCreate)
	require.NoError(t, c.Open(context.Background(), 3))
	require.NoError(t, c.Edit(func(d *draft) { d.Name = "Unsaved" }))

	res, err := c.Run(context.Background(), Action{
		Name:     "lock",
		ID:       5,
		Call:     func(context.Context) Outcome { return fetch.OK(struct{}{}) },
		Success:  "Member locked",
		Fallback: "Failed to lock member",
	})

	require.NoError(t, err)
	assert.Equal(t, Submitted, res)
	st := c.State()
	assert.True(t, st.Open)
	assert.Equal(t, PhaseReady, st.Phase)
	assert.Equal(t, uint(3), st.ID)
	assert.Equal(t, "Unsaved", st.Draft.Name)
}

func TestModal(t *testing.T) {
	var m Modal
	assert.False(t, m.IsActive())
	m.Show()
	assert.True(t, m.IsActive())
	m.Hide()
	assert.False(t, m.IsActive())
}
