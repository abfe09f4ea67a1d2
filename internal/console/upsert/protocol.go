package upsert

import (
	"context"
	"errors"
	"log/slog"
)

// Result is how a mutating action ended.
type Result int

const (
	// Submitted means the call succeeded.
	Submitted Result = iota
	// Invalid means validation blocked the call.
	Invalid
	// Declined means the operator did not confirm.
	Declined
	// Pending means the confirmation question must be shown first.
	Pending
	// Failed means the call, or the confirmation itself, failed.
	Failed
)

func (r Result) String() string {
	switch r {
	case Submitted:
		return "submitted"
	case Invalid:
		return "invalid"
	case Declined:
		return "declined"
	case Pending:
		return "pending"
	default:
		return "failed"
	}
}

// Outcome is the result of a remote call. fetch.Response satisfies it.
type Outcome interface {
	Success() bool
	Message(fallback string) string
}

// Action is one mutating operation run through the submission protocol.
type Action struct {
	Name string
	// ID is the record the action changes, 0 for none.
	ID uint
	// Confirm, when set, is asked before the call.
	Confirm *ConfirmOptions
	Call    func(ctx context.Context) Outcome
	// Success is the toast shown after the call succeeds.
	Success string
	// Fallback is the toast shown when the call fails without a detail.
	Fallback string
}

// Protocol runs actions: confirm, call, notify, refresh.
type Protocol struct {
	Confirmer Confirmer
	Notifier  Notifier
	// Refresh reloads the list behind the form. It runs once per successful call.
	Refresh func()
	Logger  *slog.Logger
}

// Run executes a. The returned error is only set for Failed results.
func (p Protocol) Run(ctx context.Context, a Action) (Result, error) {
	logger := p.logger().With("action", a.Name)

	if a.Confirm != nil && p.Confirmer != nil {
		ok, err := p.Confirmer.Confirm(ctx, *a.Confirm)
		switch {
		case errors.Is(err, ErrConfirmationPending):
			return Pending, nil
		case err != nil:
			logger.Warn("confirmation failed", "error", err)
			p.notify(ctx, a.Fallback, VariantError)
			return Failed, err
		case !ok:
			return Declined, nil
		}
	}

	out := a.Call(ctx)
	if out == nil || !out.Success() {
		msg := a.Fallback
		if out != nil {
			msg = out.Message(a.Fallback)
		}
		logger.Info("action failed", "message", msg)
		p.notify(ctx, msg, VariantError)
		return Failed, errors.New(msg)
	}

	p.notify(ctx, a.Success, VariantSuccess)
	if p.Refresh != nil {
		p.Refresh()
	}
	return Submitted, nil
}

func (p Protocol) notify(ctx context.Context, msg string, v Variant) {
	if p.Notifier != nil && msg != "" {
		p.Notifier.Notify(ctx, msg, v)
	}
}

func (p Protocol) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
