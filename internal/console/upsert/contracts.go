// Package upsert implements the create/edit form workflow shared by every
// management screen: load, validate, confirm, submit, notify and refresh.
package upsert

import (
	"context"
	"errors"
	"sync"
)

// Variant is the visual kind of a notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

// Notifier shows a transient message to the operator. It is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string, variant Variant)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string, variant Variant)

func (f NotifierFunc) Notify(ctx context.Context, message string, variant Variant) {
	f(ctx, message, variant)
}

// ConfirmOptions describes a confirmation dialog.
type ConfirmOptions struct {
	Title         string
	Message       string
	PrimaryText   string
	SecondaryText string
}

// Confirmer asks the operator to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, opts ConfirmOptions) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, opts ConfirmOptions) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, opts ConfirmOptions) (bool, error) {
	return f(ctx, opts)
}

// ErrConfirmationPending is returned by a Confirmer that cannot answer yet,
// typically because the question has to be shown to the operator first.
var ErrConfirmationPending = errors.New("upsert: confirmation pending")

// Modal is the open/closed state of a dialog.
type Modal struct {
	mu     sync.Mutex
	active bool
}

// IsActive reports whether the modal is shown.
func (m *Modal) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Show opens the modal.
func (m *Modal) Show() {
	m.mu.Lock()
	m.active = true
	m.mu.Unlock()
}

// Hide closes the modal.
func (m *Modal) Hide() {
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()
}
