// Package htmx adapts the upsert collaborators to htmx requests: toasts and
// other client events travel in the HX-Trigger header, confirmations in the
// "confirmed" form field.
package htmx

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/coconsole/internal/console/upsert"
)

// Header names.
const (
	HeaderRequest  = "HX-Request"
	HeaderTrigger  = "HX-Trigger"
	HeaderRedirect = "HX-Redirect"
	HeaderReswap   = "HX-Reswap"
	HeaderRetarget = "HX-Retarget"
)

// ConfirmField is the form field carrying the operator's answer to a
// confirmation dialog.
const ConfirmField = "confirmed"

// EventToast is the client event that shows a toast.
const EventToast = "showToast"

// Toast is one notification for the client.
type Toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Exchange collects what a handler wants to tell the client during one request.
type Exchange struct {
	mu       sync.Mutex
	answer   bool
	answered bool
	pending  *upsert.ConfirmOptions
	toasts   []Toast
	events   map[string]any
}

// NewExchange returns an exchange. answered tells whether the request carried
// an answer to a confirmation; answer is that answer.
func NewExchange(answer, answered bool) *Exchange {
	return &Exchange{answer: answer, answered: answered, events: map[string]any{}}
}

type exchangeKey struct{}

// WithExchange returns a context carrying ex.
func WithExchange(ctx context.Context, ex *Exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, ex)
}

// FromContext returns the exchange of the current request, or nil.
func FromContext(ctx context.Context) *Exchange {
	ex, _ := ctx.Value(exchangeKey{}).(*Exchange)
	return ex
}

// Pending returns the confirmation the handler must show before it can go on.
func (e *Exchange) Pending() (upsert.ConfirmOptions, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return upsert.ConfirmOptions{}, false
	}
	return *e.pending, true
}

// Toasts returns the toasts collected so far.
func (e *Exchange) Toasts() []Toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Toast(nil), e.toasts...)
}

// Trigger queues a client event with detail.
func (e *Exchange) Trigger(event string, detail any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events[event] = detail
}

func (e *Exchange) addToast(t Toast) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toasts = append(e.toasts, t)
}

// header encodes the queued events. Only the last toast is sent.
func (e *Exchange) header() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := make(map[string]any, len(e.events)+1)
	for k, v := range e.events {
		events[k] = v
	}
	if n := len(e.toasts); n > 0 {
		events[EventToast] = e.toasts[n-1]
	}
	if len(events) == 0 {
		return ""
	}
	b, err := json.Marshal(events)
	if err != nil {
		return ""
	}
	return string(b)
}

// Notifier turns notifications into toasts of the current request.
type Notifier struct{}

// Notify implements upsert.Notifier.
func (Notifier) Notify(ctx context.Context, message string, variant upsert.Variant) {
	ex := FromContext(ctx)
	if ex == nil {
		slog.WarnContext(ctx, "toast dropped outside an htmx exchange", "message", message)
		return
	}
	ex.addToast(Toast{Message: message, Type: string(variant)})
}

// Confirmer answers confirmations from the "confirmed" form field. Without an
// answer it records the question and returns upsert.ErrConfirmationPending so
// the handler can render the dialog.
type Confirmer struct{}

// Confirm implements upsert.Confirmer.
func (Confirmer) Confirm(ctx context.Context, opts upsert.ConfirmOptions) (bool, error) {
	ex := FromContext(ctx)
	if ex == nil {
		return false, upsert.ErrConfirmationPending
	}
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if !ex.answered {
		ex.pending = &opts
		return false, upsert.ErrConfirmationPending
	}
	return ex.answer, nil
}

// ParseAnswer interprets a confirmation answer. ok is false when v is empty
// or unrecognised.
func ParseAnswer(v string) (answer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}

// Middleware attaches an Exchange to every request and writes its events to
// the HX-Trigger header before the response goes out.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := c.GetPostForm(ConfirmField)
		if !found {
			raw = c.Query(ConfirmField)
		}
		answer, answered := ParseAnswer(raw)

		ex := NewExchange(answer, answered)
		c.Request = c.Request.WithContext(WithExchange(c.Request.Context(), ex))

		w := &triggerWriter{ResponseWriter: c.Writer, ex: ex}
		c.Writer = w
		c.Next()
		w.inject()
	}
}

// IsRequest reports whether the request was issued by htmx.
func IsRequest(c *gin.Context) bool {
	return c.GetHeader(HeaderRequest) == "true"
}

// Redirect asks htmx to navigate to url.
func Redirect(c *gin.Context, url string) {
	c.Header(HeaderRedirect, url)
}

// triggerWriter sets HX-Trigger right before the first byte is written.
type triggerWriter struct {
	gin.ResponseWriter
	ex   *Exchange
	done bool
}

func (w *triggerWriter) inject() {
	if w.done || w.ResponseWriter.Written() {
		w.done = true
		return
	}
	w.done = true
	if h := w.ex.header(); h != "" {
		w.Header().Set(HeaderTrigger, h)
	}
}

func (w *triggerWriter) WriteHeaderNow() {
	w.inject()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *triggerWriter) Write(b []byte) (int, error) {
	w.inject()
	return w.ResponseWriter.Write(b)
}

func (w *triggerWriter) WriteString(s string) (int, error) {
	w.inject()
	return w.ResponseWriter.WriteString(s)
}
