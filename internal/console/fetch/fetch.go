// Package fetch defines the result contract shared by every data source the
// console talks to, local services and remote APIs alike.
package fetch

import (
	"context"
	"errors"
	"strings"

	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/domain"
)

// ErrorData carries server-provided error details. The first detail is the
// message shown to the operator.
type ErrorData struct {
	Details []string `json:"details,omitempty"`
}

// Response is the result of one fetch. It is successful when Result is set
// and Error is false.
type Response[T any] struct {
	Result    *T         `json:"result,omitempty"`
	Error     bool       `json:"error"`
	ErrorData *ErrorData `json:"errorData,omitempty"`
}

// OK returns a successful response holding v.
func OK[T any](v T) Response[T] {
	return Response[T]{Result: &v}
}

// Fail returns a failed response with the given details.
func Fail[T any](details ...string) Response[T] {
	r := Response[T]{Error: true}
	if len(details) > 0 {
		r.ErrorData = &ErrorData{Details: details}
	}
	return r
}

// Success reports whether the response carries a result.
func (r Response[T]) Success() bool {
	return !r.Error && r.Result != nil
}

// Message returns the first error detail, or fallback when there is none.
func (r Response[T]) Message(fallback string) string {
	if r.ErrorData != nil && len(r.ErrorData.Details) > 0 {
		if msg := strings.TrimSpace(r.ErrorData.Details[0]); msg != "" {
			return msg
		}
	}
	return fallback
}

// Err converts a failed response into an error. It returns nil on success.
func (r Response[T]) Err() error {
	if r.Success() {
		return nil
	}
	e := &Error{}
	if r.ErrorData != nil {
		e.Details = append(e.Details, r.ErrorData.Details...)
	}
	return e
}

// Error is a failed response seen as an error.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return "request failed"
	}
	return e.Details[0]
}

// From wraps the result of a service call. Only user-facing error messages are
// passed on as details; anything else leaves the caller's fallback in place.
func From[T any](v T, err error) Response[T] {
	if err == nil {
		return OK(v)
	}
	var appErr *domain.AppError
	if domain.IsUserFacing(err) && errors.As(err, &appErr) {
		return Fail[T](appErr.Message)
	}
	var fe *Error
	if errors.As(err, &fe) {
		return Fail[T](fe.Details...)
	}
	return Fail[T]()
}

// FromPtr wraps a service call returning a pointer. A nil result without an
// error is a failure.
func FromPtr[T any](v *T, err error) Response[T] {
	if err != nil {
		var zero T
		return From(zero, err)
	}
	if v == nil {
		return Fail[T]()
	}
	return OK(*v)
}

// Done wraps the result of a service call that returns no value.
func Done(err error) Response[struct{}] {
	return From(struct{}{}, err)
}

// ActionInput is the payload of a named entity action such as lock, approve
// or retry.
type ActionInput struct {
	Name   string `json:"name"`
	Note   string `json:"note,omitempty"`
	Target string `json:"target,omitempty"`
}

// Source is the capability set of one entity behind a management screen.
// T is the entity, W the write payload.
type Source[T any, W any] interface {
	List(ctx context.Context, req listing.Request) Response[listing.Page[T]]
	Get(ctx context.Context, id uint) Response[T]
	Create(ctx context.Context, in W) Response[T]
	Update(ctx context.Context, id uint, in W) Response[T]
	Delete(ctx context.Context, id uint) Response[struct{}]
	Action(ctx context.Context, id uint, in ActionInput) Response[T]
}

// Lister adapts the List capability of src to a listing.Fetcher.
func Lister[T any, W any](src Source[T, W]) listing.Fetcher[T] {
	return func(ctx context.Context, req listing.Request) (listing.Page[T], error) {
		resp := src.List(ctx, req)
		if err := resp.Err(); err != nil {
			return listing.Page[T]{}, err
		}
		return *resp.Result, nil
	}
}

// PageRequest converts a 0-based list payload into a 1-based domain request.
func PageRequest(req listing.Request) domain.PageRequest {
	limit := req.Limit
	if limit <= 0 {
		limit = listing.DefaultLimit
	}
	page := req.Page + 1
	if page < 1 {
		page = 1
	}
	filter := make(map[string]string, len(req.Filters))
	for k, v := range req.Filters {
		filter[k] = v
	}
	return domain.PageRequest{
		Page:     page,
		PageSize: limit,
		Sort:     req.Sort,
		Filter:   filter,
	}
}

// FromPage wraps a domain page result as a list response.
func FromPage[T any](res *domain.PageResult[T], err error) Response[listing.Page[T]] {
	if err != nil {
		return From(listing.Page[T]{}, err)
	}
	if res == nil {
		return Fail[listing.Page[T]]()
	}
	return OK(listing.Page[T]{Items: res.Items, TotalElements: res.Total})
}

// Options lists up to limit rows of src, ordered by sort, as select options.
func Options[T any, W any](src Source[T, W], sort string, limit int, label, value func(T) string) func(ctx context.Context) ([]option.Option, error) {
	return func(ctx context.Context) ([]option.Option, error) {
		resp := src.List(ctx, listing.Request{Limit: limit, Sort: sort})
		if err := resp.Err(); err != nil {
			return nil, err
		}
		return option.Plain(resp.Result.Items, label, value).Options, nil
	}
}
