package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Source serves one REST resource, e.g. "/members", as a console data source.
// T is the row type and W the write payload, both exchanged as JSON.
type Source[T any, W any] struct {
	c          *Client
	resource   string
	actionPath func(id uint, in fetch.ActionInput) string
}

var _ fetch.Source[struct{}, struct{}] = (*Source[struct{}, struct{}])(nil)

// NewSource returns a Source for resource, a path relative to the client
// root that starts with "/".
func NewSource[T any, W any](c *Client, resource string) *Source[T, W] {
	s := &Source[T, W]{c: c, resource: resource}
	s.actionPath = func(id uint, in fetch.ActionInput) string {
		return idPath(s.resource, id) + "/" + in.Name
	}
	return s
}

// WithActionPath replaces the route of row actions, by default
// <resource>/<id>/<action name>.
func (s *Source[T, W]) WithActionPath(fn func(id uint, in fetch.ActionInput) string) *Source[T, W] {
	s.actionPath = fn
	return s
}

// List fetches one page. The 0-based page of req becomes the API's 1-based page.
func (s *Source[T, W]) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[T]] {
	pr := fetch.PageRequest(req)
	q := url.Values{}
	q.Set("page", strconv.Itoa(pr.Page))
	q.Set("page_size", strconv.Itoa(pr.PageSize))
	if pr.Sort != "" {
		q.Set("sort", pr.Sort)
	}
	for k, v := range pr.Filter {
		q.Set(k, v)
	}

	var res domain.PageResult[T]
	if err := s.c.do(ctx, http.MethodGet, s.resource, q, nil, &res); err != nil {
		return fail[listing.Page[T]](err)
	}
	return fetch.FromPage(&res, nil)
}

// Get fetches one row.
func (s *Source[T, W]) Get(ctx context.Context, id uint) fetch.Response[T] {
	return s.call(ctx, http.MethodGet, idPath(s.resource, id), nil)
}

// Create posts in.
func (s *Source[T, W]) Create(ctx context.Context, in W) fetch.Response[T] {
	return s.call(ctx, http.MethodPost, s.resource, in)
}

// Update puts in.
func (s *Source[T, W]) Update(ctx context.Context, id uint, in W) fetch.Response[T] {
	return s.call(ctx, http.MethodPut, idPath(s.resource, id), in)
}

// Delete removes one row.
func (s *Source[T, W]) Delete(ctx context.Context, id uint) fetch.Response[struct{}] {
	if err := s.c.do(ctx, http.MethodDelete, idPath(s.resource, id), nil, nil, nil); err != nil {
		return fail[struct{}](err)
	}
	return fetch.OK(struct{}{})
}

type actionBody struct {
	Note string `json:"note,omitempty"`
}

// Action posts a row action with its note.
func (s *Source[T, W]) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[T] {
	path := s.actionPath(id, in)
	var body any
	if in.Note != "" {
		body = actionBody{Note: in.Note}
	}
	return s.call(ctx, http.MethodPost, path, body)
}

func (s *Source[T, W]) call(ctx context.Context, method, path string, body any) fetch.Response[T] {
	var out T
	if err := s.c.do(ctx, method, path, nil, body, &out); err != nil {
		return fail[T](err)
	}
	return fetch.OK(out)
}

// fail keeps the remote details of a rejected call. Transport errors carry no
// details so the screen shows its own fallback.
func fail[R any](err error) fetch.Response[R] {
	if se, ok := asStatus(err); ok && se.Status < http.StatusInternalServerError {
		return fetch.Fail[R](se.Details...)
	}
	return fetch.Fail[R]()
}
