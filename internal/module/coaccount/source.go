package coaccount

import (
	"context"
	"strconv"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/domain"
)

// CO account actions.
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

const optionLimit = 100

// Source serves the CO account screen from the local service.
type Source struct {
	svc domain.COAccountService
}

var _ fetch.Source[domain.COAccount, COAccountRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.COAccountService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.COAccount]] {
	return fetch.FromPage(s.svc.ListCOAccounts(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.COAccount] {
	return fetch.FromPtr(s.svc.GetCOAccount(ctx, id))
}

func (s *Source) Create(ctx context.Context, req COAccountRequest) fetch.Response[domain.COAccount] {
	return fetch.FromPtr(s.svc.CreateCOAccount(ctx, req.Input()))
}

func (s *Source) Update(ctx context.Context, id uint, req COAccountRequest) fetch.Response[domain.COAccount] {
	return fetch.FromPtr(s.svc.UpdateCOAccount(ctx, id, req.Input()))
}

func (s *Source) Delete(ctx context.Context, id uint) fetch.Response[struct{}] {
	return fetch.Done(s.svc.DeleteCOAccount(ctx, id))
}

func (s *Source) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[domain.COAccount] {
	switch in.Name {
	case ActionActivate:
		return fetch.FromPtr(s.svc.ActivateCOAccount(ctx, id))
	case ActionDeactivate:
		return fetch.FromPtr(s.svc.DeactivateCOAccount(ctx, id))
	}
	return fetch.Fail[domain.COAccount]("unknown action " + in.Name)
}

// Options lists the CO accounts visible under ctx as select options.
func Options(svc domain.COAccountService) func(ctx context.Context) ([]option.Option, error) {
	return func(ctx context.Context) ([]option.Option, error) {
		res, err := svc.ListCOAccounts(ctx, domain.PageRequest{Page: 1, PageSize: optionLimit, Sort: "name:asc"})
		if err != nil {
			return nil, err
		}
		l := option.Plain(res.Items,
			func(co domain.COAccount) string { return co.Name + " (" + co.Code + ")" },
			func(co domain.COAccount) string { return strconv.FormatUint(uint64(co.ID), 10) })
		return l.Options, nil
	}
}
