package operator

import (
	"context"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Source serves the operator screen from the local service.
type Source struct {
	svc domain.OperatorService
}

var _ fetch.Source[domain.Operator, OperatorRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.OperatorService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.Operator]] {
	return fetch.FromPage(s.svc.ListOperators(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.Operator] {
	return fetch.FromPtr(s.svc.GetOperator(ctx, id))
}

func (s *Source) Create(ctx context.Context, req OperatorRequest) fetch.Response[domain.Operator] {
	return fetch.FromPtr(s.svc.CreateOperator(ctx, req.Input()))
}

func (s *Source) Update(ctx context.Context, id uint, req OperatorRequest) fetch.Response[domain.Operator] {
	return fetch.FromPtr(s.svc.UpdateOperator(ctx, id, req.Input()))
}

func (s *Source) Delete(ctx context.Context, id uint) fetch.Response[struct{}] {
	return fetch.Done(s.svc.DeleteOperator(ctx, id))
}

func (s *Source) Action(_ context.Context, _ uint, in fetch.ActionInput) fetch.Response[domain.Operator] {
	return fetch.Fail[domain.Operator]("unknown action " + in.Name)
}
