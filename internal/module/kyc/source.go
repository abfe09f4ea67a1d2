package kyc

import (
	"context"

	"github.com/simp-lee/coconsole/internal/console/access"
	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/domain"
)

// KYC actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

const msgImmutable = "KYC requests cannot be changed once submitted"

// Source serves the KYC screen from the local service.
type Source struct {
	svc domain.KYCService
}

var _ fetch.Source[domain.KYCRequest, SubmitRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.KYCService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.KYCRequest]] {
	return fetch.FromPage(s.svc.ListKYC(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.KYCRequest] {
	return fetch.FromPtr(s.svc.GetKYC(ctx, id))
}

func (s *Source) Create(ctx context.Context, req SubmitRequest) fetch.Response[domain.KYCRequest] {
	return fetch.FromPtr(s.svc.SubmitKYC(ctx, req.Input()))
}

func (s *Source) Update(context.Context, uint, SubmitRequest) fetch.Response[domain.KYCRequest] {
	return fetch.Fail[domain.KYCRequest](msgImmutable)
}

func (s *Source) Delete(context.Context, uint) fetch.Response[struct{}] {
	return fetch.Fail[struct{}](msgImmutable)
}

// Action approves or rejects a request on behalf of the operator in ctx.
func (s *Source) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[domain.KYCRequest] {
	reviewer, _ := access.FromContext(ctx)
	switch in.Name {
	case ActionApprove:
		return fetch.FromPtr(s.svc.ApproveKYC(ctx, id, reviewer.ID, in.Note))
	case ActionReject:
		return fetch.FromPtr(s.svc.RejectKYC(ctx, id, reviewer.ID, in.Note))
	}
	return fetch.Fail[domain.KYCRequest]("unknown action " + in.Name)
}
