package smscontent

import (
	"context"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/domain"
)

// SMS content actions.
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

// Source serves the SMS content screen from the local service.
type Source struct {
	svc domain.SMSContentService
}

var _ fetch.Source[domain.SMSContent, SMSContentRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.SMSContentService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.SMSContent]] {
	return fetch.FromPage(s.svc.ListSMSContents(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.SMSContent] {
	return fetch.FromPtr(s.svc.GetSMSContent(ctx, id))
}

func (s *Source) Create(ctx context.Context, req SMSContentRequest) fetch.Response[domain.SMSContent] {
	return fetch.FromPtr(s.svc.CreateSMSContent(ctx, req.Input()))
}

func (s *Source) Update(ctx context.Context, id uint, req SMSContentRequest) fetch.Response[domain.SMSContent] {
	return fetch.FromPtr(s.svc.UpdateSMSContent(ctx, id, req.Input()))
}

func (s *Source) Delete(ctx context.Context, id uint) fetch.Response[struct{}] {
	return fetch.Done(s.svc.DeleteSMSContent(ctx, id))
}

func (s *Source) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[domain.SMSContent] {
	switch in.Name {
	case ActionActivate:
		return fetch.FromPtr(s.svc.SetSMSContentActive(ctx, id, true))
	case ActionDeactivate:
		return fetch.FromPtr(s.svc.SetSMSContentActive(ctx, id, false))
	}
	return fetch.Fail[domain.SMSContent]("unknown action " + in.Name)
}
