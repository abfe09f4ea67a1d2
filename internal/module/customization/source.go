package customization

import (
	"context"

	"github.com/simp-lee/coconsole/internal/console/fetch"
	"github.com/simp-lee/coconsole/internal/console/listing"
	"github.com/simp-lee/coconsole/internal/domain"
)

// ActionRetry retries a failed provisioning step; the action target names the
// step, empty meaning the first failed one.
const ActionRetry = "retry"

// Source serves the customization screen from the local service.
type Source struct {
	svc domain.CustomizationService
}

var _ fetch.Source[domain.Customization, CustomizationRequest] = (*Source)(nil)

// NewSource returns a Source backed by svc.
func NewSource(svc domain.CustomizationService) *Source {
	return &Source{svc: svc}
}

func (s *Source) List(ctx context.Context, req listing.Request) fetch.Response[listing.Page[domain.Customization]] {
	return fetch.FromPage(s.svc.ListCustomizations(ctx, fetch.PageRequest(req)))
}

func (s *Source) Get(ctx context.Context, id uint) fetch.Response[domain.Customization] {
	return fetch.FromPtr(s.svc.GetCustomization(ctx, id))
}

func (s *Source) Create(ctx context.Context, req CustomizationRequest) fetch.Response[domain.Customization] {
	return fetch.FromPtr(s.svc.CreateCustomization(ctx, req.Input()))
}

func (s *Source) Update(ctx context.Context, id uint, req CustomizationRequest) fetch.Response[domain.Customization] {
	return fetch.FromPtr(s.svc.UpdateCustomization(ctx, id, req.Input()))
}

func (s *Source) Delete(context.Context, uint) fetch.Response[struct{}] {
	return fetch.Fail[struct{}]("customizations cannot be deleted")
}

func (s *Source) Action(ctx context.Context, id uint, in fetch.ActionInput) fetch.Response[domain.Customization] {
	if in.Name == ActionRetry {
		return fetch.FromPtr(s.svc.RetryStep(ctx, id, in.Target))
	}
	return fetch.Fail[domain.Customization]("unknown action " + in.Name)
}
