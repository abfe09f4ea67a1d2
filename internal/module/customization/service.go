package customization

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/coconsole/internal/domain"
	"github.com/simp-lee/coconsole/internal/pkg"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

type customizationService struct {
	repo domain.CustomizationRepository
}

// NewCustomizationService creates a new CustomizationService with the given repository.
func NewCustomizationService(repo domain.CustomizationRepository) domain.CustomizationService {
	return &customizationService{repo: repo}
}

// CreateCustomization requests a new app build with every provisioning step pending.
func (s *customizationService) CreateCustomization(ctx context.Context, in domain.CustomizationInput) (*domain.Customization, error) {
	in = normalize(ctx, in)
	if err := validate(in); err != nil {
		return nil, err
	}

	c := &domain.Customization{
		COAccountID:  in.COAccountID,
		AppName:      in.AppName,
		PrimaryColor: in.PrimaryColor,
		Status:       domain.ProvisionPending,
	}
	for i, name := range domain.DefaultProvisioningSteps {
		c.Steps = append(c.Steps, domain.ProvisioningStep{Name: name, Position: i + 1, Status: domain.ProvisionPending})
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customizationService) GetCustomization(ctx context.Context, id uint) (*domain.Customization, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.InScope(ctx, c.COAccountID) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *customizationService) ListCustomizations(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Customization], error) {
	return s.repo.List(ctx, pkg.ScopeFilter(ctx, req, "co_account_id"))
}

// UpdateCustomization changes the app name and color. The CO account of a
// customization never changes.
func (s *customizationService) UpdateCustomization(ctx context.Context, id uint, in domain.CustomizationInput) (*domain.Customization, error) {
	c, err := s.GetCustomization(ctx, id)
	if err != nil {
		return nil, err
	}
	in = normalize(ctx, in)
	in.COAccountID = c.COAccountID
	if err := validate(in); err != nil {
		return nil, err
	}

	c.AppName = in.AppName
	c.PrimaryColor = in.PrimaryColor
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RetryStep puts a failed step back to pending. An empty step retries the
// first failed one.
func (s *customizationService) RetryStep(ctx context.Context, id uint, step string) (*domain.Customization, error) {
	c, err := s.GetCustomization(ctx, id)
	if err != nil {
		return nil, err
	}
	st := findStep(c, step, func(st *domain.ProvisioningStep) bool { return st.Status == domain.ProvisionFailed })
	if st == nil {
		if step == "" {
			return nil, domain.NewAppError(domain.CodeConflict, "no failed step to retry", nil)
		}
		return nil, domain.NewAppError(domain.CodeNotFound, "step "+step+" not found", nil)
	}
	if st.Status != domain.ProvisionFailed {
		return nil, domain.NewAppError(domain.CodeConflict, "only failed steps can be retried", nil)
	}

	st.Status = domain.ProvisionPending
	st.Error = ""
	c.Status = aggregate(c.Steps)
	if err := s.repo.SaveStep(ctx, c, st); err != nil {
		return nil, err
	}
	return c, nil
}

// ReportStep records the outcome of a step run by the build pipeline. An empty
// failure marks the step done. Steps complete in order.
func (s *customizationService) ReportStep(ctx context.Context, id uint, step string, failure string) (*domain.Customization, error) {
	c, err := s.GetCustomization(ctx, id)
	if err != nil {
		return nil, err
	}
	st := findStep(c, step, nil)
	if st == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, "step "+step+" not found", nil)
	}
	if st.Status == domain.ProvisionDone {
		return nil, domain.NewAppError(domain.CodeConflict, "step "+step+" is already done", nil)
	}
	for _, prev := range c.Steps {
		if prev.Position < st.Position && prev.Status != domain.ProvisionDone {
			return nil, domain.NewAppError(domain.CodeConflict, "step "+prev.Name+" has not completed", nil)
		}
	}

	failure = strings.TrimSpace(failure)
	if failure == "" {
		st.Status = domain.ProvisionDone
		st.Error = ""
	} else {
		st.Status = domain.ProvisionFailed
		if utf8.RuneCountInString(failure) > 500 {
			failure = string([]rune(failure)[:500])
		}
		st.Error = failure
	}
	c.Status = aggregate(c.Steps)
	if err := s.repo.SaveStep(ctx, c, st); err != nil {
		return nil, err
	}
	return c, nil
}

// findStep returns the step named name, or when name is empty the first step
// matching fallback.
func findStep(c *domain.Customization, name string, fallback func(*domain.ProvisioningStep) bool) *domain.ProvisioningStep {
	for i := range c.Steps {
		st := &c.Steps[i]
		if name != "" && st.Name == name {
			return st
		}
		if name == "" && fallback != nil && fallback(st) {
			return st
		}
	}
	return nil
}

// aggregate derives a customization's status from its steps.
func aggregate(steps []domain.ProvisioningStep) string {
	done := 0
	for _, st := range steps {
		switch st.Status {
		case domain.ProvisionFailed:
			return domain.ProvisionFailed
		case domain.ProvisionDone:
			done++
		}
	}
	switch {
	case len(steps) > 0 && done == len(steps):
		return domain.ProvisionDone
	case done == 0:
		return domain.ProvisionPending
	}
	return domain.ProvisionInProgress
}

func normalize(ctx context.Context, in domain.CustomizationInput) domain.CustomizationInput {
	in.AppName = strings.TrimSpace(in.AppName)
	in.PrimaryColor = strings.ToUpper(strings.TrimSpace(in.PrimaryColor))
	if id, ok := domain.ScopeFrom(ctx); ok {
		in.COAccountID = id
	}
	return in
}

func validate(in domain.CustomizationInput) error {
	n := utf8.RuneCountInString(in.AppName)
	switch {
	case in.COAccountID == 0:
		return domain.NewAppError(domain.CodeValidation, "co account is required", nil)
	case n < 2 || n > 100:
		return domain.NewAppError(domain.CodeValidation, "app name must be 2-100 characters", nil)
	case !hexColor.MatchString(in.PrimaryColor):
		return domain.NewAppError(domain.CodeValidation, "primary color must be a hex color such as #1A2B3C", nil)
	}
	return nil
}
