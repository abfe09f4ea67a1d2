package region

import (
	"context"
	"strings"

	"github.com/simp-lee/coconsole/internal/domain"
)

type regionService struct {
	repo domain.RegionRepository
}

// NewRegionService creates a new RegionService with the given repository.
func NewRegionService(repo domain.RegionRepository) domain.RegionService {
	return &regionService{repo: repo}
}

func (s *regionService) Countries(ctx context.Context) ([]domain.Region, error) {
	return s.repo.ListByParent(ctx, domain.RegionCountry, "")
}

// Provinces lists the provinces of a country. An empty code has none.
func (s *regionService) Provinces(ctx context.Context, countryCode string) ([]domain.Region, error) {
	return s.children(ctx, domain.RegionProvince, countryCode)
}

// Cities lists the cities of a province. An empty code has none.
func (s *regionService) Cities(ctx context.Context, provinceCode string) ([]domain.Region, error) {
	return s.children(ctx, domain.RegionCity, provinceCode)
}

func (s *regionService) children(ctx context.Context, level, parent string) ([]domain.Region, error) {
	parent = strings.TrimSpace(parent)
	if parent == "" {
		return []domain.Region{}, nil
	}
	return s.repo.ListByParent(ctx, level, parent)
}
