package region

import (
	"context"

	"github.com/simp-lee/coconsole/internal/console/option"
	"github.com/simp-lee/coconsole/internal/console/upsert"
	"github.com/simp-lee/coconsole/internal/domain"
)

// Option list keys of the region selects.
const (
	KeyCountries = "countries"
	KeyProvinces = "provinces"
	KeyCities    = "cities"
)

// Loads returns the option loads of a country → province → city select
// chain. Each level is loaded from the value currently picked above it.
func Loads(svc domain.RegionService, countryCode, provinceCode string) []upsert.OptionLoad {
	return []upsert.OptionLoad{
		{Key: KeyCountries, Load: wrap(func(ctx context.Context) ([]domain.Region, error) {
			return svc.Countries(ctx)
		})},
		{Key: KeyProvinces, Load: wrap(func(ctx context.Context) ([]domain.Region, error) {
			return svc.Provinces(ctx, countryCode)
		})},
		{Key: KeyCities, Load: wrap(func(ctx context.Context) ([]domain.Region, error) {
			return svc.Cities(ctx, provinceCode)
		})},
	}
}

func wrap(list func(ctx context.Context) ([]domain.Region, error)) func(ctx context.Context) ([]option.Option, error) {
	return func(ctx context.Context) ([]option.Option, error) {
		regions, err := list(ctx)
		if err != nil {
			return nil, err
		}
		return option.Plain(regions,
			func(r domain.Region) string { return r.Name },
			func(r domain.Region) string { return r.Code }).Options, nil
	}
}
