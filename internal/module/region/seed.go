package region

import (
	"context"

	"github.com/simp-lee/coconsole/internal/domain"
)

// Defaults is the region tree installed on a fresh database.
var Defaults = []domain.Region{
	{Code: "ID", Name: "Indonesia", Level: domain.RegionCountry},
	{Code: "MY", Name: "Malaysia", Level: domain.RegionCountry},
	{Code: "SG", Name: "Singapore", Level: domain.RegionCountry},

	{Code: "ID-JK", Name: "DKI Jakarta", Level: domain.RegionProvince, ParentCode: "ID"},
	{Code: "ID-JB", Name: "Jawa Barat", Level: domain.RegionProvince, ParentCode: "ID"},
	{Code: "ID-JI", Name: "Jawa Timur", Level: domain.RegionProvince, ParentCode: "ID"},
	{Code: "ID-BA", Name: "Bali", Level: domain.RegionProvince, ParentCode: "ID"},
	{Code: "MY-10", Name: "Selangor", Level: domain.RegionProvince, ParentCode: "MY"},
	{Code: "MY-14", Name: "Kuala Lumpur", Level: domain.RegionProvince, ParentCode: "MY"},
	{Code: "SG-01", Name: "Central Singapore", Level: domain.RegionProvince, ParentCode: "SG"},

	{Code: "ID-JK-JKS", Name: "Jakarta Selatan", Level: domain.RegionCity, ParentCode: "ID-JK"},
	{Code: "ID-JK-JKP", Name: "Jakarta Pusat", Level: domain.RegionCity, ParentCode: "ID-JK"},
	{Code: "ID-JB-BDG", Name: "Bandung", Level: domain.RegionCity, ParentCode: "ID-JB"},
	{Code: "ID-JB-BKS", Name: "Bekasi", Level: domain.RegionCity, ParentCode: "ID-JB"},
	{Code: "ID-JI-SBY", Name: "Surabaya", Level: domain.RegionCity, ParentCode: "ID-JI"},
	{Code: "ID-JI-MLG", Name: "Malang", Level: domain.RegionCity, ParentCode: "ID-JI"},
	{Code: "ID-BA-DPS", Name: "Denpasar", Level: domain.RegionCity, ParentCode: "ID-BA"},
	{Code: "MY-10-SHA", Name: "Shah Alam", Level: domain.RegionCity, ParentCode: "MY-10"},
	{Code: "MY-10-PJY", Name: "Petaling Jaya", Level: domain.RegionCity, ParentCode: "MY-10"},
	{Code: "MY-14-KUL", Name: "Kuala Lumpur", Level: domain.RegionCity, ParentCode: "MY-14"},
	{Code: "SG-01-SGP", Name: "Singapore", Level: domain.RegionCity, ParentCode: "SG-01"},
}

// Seed installs Defaults. Existing regions are kept.
func Seed(ctx context.Context, repo domain.RegionRepository) error {
	regions := make([]domain.Region, len(Defaults))
	copy(regions, Defaults)
	return repo.Seed(ctx, regions)
}
