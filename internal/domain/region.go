package domain

import "context"

// Region levels.
const (
	RegionCountry  = "country"
	RegionProvince = "province"
	RegionCity     = "city"
)

// Region is a node of the country → province → city hierarchy used by
// dependent select inputs.
type Region struct {
	Code       string `gorm:"size:16;primaryKey" json:"code"`
	Name       string `gorm:"size:100;not null" json:"name"`
	Level      string `gorm:"size:10;not null;index" json:"level"`
	ParentCode string `gorm:"size:16;index" json:"parent_code,omitempty"`
}

// RegionRepository defines the data access interface for regions.
type RegionRepository interface {
	ListByParent(ctx context.Context, level, parentCode string) ([]Region, error)
	Seed(ctx context.Context, regions []Region) error
}

// RegionService lists the options of each hierarchy level.
type RegionService interface {
	Countries(ctx context.Context) ([]Region, error)
	Provinces(ctx context.Context, countryCode string) ([]Region, error)
	Cities(ctx context.Context, provinceCode string) ([]Region, error)
}
